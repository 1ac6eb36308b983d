package handlers

import (
	"net/http"

	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"
	"foodshare-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RequestHandler struct {
	requests *service.RequestService
	accounts *service.AccountService
}

func NewRequestHandler(requests *service.RequestService, accounts *service.AccountService) *RequestHandler {
	return &RequestHandler{requests: requests, accounts: accounts}
}

// CreateFoodRequest handles POST /api/v1/requests
// @Summary      Request food from a listing
// @Description  Files a PENDING request. Inventory is only taken when the restaurant approves.
// @Description  A user may hold one PENDING request per listing.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string                    false  "Request ID for idempotency"
// @Param        request       body      CreateFoodRequestRequest  true   "Claim"
// @Success      201           {object}  Envelope{data=FoodRequestResponse}
// @Failure      400           {object}  ErrorResponse  "Quantity must be greater than 0"
// @Failure      404           {object}  ErrorResponse  "Listing not found"
// @Failure      409           {object}  ErrorResponse  "Pending request already exists"
// @Failure      422           {object}  ErrorResponse  "Listing not available or insufficient quantity"
// @Router       /requests [post]
func (h *RequestHandler) CreateFoodRequest(c *gin.Context) {
	var req CreateFoodRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	request, err := h.requests.CreateFoodRequest(c.Request.Context(), commands.CreateFoodRequestCommand{
		UserID:    caller(c),
		ListingID: req.FoodListingID,
		Quantity:  req.Quantity,
		Message:   req.Message,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Food request created successfully", toFoodRequestResponse(request))
}

// MyRequests handles GET /api/v1/requests/my
// @Summary      List the caller's food requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "PENDING, APPROVED, REJECTED or CANCELLED"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  Envelope{data=FoodRequestListResponse}
// @Router       /requests/my [get]
func (h *RequestHandler) MyRequests(c *gin.Context) {
	filter, ok := requestFilter(c)
	if !ok {
		return
	}
	page, err := h.requests.ListUserRequests(c.Request.Context(), caller(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food requests retrieved successfully", toFoodRequestList(page))
}

// RestaurantRequests handles GET /api/v1/requests/restaurant
// @Summary      List requests made against the caller's listings
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "PENDING, APPROVED, REJECTED or CANCELLED"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  Envelope{data=FoodRequestListResponse}
// @Failure      403     {object}  ErrorResponse
// @Router       /requests/restaurant [get]
func (h *RequestHandler) RestaurantRequests(c *gin.Context) {
	filter, ok := requestFilter(c)
	if !ok {
		return
	}
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.requests.ListRestaurantRequests(c.Request.Context(), restaurant.ID, filter)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food requests retrieved successfully", toFoodRequestList(page))
}

// GetFoodRequest handles GET /api/v1/requests/:id
// @Summary      Get a food request
// @Description  Visible to the requester and to the restaurant owning the listing.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID (UUID)"
// @Success      200  {object}  Envelope{data=FoodRequestResponse}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id} [get]
func (h *RequestHandler) GetFoodRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := caller(c)
	restaurantID := uuid.Nil
	if restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), userID); err == nil {
		restaurantID = restaurant.ID
	}
	request, err := h.requests.GetFoodRequest(c.Request.Context(), id, userID, restaurantID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food request retrieved successfully", toFoodRequestResponse(request))
}

// UpdateRequestStatus handles PUT /api/v1/requests/:id/status
// @Summary      Approve or reject a food request
// @Description  Approval takes the requested quantity off the listing in the same transaction.
// @Description  The listing becomes RESERVED when nothing is left.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Request ID (UUID)"
// @Param        request  body      UpdateRequestStatusRequest  true  "Decision"
// @Success      200      {object}  Envelope{data=FoodRequestResponse}
// @Failure      400      {object}  ErrorResponse  "Decision must be APPROVED or REJECTED"
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Request already decided or listing over-committed"
// @Failure      422      {object}  ErrorResponse  "Listing not available"
// @Router       /requests/{id}/status [put]
func (h *RequestHandler) UpdateRequestStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateRequestStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}

	request, err := h.requests.DecideFoodRequest(c.Request.Context(), commands.DecideFoodRequestCommand{
		RequestID:    id,
		RestaurantID: restaurant.ID,
		Decision:     req.Status,
		PickupDate:   req.PickupDate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food request "+string(request.Status)+" successfully", toFoodRequestResponse(request))
}

// CancelFoodRequest handles PUT /api/v1/requests/:id/cancel
// @Summary      Cancel the caller's pending request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID (UUID)"
// @Success      200  {object}  Envelope{data=FoodRequestResponse}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse  "Request is no longer PENDING"
// @Router       /requests/{id}/cancel [put]
func (h *RequestHandler) CancelFoodRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	request, err := h.requests.CancelFoodRequest(c.Request.Context(), commands.CancelFoodRequestCommand{
		RequestID: id,
		UserID:    caller(c),
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food request cancelled successfully", toFoodRequestResponse(request))
}

func requestFilter(c *gin.Context) (repository.RequestFilter, bool) {
	page, ok := pageQuery(c)
	if !ok {
		return repository.RequestFilter{}, false
	}
	filter := repository.RequestFilter{Page: page}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseRequestStatus(raw)
		if err != nil {
			fail(c, err)
			return filter, false
		}
		filter.Status = status
	}
	return filter, true
}
