package handlers

import (
	"net/http"

	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"
	"foodshare-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listings *service.ListingService
	accounts *service.AccountService
}

func NewListingHandler(listings *service.ListingService, accounts *service.AccountService) *ListingHandler {
	return &ListingHandler{listings: listings, accounts: accounts}
}

// BrowseListings handles GET /api/v1/foods
// @Summary      Browse food listings
// @Description  Public catalogue. Defaults to AVAILABLE listings; expired listings are never shown.
// @Tags         foods
// @Produce      json
// @Param        category  query     string  false  "Category"
// @Param        status    query     string  false  "AVAILABLE or RESERVED"
// @Param        search    query     string  false  "Case-insensitive match on title or description"
// @Param        page      query     int     false  "Page (default 1)"
// @Param        limit     query     int     false  "Page size (default 10, max 100)"
// @Success      200       {object}  Envelope{data=ListingListResponse}
// @Failure      400       {object}  ErrorResponse
// @Router       /foods [get]
func (h *ListingHandler) BrowseListings(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	filter := repository.ListingFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseListingStatus(raw)
		if err != nil {
			fail(c, err)
			return
		}
		filter.Status = status
	}

	result, err := h.listings.BrowseListings(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food listings retrieved successfully", toListingList(result))
}

// GetListing handles GET /api/v1/foods/:id
// @Summary      Get a food listing
// @Tags         foods
// @Produce      json
// @Param        id   path      string  true  "Listing ID (UUID)"
// @Success      200  {object}  Envelope{data=ListingResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /foods/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.listings.GetListing(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food listing retrieved successfully", toListingResponse(listing))
}

// CreateListing handles POST /api/v1/foods
// @Summary      Create a food listing
// @Description  Posts surplus food for the caller's restaurant. The expiry date must be in the future.
// @Description  **Idempotency**: retries carrying the same X-Request-ID replay the first response.
// @Tags         foods
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string                false  "Request ID for idempotency"
// @Param        request       body      CreateListingRequest  true   "Listing"
// @Success      201           {object}  Envelope{data=ListingResponse}
// @Failure      400           {object}  ErrorResponse
// @Failure      401           {object}  ErrorResponse
// @Failure      403           {object}  ErrorResponse  "No restaurant profile"
// @Router       /foods [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if !bindJSON(c, &req) {
		return
	}
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}

	listing, err := h.listings.CreateListing(c.Request.Context(), commands.CreateListingCommand{
		RestaurantID: restaurant.ID,
		Title:        req.Title,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Category:     req.Category,
		PickupTime:   req.PickupTime,
		ImageURL:     req.ImageURL,
		ExpiryDate:   req.ExpiryDate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Food listing created successfully", toListingResponse(listing))
}

// UpdateListing handles PUT /api/v1/foods/:id
// @Summary      Update a food listing
// @Description  Partial update by the owning restaurant. Omitted fields are unchanged.
// @Tags         foods
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Listing ID (UUID)"
// @Param        request  body      UpdateListingRequest  true  "Fields to change"
// @Success      200      {object}  Envelope{data=ListingResponse}
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Concurrent modification"
// @Router       /foods/{id} [put]
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateListingRequest
	if !bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		fail(c, err)
		return
	}
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}

	listing, err := h.listings.UpdateListing(c.Request.Context(), commands.UpdateListingCommand{
		ID:           id,
		RestaurantID: restaurant.ID,
		Patch:        patch,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food listing updated successfully", toListingResponse(listing))
}

// DeleteListing handles DELETE /api/v1/foods/:id
// @Summary      Delete a food listing
// @Description  Fails with 409 while the listing has PENDING requests.
// @Tags         foods
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing ID (UUID)"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /foods/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.listings.DeleteListing(c.Request.Context(), commands.DeleteListingCommand{ID: id, RestaurantID: restaurant.ID}); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food listing deleted successfully", nil)
}

// MyListings handles GET /api/v1/foods/my/listings
// @Summary      List the caller's food listings
// @Description  Every listing of the caller's restaurant, expired and reserved ones included.
// @Tags         foods
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  Envelope{data=ListingListResponse}
// @Failure      403    {object}  ErrorResponse
// @Router       /foods/my/listings [get]
func (h *ListingHandler) MyListings(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	result, err := h.listings.ListRestaurantListings(c.Request.Context(), restaurant.ID, page)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Food listings retrieved successfully", toListingList(result))
}
