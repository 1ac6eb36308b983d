package handlers

import (
	"net/http"

	"foodshare-service/internal/auth"
	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/service"
	"foodshare-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accounts   *service.AccountService
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAccountHandler(accounts *service.AccountService, jwtManager *auth.JWTManager, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, jwtManager: jwtManager, logger: logger}
}

// Signup handles POST /api/v1/auth/signup
// @Summary      Register an account
// @Description  Creates a USER or RESTAURANT account and returns a bearer token. ADMIN accounts
// @Description  are created with the foodsharectl command line tool.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SignupRequest  true  "Account"
// @Success      201      {object}  Envelope{data=AuthResponse}
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Email already registered"
// @Router       /auth/signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			fail(c, err)
			return
		}
		if role == domain.RoleAdmin {
			fail(c, errors.NewForbidden("admin accounts cannot self-register"))
			return
		}
	}

	user, err := h.accounts.CreateUser(c.Request.Context(), commands.CreateUserCommand{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  domain.Role(req.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}
	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "User registered successfully", AuthResponse{User: toUserResponse(user), Token: token})
}

// Me handles GET /api/v1/auth/me
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=UserResponse}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	user, err := h.accounts.GetUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully", toUserResponse(user))
}

// CreateRestaurant handles POST /api/v1/restaurants
// @Summary      Create the caller's restaurant profile
// @Description  A USER becomes a RESTAURANT once the profile exists. Each user owns at most one.
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateRestaurantRequest  true  "Profile"
// @Success      201      {object}  Envelope{data=RestaurantCreatedResponse}
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Profile already exists"
// @Router       /restaurants [post]
func (h *AccountHandler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	restaurant, err := h.accounts.CreateRestaurant(c.Request.Context(), commands.CreateRestaurantCommand{
		UserID:      caller(c),
		Name:        req.RestaurantName,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	// The caller's role may have changed; hand out a token carrying it.
	user, err := h.accounts.GetUser(c.Request.Context(), restaurant.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Restaurant profile created successfully", RestaurantCreatedResponse{
		Restaurant: toRestaurantResponse(restaurant),
		Token:      token,
	})
}

// MyRestaurant handles GET /api/v1/restaurants/me
// @Summary      The caller's restaurant profile
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=RestaurantResponse}
// @Failure      403  {object}  ErrorResponse  "No restaurant profile"
// @Router       /restaurants/me [get]
func (h *AccountHandler) MyRestaurant(c *gin.Context) {
	restaurant, err := h.accounts.RestaurantForUser(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Restaurant profile retrieved successfully", toRestaurantResponse(restaurant))
}

// GetRestaurant handles GET /api/v1/restaurants/:id
// @Summary      Get a restaurant profile
// @Tags         restaurants
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID (UUID)"
// @Success      200  {object}  Envelope{data=RestaurantResponse}
// @Failure      404  {object}  ErrorResponse
// @Router       /restaurants/{id} [get]
func (h *AccountHandler) GetRestaurant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.accounts.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Restaurant profile retrieved successfully", toRestaurantResponse(restaurant))
}

// VerifyRestaurant handles PUT /api/v1/admin/restaurants/:id/verify
// @Summary      Verify a restaurant
// @Description  Admin only. The owner receives a restaurant_verified notification.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID (UUID)"
// @Success      200  {object}  Envelope{data=RestaurantResponse}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/restaurants/{id}/verify [put]
func (h *AccountHandler) VerifyRestaurant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.accounts.VerifyRestaurant(c.Request.Context(), commands.VerifyRestaurantCommand{RestaurantID: id})
	if err != nil {
		fail(c, err)
		return
	}
	h.logger.Info("Restaurant verified", zap.String("restaurant_id", restaurant.ID.String()))
	respond(c, http.StatusOK, "Restaurant verified successfully", toRestaurantResponse(restaurant))
}
