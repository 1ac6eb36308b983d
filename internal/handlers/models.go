package handlers

import (
	"time"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/service"

	"github.com/google/uuid"
)

// Envelope wraps every successful response.
// @Description Success envelope
type Envelope struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Food request created successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response
// @Description Error response with a stable code, a message and optional details
type ErrorResponse struct {
	Error   string `json:"error" example:"InsufficientQuantity"`
	Message string `json:"message" example:"requested quantity is not available"`
	Details string `json:"details" example:"available: 2, requested: 5"`
}

// Pagination describes the window of a list response.
type Pagination struct {
	Total      int `json:"total" example:"42"`
	Page       int `json:"page" example:"1"`
	Limit      int `json:"limit" example:"10"`
	TotalPages int `json:"totalPages" example:"5"`
}

func newPagination(total, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Name  string `json:"name" binding:"required" example:"Alice Smith"`
	Email string `json:"email" binding:"required,email" example:"alice@example.com"`
	Phone string `json:"phone" example:"555-0101"`
	// USER or RESTAURANT; defaults to USER
	Role string `json:"role" example:"USER"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Alice Smith"`
	Email     string    `json:"email" example:"alice@example.com"`
	Phone     string    `json:"phone,omitempty" example:"555-0101"`
	Role      string    `json:"role" example:"USER"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse carries a freshly issued bearer token.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// CreateRestaurantRequest creates the caller's restaurant profile.
type CreateRestaurantRequest struct {
	RestaurantName string `json:"restaurantName" binding:"required" example:"Corner Bistro"`
	Description    string `json:"description" example:"Family bistro with daily bread"`
	Address        string `json:"address" binding:"required" example:"1 Main St"`
	Phone          string `json:"phone" binding:"required" example:"555-0102"`
}

// RestaurantResponse is a restaurant profile.
type RestaurantResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	RestaurantName string    `json:"restaurantName" example:"Corner Bistro"`
	Description    string    `json:"description,omitempty"`
	Address        string    `json:"address" example:"1 Main St"`
	Phone          string    `json:"phone" example:"555-0102"`
	IsVerified     bool      `json:"isVerified" example:"false"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RestaurantCreatedResponse carries the new profile and a token reflecting the owner's role.
type RestaurantCreatedResponse struct {
	Restaurant RestaurantResponse `json:"restaurant"`
	Token      string             `json:"token"`
}

func toRestaurantResponse(r *domain.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		RestaurantName: r.Name,
		Description:    r.Description,
		Address:        r.Address,
		Phone:          r.Phone,
		IsVerified:     r.Verified,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// CreateListingRequest posts a new food listing.
type CreateListingRequest struct {
	Title       string    `json:"title" binding:"required" example:"Bread rolls"`
	Description string    `json:"description" example:"Day-old rolls"`
	Quantity    int       `json:"quantity" binding:"required,min=1" example:"10"`
	Unit        string    `json:"unit" binding:"required" example:"portions"`
	Category    string    `json:"category" example:"bakery"`
	PickupTime  string    `json:"pickupTime" example:"18:00-20:00"`
	ImageURL    string    `json:"imageUrl" example:"https://example.com/rolls.jpg"`
	ExpiryDate  time.Time `json:"expiryDate" binding:"required" example:"2026-03-12T12:00:00Z"`
}

// UpdateListingRequest edits a listing; omitted fields are left unchanged.
type UpdateListingRequest struct {
	Title       *string    `json:"title" example:"Fresh rolls"`
	Description *string    `json:"description"`
	Quantity    *int       `json:"quantity" example:"12"`
	Unit        *string    `json:"unit"`
	Category    *string    `json:"category"`
	PickupTime  *string    `json:"pickupTime"`
	ImageURL    *string    `json:"imageUrl"`
	Status      *string    `json:"status" example:"AVAILABLE"`
	ExpiryDate  *time.Time `json:"expiryDate"`
}

func (r UpdateListingRequest) patch() (domain.ListingPatch, error) {
	p := domain.ListingPatch{
		Title:       r.Title,
		Description: r.Description,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		Category:    r.Category,
		PickupTime:  r.PickupTime,
		ImageURL:    r.ImageURL,
		ExpiryDate:  r.ExpiryDate,
	}
	if r.Status != nil {
		status, err := domain.ParseListingStatus(*r.Status)
		if err != nil {
			return p, err
		}
		p.Status = &status
	}
	return p, nil
}

// ListingResponse is a food listing.
type ListingResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Title        string    `json:"title" example:"Bread rolls"`
	Description  string    `json:"description,omitempty"`
	Quantity     int       `json:"quantity" example:"10"`
	Unit         string    `json:"unit" example:"portions"`
	Category     string    `json:"category,omitempty" example:"bakery"`
	PickupTime   string    `json:"pickupTime,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Status       string    `json:"status" example:"AVAILABLE"`
	ExpiryDate   time.Time `json:"expiryDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toListingResponse(l *domain.FoodListing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		RestaurantID: l.RestaurantID,
		Title:        l.Title,
		Description:  l.Description,
		Quantity:     l.Quantity,
		Unit:         l.Unit,
		Category:     l.Category,
		PickupTime:   l.PickupTime,
		ImageURL:     l.ImageURL,
		Status:       string(l.Status),
		ExpiryDate:   l.ExpiryDate,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// ListingListResponse is one page of listings.
type ListingListResponse struct {
	Listings   []ListingResponse `json:"listings"`
	Pagination Pagination        `json:"pagination"`
}

func toListingList(page *service.ListingPage) ListingListResponse {
	out := ListingListResponse{
		Listings:   make([]ListingResponse, 0, len(page.Listings)),
		Pagination: newPagination(page.Total, page.Page, page.Limit),
	}
	for i := range page.Listings {
		out.Listings = append(out.Listings, toListingResponse(&page.Listings[i]))
	}
	return out
}

// CreateFoodRequestRequest claims part of a listing.
type CreateFoodRequestRequest struct {
	FoodListingID uuid.UUID `json:"foodListingId" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Quantity      int       `json:"quantity" example:"3"`
	Message       string    `json:"message" example:"Picking up after work"`
}

// UpdateRequestStatusRequest carries a restaurant decision.
type UpdateRequestStatusRequest struct {
	// APPROVED or REJECTED
	Status     string     `json:"status" binding:"required" example:"APPROVED"`
	PickupDate *time.Time `json:"pickupDate" example:"2026-03-11T18:00:00Z"`
}

// FoodRequestResponse is a food request.
type FoodRequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	FoodListingID uuid.UUID  `json:"foodListingId"`
	Quantity      int        `json:"quantity" example:"3"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status" example:"PENDING"`
	PickupDate    *time.Time `json:"pickupDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toFoodRequestResponse(r *domain.FoodRequest) FoodRequestResponse {
	return FoodRequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		FoodListingID: r.ListingID,
		Quantity:      r.Quantity,
		Message:       r.Message,
		Status:        string(r.Status),
		PickupDate:    r.PickupDate,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FoodRequestListResponse is one page of food requests.
type FoodRequestListResponse struct {
	Requests   []FoodRequestResponse `json:"requests"`
	Pagination Pagination            `json:"pagination"`
}

func toFoodRequestList(page *service.RequestPage) FoodRequestListResponse {
	out := FoodRequestListResponse{
		Requests:   make([]FoodRequestResponse, 0, len(page.Requests)),
		Pagination: newPagination(page.Total, page.Page, page.Limit),
	}
	for i := range page.Requests {
		out.Requests = append(out.Requests, toFoodRequestResponse(&page.Requests[i]))
	}
	return out
}

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title" example:"New Food Request"`
	Message   string    `json:"message" example:"Alice has requested 3 portions of Bread rolls"`
	Type      string    `json:"type" example:"new_food_request"`
	IsRead    bool      `json:"isRead" example:"false"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationListResponse is one page of the inbox.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Pagination    Pagination             `json:"pagination"`
}
