package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodshare-service/internal/auth"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/events"
	"foodshare-service/internal/repository/memory"
	"foodshare-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiTest struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
	jwt    *auth.JWTManager
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	jwtManager := auth.NewJWTManager("test-secret-key-min-32-chars-for-testing", time.Hour, zap.NewNop())
	router := NewRouter(RouterConfig{
		Store: store,
		Deps: service.Deps{
			Store:     store,
			Publisher: events.NewEventPublisher(zap.NewNop()),
			Logger:    zap.NewNop(),
		},
		JWTManager: jwtManager,
		Logger:     zap.NewNop(),
	})
	return &apiTest{t: t, router: router, store: store, jwt: jwtManager}
}

func (a *apiTest) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// data decodes the envelope's data field into dest.
func (a *apiTest) data(w *httptest.ResponseRecorder, dest interface{}) {
	a.t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(a.t, env.Success, w.Body.String())
	require.NoError(a.t, json.Unmarshal(env.Data, dest))
}

func (a *apiTest) errorCode(w *httptest.ResponseRecorder) string {
	a.t.Helper()
	var resp ErrorResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func (a *apiTest) signup(name, role string) (string, UserResponse) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{
		Name:  name,
		Email: fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
		Role:  role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp AuthResponse
	a.data(w, &resp)
	return resp.Token, resp.User
}

// restaurantOwner signs up a user and creates their restaurant, returning the refreshed token.
func (a *apiTest) restaurantOwner(name string) string {
	a.t.Helper()
	token, _ := a.signup(name, "")
	w := a.do(http.MethodPost, "/api/v1/restaurants", token, CreateRestaurantRequest{
		RestaurantName: name + "'s Kitchen",
		Address:        "1 Main St",
		Phone:          "555-0102",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp RestaurantCreatedResponse
	a.data(w, &resp)
	return resp.Token
}

func (a *apiTest) createListing(token string, quantity int) ListingResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/foods", token, CreateListingRequest{
		Title:      "Bread rolls",
		Quantity:   quantity,
		Unit:       "portions",
		Category:   "bakery",
		ExpiryDate: time.Now().Add(48 * time.Hour).UTC(),
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var listing ListingResponse
	a.data(w, &listing)
	return listing
}

func TestHealthCheck(t *testing.T) {
	api := newAPITest(t)
	w := api.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestFoodRequestFlow(t *testing.T) {
	api := newAPITest(t)
	ownerToken := api.restaurantOwner("Owner")
	aliceToken, _ := api.signup("Alice", "")
	listing := api.createListing(ownerToken, 10)

	// Browsing is public.
	w := api.do(http.MethodGet, "/api/v1/foods?category=bakery", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var browse ListingListResponse
	api.data(w, &browse)
	require.Len(t, browse.Listings, 1)
	assert.Equal(t, 1, browse.Pagination.TotalPages)

	w = api.do(http.MethodPost, "/api/v1/requests", aliceToken, CreateFoodRequestRequest{FoodListingID: listing.ID, Quantity: 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var request FoodRequestResponse
	api.data(w, &request)
	assert.Equal(t, "PENDING", request.Status)

	w = api.do(http.MethodPost, "/api/v1/requests", aliceToken, CreateFoodRequestRequest{FoodListingID: listing.ID, Quantity: 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The owner was notified.
	w = api.do(http.MethodGet, "/api/v1/notifications?unreadOnly=true", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox NotificationListResponse
	api.data(w, &inbox)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, domain.NotificationNewFoodRequest, inbox.Notifications[0].Type)

	// Users cannot decide requests.
	statusPath := "/api/v1/requests/" + request.ID.String() + "/status"
	w = api.do(http.MethodPut, statusPath, aliceToken, UpdateRequestStatusRequest{Status: "APPROVED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPut, statusPath, ownerToken, UpdateRequestStatusRequest{Status: "APPROVED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.data(w, &request)
	assert.Equal(t, "APPROVED", request.Status)

	w = api.do(http.MethodGet, "/api/v1/foods/"+listing.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.data(w, &listing)
	assert.Equal(t, 6, listing.Quantity)

	// A decided request is closed.
	w = api.do(http.MethodPut, "/api/v1/requests/"+request.ID.String()+"/cancel", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "InvalidTransition", api.errorCode(w))

	w = api.do(http.MethodGet, "/api/v1/requests/my", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine FoodRequestListResponse
	api.data(w, &mine)
	assert.Equal(t, 1, mine.Pagination.Total)
}

func TestCreateFoodRequestErrors(t *testing.T) {
	api := newAPITest(t)
	ownerToken := api.restaurantOwner("Owner")
	aliceToken, _ := api.signup("Alice", "")
	listing := api.createListing(ownerToken, 2)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"zero quantity", CreateFoodRequestRequest{FoodListingID: listing.ID, Quantity: 0}, http.StatusBadRequest, "InvalidRequest"},
		{"too much", CreateFoodRequestRequest{FoodListingID: listing.ID, Quantity: 3}, http.StatusUnprocessableEntity, "InsufficientQuantity"},
		{"unknown listing", map[string]interface{}{"foodListingId": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "quantity": 1}, http.StatusNotFound, "ResourceNotFound"},
		{"malformed body", map[string]interface{}{"foodListingId": "nope", "quantity": 1}, http.StatusBadRequest, "InvalidRequest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/v1/requests", aliceToken, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, tt.wantErr, api.errorCode(w))
		})
	}

	w := api.do(http.MethodPost, "/api/v1/requests", "", CreateFoodRequestRequest{FoodListingID: listing.ID, Quantity: 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListingOwnership(t *testing.T) {
	api := newAPITest(t)
	ownerToken := api.restaurantOwner("Owner")
	rivalToken := api.restaurantOwner("Rival")
	listing := api.createListing(ownerToken, 5)
	path := "/api/v1/foods/" + listing.ID.String()

	title := "Stolen"
	w := api.do(http.MethodPut, path, rivalToken, UpdateListingRequest{Title: &title})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodDelete, path, rivalToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	title = "Fresh rolls"
	w = api.do(http.MethodPut, path, ownerToken, UpdateListingRequest{Title: &title})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.data(w, &listing)
	assert.Equal(t, "Fresh rolls", listing.Title)

	w = api.do(http.MethodGet, "/api/v1/foods/my/listings", rivalToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var own ListingListResponse
	api.data(w, &own)
	assert.Empty(t, own.Listings)

	w = api.do(http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlainUserCannotPostListings(t *testing.T) {
	api := newAPITest(t)
	token, _ := api.signup("Alice", "")

	w := api.do(http.MethodPost, "/api/v1/foods", token, CreateListingRequest{
		Title: "Soup", Quantity: 1, Unit: "bowl", ExpiryDate: time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A RESTAURANT account without a profile is told to create one.
	restaurantToken, _ := api.signup("Bob", "RESTAURANT")
	w = api.do(http.MethodPost, "/api/v1/foods", restaurantToken, CreateListingRequest{
		Title: "Soup", Quantity: 1, Unit: "bowl", ExpiryDate: time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "restaurant profile first")
}

func TestAdminVerifiesRestaurant(t *testing.T) {
	api := newAPITest(t)
	ownerToken := api.restaurantOwner("Owner")

	w := api.do(http.MethodGet, "/api/v1/restaurants/me", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var restaurant RestaurantResponse
	api.data(w, &restaurant)
	assert.False(t, restaurant.IsVerified)

	admin, err := domain.NewUser("Root", "root@example.com", "", domain.RoleAdmin, time.Now())
	require.NoError(t, err)
	require.NoError(t, api.store.Users().Create(context.Background(), admin))
	adminToken, err := api.jwt.GenerateToken(admin)
	require.NoError(t, err)

	path := "/api/v1/admin/restaurants/" + restaurant.ID.String() + "/verify"
	w = api.do(http.MethodPut, path, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPut, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.data(w, &restaurant)
	assert.True(t, restaurant.IsVerified)

	w = api.do(http.MethodGet, "/api/v1/notifications", ownerToken, nil)
	var inbox NotificationListResponse
	api.data(w, &inbox)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, domain.NotificationRestaurantVerified, inbox.Notifications[0].Type)

	w = api.do(http.MethodPut, "/api/v1/notifications/read-all", ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":1`)
}

func TestSignupValidation(t *testing.T) {
	api := newAPITest(t)

	w := api.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{Name: "Eve", Email: "eve@example.com", Role: "ADMIN"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{Name: "Eve", Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{Name: "Eve", Email: "eve@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{Name: "Eve", Email: "EVE@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPaginationQueryValidation(t *testing.T) {
	api := newAPITest(t)

	w := api.do(http.MethodGet, "/api/v1/foods?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/foods?limit=101", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/foods?status=SOLD", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
