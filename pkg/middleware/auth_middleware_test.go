package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodshare-service/internal/auth"
	"foodshare-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-min-32-chars-for-testing"

func setupAuthMiddlewareTestRouter(jwtManager *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(jwtManager, zap.NewNop()))
	{
		protected.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": CallerID(c).String()})
		})
		protected.GET("/restaurant", RequireRole(domain.RoleRestaurant, domain.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
	}

	return router
}

func tokenFor(t *testing.T, jwtManager *auth.JWTManager, role domain.Role) (string, *domain.User) {
	t.Helper()
	user, err := domain.NewUser("Alice", "alice@example.com", "555-0101", role, time.Now())
	require.NoError(t, err)
	token, err := jwtManager.GenerateToken(user)
	require.NoError(t, err)
	return token, user
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour, zap.NewNop())
	router := setupAuthMiddlewareTestRouter(jwtManager)
	token, user := tokenFor(t, jwtManager, domain.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour, zap.NewNop())
	router := setupAuthMiddlewareTestRouter(jwtManager)

	testCases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no Bearer prefix", "invalid-token"},
		{"wrong scheme", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"Unauthorized"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour, zap.NewNop())
	router := setupAuthMiddlewareTestRouter(jwtManager)

	testCases := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleUser, http.StatusForbidden},
		{domain.RoleRestaurant, http.StatusNoContent},
		{domain.RoleAdmin, http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			token, _ := tokenFor(t, jwtManager, tc.role)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurant", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}
