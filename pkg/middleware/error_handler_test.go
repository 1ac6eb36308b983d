package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodshare-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryHandler(zap.NewNop()), ErrorHandler(zap.NewNop()), CORSMiddleware())
	router.GET("/domain", func(c *gin.Context) {
		_ = c.Error(domain.ErrInsufficientQuantity.WithDetails("available: 1, requested: 3"))
	})
	router.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errors.New("disk I/O error"))
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestErrorHandler(t *testing.T) {
	router := setupErrorRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/domain", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"InsufficientQuantity","message":"requested quantity is not available","details":"available: 1, requested: 3"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk")
}

func TestRecoveryHandler(t *testing.T) {
	w := httptest.NewRecorder()
	setupErrorRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "InternalError")
}

func TestCORSPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	setupErrorRouter().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/domain", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
