package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodshare-service/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps the client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "client-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "client-123", w.Body.String())
	})
}

func setupIdempotencyRouter(store RequestIDStore, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.Use(IdempotencyMiddleware(store, zap.NewNop(), time.Minute))
	router.POST("/requests", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"call": *calls})
	})
	router.POST("/fail", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict"})
	})
	return router
}

func post(router *gin.Engine, path, requestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware(t *testing.T) {
	stores := map[string]RequestIDStore{
		"memory": NewInMemoryRequestIDStore(),
		"cache":  NewCacheRequestIDStore(cache.NewInMemoryCache(zap.NewNop())),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			calls := 0
			router := setupIdempotencyRouter(store, &calls)

			first := post(router, "/requests", "retry-1")
			require.Equal(t, http.StatusCreated, first.Code)

			replay := post(router, "/requests", "retry-1")
			assert.Equal(t, http.StatusCreated, replay.Code)
			assert.JSONEq(t, first.Body.String(), replay.Body.String())
			assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
			assert.Equal(t, 1, calls)

			post(router, "/requests", "retry-2")
			assert.Equal(t, 2, calls)

			// Without a client id every request runs.
			post(router, "/requests", "")
			post(router, "/requests", "")
			assert.Equal(t, 4, calls)

			// Failures are not stored.
			post(router, "/fail", "retry-3")
			post(router, "/fail", "retry-3")
			assert.Equal(t, 6, calls)
		})
	}
}

func TestInMemoryRequestIDStoreExpiry(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "k", []byte("v"), time.Minute))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrRequestIDNotFound)
}
