package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"foodshare-service/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey = "request_id"
)

var ErrRequestIDNotFound = errors.New("request ID not found")

// RequestIDStore stores processed responses keyed by request ID.
type RequestIDStore interface {
	Store(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Get returns ErrRequestIDNotFound for unknown or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)
}

// InMemoryRequestIDStore is an in-memory implementation of RequestIDStore
type InMemoryRequestIDStore struct {
	mu      sync.Mutex
	entries map[string]requestIDEntry
	now     func() time.Time
}

type requestIDEntry struct {
	response  []byte
	expiresAt time.Time
}

func NewInMemoryRequestIDStore() *InMemoryRequestIDStore {
	return &InMemoryRequestIDStore{
		entries: make(map[string]requestIDEntry),
		now:     time.Now,
	}
}

func (s *InMemoryRequestIDStore) Store(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = requestIDEntry{response: response, expiresAt: now.Add(ttl)}
	return nil
}

func (s *InMemoryRequestIDStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrRequestIDNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrRequestIDNotFound
	}
	return entry.response, nil
}

// CacheRequestIDStore keeps responses in the shared cache so replays work across instances.
type CacheRequestIDStore struct {
	cache cache.Cache
}

func NewCacheRequestIDStore(c cache.Cache) *CacheRequestIDStore {
	return &CacheRequestIDStore{cache: c}
}

const idempotencyKeyPrefix = "idempotency:"

func (s *CacheRequestIDStore) Store(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.cache.Set(ctx, idempotencyKeyPrefix+key, response, ttl)
}

func (s *CacheRequestIDStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.cache.Get(ctx, idempotencyKeyPrefix+key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrRequestIDNotFound
	}
	return data, err
}

// RequestIDMiddleware extracts or generates X-Request-ID header
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			logger.Debug("Generated new request ID",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the stored response when a write request is retried with
// the same client-supplied X-Request-ID. Only 2xx JSON responses are stored. Store
// failures never fail the request.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		// Generated ids are never seen twice.
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			c.Next()
			return
		}
		key := requestID + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + c.GetHeader("Authorization")

		if data, err := store.Get(c.Request.Context(), key); err == nil {
			var cached storedResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				logger.Info("Duplicate request detected, returning cached response",
					zap.String("request_id", requestID),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, ErrRequestIDNotFound) {
			logger.Warn("Error reading idempotency store",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}

		writer := &responseWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || writer.body.Len() == 0 || !json.Valid(writer.body.Bytes()) {
			return
		}
		data, err := json.Marshal(storedResponse{Status: status, Body: writer.body.Bytes()})
		if err != nil {
			return
		}
		if err := store.Store(c.Request.Context(), key, data, ttl); err != nil {
			logger.Warn("Failed to store response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
