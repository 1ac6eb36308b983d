package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"foodshare-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"not found", domain.ErrListingNotFound, CodeNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrNotRequestOwner, CodeForbidden, http.StatusForbidden},
		{"invalid input", domain.ErrInvalidQuantity, CodeInvalidRequest, http.StatusBadRequest},
		{"conflict", domain.ErrDuplicatePendingRequest, CodeConflict, http.StatusConflict},
		{"invalid transition", domain.ErrInvalidTransition, CodeInvalidTransition, http.StatusConflict},
		{"insufficient quantity", domain.ErrInsufficientQuantity, CodeInsufficientQuantity, http.StatusUnprocessableEntity},
		{"listing not available", domain.ErrListingNotAvailable, CodeListingNotAvailable, http.StatusUnprocessableEntity},
		{"invariant violation", domain.ErrInvariantViolation, CodeInvariantViolation, http.StatusConflict},
		{"wrapped", fmt.Errorf("decide: %w", domain.ErrConcurrentUpdate), CodeConflict, http.StatusConflict},
		{"unclassified", stderrors.New("pq: connection reset"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := FromError(tt.err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.wantStatus, stdErr.HTTPStatus())
		})
	}
}

func TestFromErrorKeepsDetails(t *testing.T) {
	stdErr := FromError(domain.ErrInsufficientQuantity.WithDetails("available: %d, requested: %d", 2, 5))
	assert.Equal(t, "requested quantity is not available", stdErr.Message)
	assert.Equal(t, "available: 2, requested: 5", stdErr.Details)
}

func TestFromErrorHidesInternalText(t *testing.T) {
	stdErr := FromError(stderrors.New("sql: database is locked"))
	assert.Equal(t, "internal server error", stdErr.Message)
	assert.Empty(t, stdErr.Details)
}

func TestFromErrorPassesStandardErrorThrough(t *testing.T) {
	original := NewUnauthorized("token expired", "")
	assert.Same(t, original, FromError(fmt.Errorf("auth: %w", original)))
	assert.Equal(t, http.StatusUnauthorized, original.HTTPStatus())
}

func TestFromErrorBareKindSentinel(t *testing.T) {
	stdErr := FromError(domain.ErrNotFound)
	assert.Equal(t, "NotFound", stdErr.Message)
	assert.Equal(t, http.StatusNotFound, stdErr.HTTPStatus())
}
