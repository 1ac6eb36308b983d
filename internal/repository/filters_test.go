package repository

import (
	"strings"
	"testing"

	"foodshare-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestListingFilter_Defaults(t *testing.T) {
	f := ListingFilter{Category: "  bakery "}

	assert.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page.Page)
	assert.Equal(t, DefaultPageSize, f.Limit)
	assert.Equal(t, "bakery", f.Category)
	assert.Equal(t, 0, f.Offset())
}

func TestListingFilter_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		filter ListingFilter
	}{
		{"negative page", ListingFilter{Page: Page{Page: -1}}},
		{"limit too large", ListingFilter{Page: Page{Limit: MaxPageSize + 1}}},
		{"unknown status", ListingFilter{Status: "SOLD"}},
		{"search too long", ListingFilter{Search: strings.Repeat("a", maxSearchLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRequestFilter_Offset(t *testing.T) {
	f := RequestFilter{Status: domain.RequestPending, Page: Page{Page: 3, Limit: 20}}

	assert.NoError(t, f.Validate())
	assert.Equal(t, 40, f.Offset())
}

func TestNotificationFilter_RequiresUser(t *testing.T) {
	f := NotificationFilter{}
	assert.ErrorIs(t, f.Validate(), domain.ErrMissingField)

	f.UserID = uuid.New()
	assert.NoError(t, f.Validate())
}
