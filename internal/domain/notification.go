package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notification type tags
const (
	NotificationNewFoodRequest     = "new_food_request"
	NotificationRestaurantVerified = "restaurant_verified"
)

// RequestStatusNotificationType returns the type tag for a request status change,
// e.g. "request_approved".
func RequestStatusNotificationType(status RequestStatus) string {
	return "request_" + strings.ToLower(string(status))
}

// Notification is an append-only message addressed to one user.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      string
	IsRead    bool
	CreatedAt time.Time
}

// NewNotification creates an unread notification.
func NewNotification(userID uuid.UUID, title, message, typeTag string, now time.Time) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typeTag,
		CreatedAt: now,
	}
}
