package commands

import (
	"foodshare-service/internal/domain"

	"github.com/google/uuid"
)

// CreateUserCommand represents a command to register a marketplace account
type CreateUserCommand struct {
	Name  string
	Email string
	Phone string
	Role  domain.Role
}

// CreateRestaurantCommand represents a user creating their restaurant profile
type CreateRestaurantCommand struct {
	UserID      uuid.UUID
	Name        string
	Description string
	Address     string
	Phone       string
}

// VerifyRestaurantCommand represents an admin marking a restaurant as verified
type VerifyRestaurantCommand struct {
	RestaurantID uuid.UUID
}
