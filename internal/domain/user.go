package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the caller category used for authorization.
type Role string

const (
	RoleUser       Role = "USER"
	RoleRestaurant Role = "RESTAURANT"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch role {
	case RoleUser, RoleRestaurant, RoleAdmin:
		return role, nil
	}
	return "", ErrInvalidRole.WithDetails("got %q", s)
}

// User is a marketplace account. Credentials live with the external identity provider.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Role      Role
	CreatedAt time.Time
}

// NewUser creates a user after validating the required fields.
func NewUser(name, email, phone string, role Role, now time.Time) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingField.WithDetails("name")
	}
	if !strings.Contains(email, "@") {
		return nil, ErrMissingField.WithDetails("valid email")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     phone,
		Role:      role,
		CreatedAt: now,
	}, nil
}

// Restaurant is the business profile owning food listings. Each user owns at most one.
type Restaurant struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Address     string
	Phone       string
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRestaurant creates an unverified restaurant profile.
func NewRestaurant(userID uuid.UUID, name, description, address, phone string, now time.Time) (*Restaurant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingField.WithDetails("restaurant name")
	}
	if strings.TrimSpace(address) == "" {
		return nil, ErrMissingField.WithDetails("address")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, ErrMissingField.WithDetails("phone")
	}
	return &Restaurant{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Address:     address,
		Phone:       phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
