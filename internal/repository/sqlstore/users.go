package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodshare-service/internal/domain"

	"github.com/google/uuid"
)

type userRepository struct{ s *Store }

const userColumns = `id, name, email, phone, role, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.s.exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, strings.ToLower(user.Email), user.Phone, string(user.Role), utc(user.CreatedAt),
	)
	if err != nil {
		if r.s.dialect.isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(r.s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	n, err := r.s.execAffecting(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type restaurantRepository struct{ s *Store }

const restaurantColumns = `id, user_id, restaurant_name, description, address, phone, verified, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...interface{}) error }) (*domain.Restaurant, error) {
	var r domain.Restaurant
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &r.Address, &r.Phone, &r.Verified, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *restaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	_, err := r.s.exec(ctx,
		`INSERT INTO restaurants (`+restaurantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rest.ID, rest.UserID, rest.Name, rest.Description, rest.Address, rest.Phone, rest.Verified,
		utc(rest.CreatedAt), utc(rest.UpdatedAt),
	)
	if err != nil {
		if r.s.dialect.isUniqueViolation(err) {
			return domain.ErrRestaurantExists
		}
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	return nil
}

func (r *restaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	return r.findOne(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)
}

func (r *restaurantRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Restaurant, error) {
	return r.findOne(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE user_id = ?`, userID)
}

func (r *restaurantRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(r.s.queryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to find restaurant: %w", err)
	}
	return rest, nil
}

func (r *restaurantRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool, now time.Time) error {
	n, err := r.s.execAffecting(ctx,
		`UPDATE restaurants SET verified = ?, updated_at = ? WHERE id = ?`,
		verified, utc(now), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}
	if n == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}
