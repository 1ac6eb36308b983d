package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
)

type requestRepository struct{ s *Store }

const requestColumns = `r.id, r.user_id, r.listing_id, r.quantity, r.message, r.status, r.pickup_date, r.created_at, r.updated_at`

func scanRequest(row interface{ Scan(...interface{}) error }) (*domain.FoodRequest, error) {
	var req domain.FoodRequest
	var status string
	var pickup sql.NullTime
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.ListingID,
		&req.Quantity,
		&req.Message,
		&status,
		&pickup,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)
	if pickup.Valid {
		t := pickup.Time
		req.PickupDate = &t
	}
	return &req, nil
}

func (r *requestRepository) Create(ctx context.Context, req *domain.FoodRequest) error {
	_, err := r.s.exec(ctx, `
		INSERT INTO food_requests (id, user_id, listing_id, quantity, message, status, pickup_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.ListingID, req.Quantity, req.Message, string(req.Status),
		nullTime(req.PickupDate), utc(req.CreatedAt), utc(req.UpdatedAt),
	)
	if err != nil {
		if r.s.dialect.isUniqueViolation(err) {
			return domain.ErrDuplicatePendingRequest
		}
		return fmt.Errorf("failed to insert food request: %w", err)
	}
	return nil
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodRequest, error) {
	req, err := scanRequest(r.s.queryRow(ctx, `SELECT `+requestColumns+` FROM food_requests r WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find food request: %w", err)
	}
	return req, nil
}

func (r *requestRepository) HasPending(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	n, err := r.s.count(ctx,
		`SELECT COUNT(*) FROM food_requests WHERE user_id = ? AND listing_id = ? AND status = ?`,
		userID, listingID, string(domain.RequestPending),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return n > 0, nil
}

func (r *requestRepository) CountPendingForListing(ctx context.Context, listingID uuid.UUID) (int, error) {
	n, err := r.s.count(ctx,
		`SELECT COUNT(*) FROM food_requests WHERE listing_id = ? AND status = ?`,
		listingID, string(domain.RequestPending),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending requests: %w", err)
	}
	return n, nil
}

func (r *requestRepository) List(ctx context.Context, filter repository.RequestFilter) ([]domain.FoodRequest, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	from := ` FROM food_requests r`
	var w where
	if filter.RestaurantID != nil {
		from += ` JOIN food_listings l ON l.id = r.listing_id`
		w.add("l.restaurant_id = ?", *filter.RestaurantID)
	}
	if filter.UserID != nil {
		w.add("r.user_id = ?", *filter.UserID)
	}
	if filter.ListingID != nil {
		w.add("r.listing_id = ?", *filter.ListingID)
	}
	if filter.Status != "" {
		w.add("r.status = ?", string(filter.Status))
	}

	total, err := r.s.count(ctx, `SELECT COUNT(*)`+from+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count food requests: %w", err)
	}

	args := append(append([]interface{}{}, w.args...), filter.Limit, filter.Offset())
	rows, err := r.s.query(ctx,
		`SELECT `+requestColumns+from+w.String()+` ORDER BY r.created_at DESC, r.id ASC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list food requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.FoodRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan food request: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating food requests: %w", err)
	}
	return requests, total, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, req *domain.FoodRequest) error {
	n, err := r.s.execAffecting(ctx, `
		UPDATE food_requests SET status = ?, pickup_date = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(req.Status), nullTime(req.PickupDate), utc(req.UpdatedAt),
		req.ID, string(domain.RequestPending),
	)
	if err != nil {
		return fmt.Errorf("failed to update food request: %w", err)
	}
	if n == 0 {
		current, err := r.FindByID(ctx, req.ID)
		if err != nil {
			return err
		}
		return domain.ErrInvalidTransition.WithDetails("request is %s", current.Status)
	}
	return nil
}
