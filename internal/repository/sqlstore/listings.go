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

type listingRepository struct{ s *Store }

const listingColumns = `id, restaurant_id, title, description, quantity, unit, category, pickup_time,
	image_url, status, expiry_date, version, created_at, updated_at`

func scanListing(row interface{ Scan(...interface{}) error }) (*domain.FoodListing, error) {
	var l domain.FoodListing
	var status string
	err := row.Scan(
		&l.ID,
		&l.RestaurantID,
		&l.Title,
		&l.Description,
		&l.Quantity,
		&l.Unit,
		&l.Category,
		&l.PickupTime,
		&l.ImageURL,
		&status,
		&l.ExpiryDate,
		&l.Version,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = domain.ListingStatus(status)
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, l *domain.FoodListing) error {
	_, err := r.s.exec(ctx,
		`INSERT INTO food_listings (`+listingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.RestaurantID, l.Title, l.Description, l.Quantity, l.Unit, l.Category, l.PickupTime,
		l.ImageURL, string(l.Status), utc(l.ExpiryDate), l.Version, utc(l.CreatedAt), utc(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert food listing: %w", err)
	}
	return nil
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM food_listings WHERE id = ?`, id)
}

func (r *listingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM food_listings WHERE id = ?`+r.s.dialect.lockSuffix, id)
}

func (r *listingRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*domain.FoodListing, error) {
	l, err := scanListing(r.s.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find food listing: %w", err)
	}
	return l, nil
}

func (r *listingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]domain.FoodListing, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var w where
	if filter.RestaurantID != nil {
		w.add("restaurant_id = ?", *filter.RestaurantID)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	if filter.ActiveAt != nil {
		w.add("expiry_date > ?", utc(*filter.ActiveAt))
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		like := r.s.dialect.like
		w.add("(title "+like+` ? ESCAPE '\' OR description `+like+` ? ESCAPE '\')`, pattern, pattern)
	}

	total, err := r.s.count(ctx, `SELECT COUNT(*) FROM food_listings`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count food listings: %w", err)
	}

	args := append(append([]interface{}{}, w.args...), filter.Limit, filter.Offset())
	rows, err := r.s.query(ctx,
		`SELECT `+listingColumns+` FROM food_listings`+w.String()+` ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list food listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.FoodListing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan food listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating food listings: %w", err)
	}
	return listings, total, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.FoodListing, expectedVersion int) error {
	n, err := r.s.execAffecting(ctx, `
		UPDATE food_listings
		SET title = ?, description = ?, quantity = ?, unit = ?, category = ?, pickup_time = ?,
			image_url = ?, status = ?, expiry_date = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		l.Title, l.Description, l.Quantity, l.Unit, l.Category, l.PickupTime,
		l.ImageURL, string(l.Status), utc(l.ExpiryDate), l.Version, utc(l.UpdatedAt),
		l.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update food listing: %w", err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, l.ID)
	}
	return nil
}

func (r *listingRepository) UpdateInventory(ctx context.Context, l *domain.FoodListing, expectedVersion, decrement int) error {
	n, err := r.s.execAffecting(ctx, `
		UPDATE food_listings
		SET quantity = ?, status = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ? AND quantity >= ?`,
		l.Quantity, string(l.Status), l.Version, utc(l.UpdatedAt),
		l.ID, expectedVersion, decrement,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing inventory: %w", err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, l.ID)
	}
	return nil
}

// missingOrConflict explains why a conditional update touched no rows.
func (r *listingRepository) missingOrConflict(ctx context.Context, id uuid.UUID) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrConcurrentUpdate
}

func (r *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.s.execAffecting(ctx, `DELETE FROM food_listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete food listing: %w", err)
	}
	if n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
