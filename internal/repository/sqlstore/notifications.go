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

type notificationRepository struct{ s *Store }

const notificationColumns = `id, user_id, title, message, type, is_read, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.s.exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, utc(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, err := scanNotification(r.s.queryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return n, nil
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var w where
	w.add("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		w.add("is_read = ?", false)
	}

	total, err := r.s.count(ctx, `SELECT COUNT(*) FROM notifications`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	args := append(append([]interface{}{}, w.args...), filter.Limit, filter.Offset())
	rows, err := r.s.query(ctx,
		`SELECT `+notificationColumns+` FROM notifications`+w.String()+` ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	n, err := r.s.execAffecting(ctx, `UPDATE notifications SET is_read = ? WHERE id = ?`, true, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := r.s.execAffecting(ctx,
		`UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?`,
		true, userID, false,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.s.execAffecting(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
