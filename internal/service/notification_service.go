package service

import (
	"context"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
)

// NotificationService exposes a user's notification inbox.
type NotificationService struct {
	deps Deps
}

func NewNotificationService(deps Deps) *NotificationService {
	return &NotificationService{deps: deps.withDefaults()}
}

// NotificationPage is one page of a user's inbox.
type NotificationPage struct {
	Notifications []domain.Notification
	Total         int
	Page          int
	Limit         int
}

// ListNotifications returns the user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page repository.Page) (*NotificationPage, error) {
	filter := repository.NotificationFilter{UserID: userID, UnreadOnly: unreadOnly, Page: page}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	items, total, err := s.deps.Store.Notifications().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Notifications: items, Total: total, Page: filter.Page.Page, Limit: filter.Limit}, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	n, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.deps.Store.Notifications().MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead flags every unread notification of the user and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.deps.Store.Notifications().MarkAllRead(ctx, userID)
}

// DeleteNotification removes one notification from the user's inbox.
func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.deps.Store.Notifications().Delete(ctx, id)
}

func (s *NotificationService) owned(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	n, err := s.deps.Store.Notifications().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, domain.ErrNotNotificationOwner
	}
	return n, nil
}
