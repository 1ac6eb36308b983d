// Package notify delivers in-app notifications to users.
package notify

import (
	"context"
	"time"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink appends a notification to a user's inbox.
type Sink interface {
	Append(ctx context.Context, userID uuid.UUID, title, message, typeTag string) error
}

// StoreSink writes notifications through the store.
type StoreSink struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewStoreSink(store repository.Store, logger *zap.Logger, now func() time.Time) *StoreSink {
	return &StoreSink{store: store, logger: logger, now: now}
}

func (s *StoreSink) Append(ctx context.Context, userID uuid.UUID, title, message, typeTag string) error {
	n := domain.NewNotification(userID, title, message, typeTag, s.now())
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return err
	}
	s.logger.Debug("Notification appended",
		zap.String("notification_id", n.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("type", typeTag),
	)
	return nil
}
