// Package app opens the infrastructure selected by the configuration.
package app

import (
	"context"
	"fmt"

	"foodshare-service/internal/cache"
	"foodshare-service/internal/config"
	"foodshare-service/internal/events"
	"foodshare-service/internal/repository"
	"foodshare-service/internal/repository/memory"
	"foodshare-service/internal/repository/sqlstore"

	"go.uber.org/zap"
)

// OpenStore opens the store named by DB_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	case sqlstore.DriverSQLite:
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.SQLitePath, logger)
	case sqlstore.DriverPostgres:
		return sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL, logger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Closer releases a resource on shutdown.
type Closer interface {
	Close() error
}

// NewPublisher returns the Kafka publisher when enabled and reachable, and the in-memory
// publisher otherwise. The returned Closer is nil for the in-memory publisher.
func NewPublisher(cfg *config.Config, logger *zap.Logger) (events.EventPublisher, Closer) {
	if !cfg.UseKafka {
		logger.Info("Kafka disabled, events are kept in memory")
		return events.NewEventPublisher(logger), nil
	}
	publisher, err := events.NewKafkaEventPublisher(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Kafka publisher, using in-memory fallback", zap.Error(err))
		return events.NewEventPublisher(logger), nil
	}
	logger.Info("Kafka publisher initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic_listings", cfg.KafkaTopicListings),
		zap.String("topic_requests", cfg.KafkaTopicRequests),
	)
	return publisher, publisher
}

// NewCache returns the Redis cache when enabled, falling back to memory, or nil when
// caching is disabled.
func NewCache(cfg *config.Config, logger *zap.Logger) cache.Cache {
	if !cfg.UseCache {
		return nil
	}
	return cache.NewCache(cfg, logger)
}

// StartConsumer runs the Kafka consumer in the background when CONSUME_EVENTS is set
// alongside Kafka and caching. The returned Closer is nil when nothing was started.
func StartConsumer(ctx context.Context, cfg *config.Config, handler events.Handler, logger *zap.Logger) Closer {
	if !cfg.ConsumeEvents || !cfg.UseKafka || !cfg.UseCache {
		return nil
	}
	consumer, err := events.NewConsumer(cfg, handler, logger)
	if err != nil {
		logger.Warn("Failed to initialize Kafka consumer, cache relies on local invalidation only", zap.Error(err))
		return nil
	}
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("Kafka consumer stopped", zap.Error(err))
		}
	}()
	return consumer
}
