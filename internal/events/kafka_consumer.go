package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodshare-service/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Handler processes one consumed event. A returned error triggers a retry.
type Handler interface {
	Handle(ctx context.Context, eventType string, payload []byte) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, eventType string, payload []byte) error

func (f HandlerFunc) Handle(ctx context.Context, eventType string, payload []byte) error {
	return f(ctx, eventType, payload)
}

// Consumer reads domain events from the listing and request topics.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler *consumerGroupHandler
	logger  *zap.Logger
	topics  []string
	groupID string
}

// NewConsumer creates a consumer group member for the configured topics.
func NewConsumer(cfg *config.Config, handler Handler, logger *zap.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.KafkaClientID
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Version = sarama.V2_8_0_0
	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	group, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	logger.Info("Kafka consumer group created",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	return &Consumer{
		group:   group,
		handler: newConsumerGroupHandler(handler, cfg.ConsumerMaxRetries, time.Duration(cfg.ConsumerRetryDelayMs)*time.Millisecond, logger),
		logger:  logger,
		topics:  []string{cfg.KafkaTopicListings, cfg.KafkaTopicRequests},
		groupID: cfg.KafkaGroupID,
	}, nil
}

// Start blocks, consuming until ctx is cancelled or the group fails.
func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("Consumer error", zap.Error(err))
		}
	}()

	c.logger.Info("Kafka consumer started",
		zap.Strings("topics", c.topics),
		zap.String("group_id", c.groupID),
	)

	for {
		// Consume returns on every rebalance
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consume: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type consumerGroupHandler struct {
	handler    Handler
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func newConsumerGroupHandler(handler Handler, maxRetries int, retryDelay time.Duration, logger *zap.Logger) *consumerGroupHandler {
	return &consumerGroupHandler{
		handler:    handler,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks every message, including ones that exhausted their retries,
// so a poison message cannot stall the partition.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			eventType := EventTypeOf(message.Headers)
			if eventType == "" {
				h.logger.Warn("Message without event type, skipping",
					zap.String("topic", message.Topic),
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset),
				)
				session.MarkMessage(message, "")
				continue
			}

			if err := h.processWithRetry(session.Context(), eventType, message.Value); err != nil {
				h.logger.Error("Failed to process event after retries",
					zap.String("event_type", eventType),
					zap.String("topic", message.Topic),
					zap.Int64("offset", message.Offset),
					zap.Error(err),
				)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processWithRetry(ctx context.Context, eventType string, payload []byte) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			delay := h.retryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = h.handler.Handle(ctx, eventType, payload)
		if lastErr == nil {
			return nil
		}
		h.logger.Warn("Event processing failed",
			zap.String("event_type", eventType),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return fmt.Errorf("failed after %d attempts: %w", h.maxRetries+1, lastErr)
}

// EventTypeOf reads the event-type header written by KafkaEventPublisher.
func EventTypeOf(headers []*sarama.RecordHeader) string {
	for _, header := range headers {
		if header != nil && string(header.Key) == "event-type" {
			return string(header.Value)
		}
	}
	return ""
}
