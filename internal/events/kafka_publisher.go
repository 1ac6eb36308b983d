package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodshare-service/internal/config"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	publishAttempts = 3
	publishTimeout  = 5 * time.Second
)

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer  sarama.SyncProducer
	logger    *zap.Logger
	config    *config.Config
	baseDelay time.Duration
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(cfg *config.Config, logger *zap.Logger) (*KafkaEventPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, producerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafkaEventPublisher(producer, cfg, logger), nil
}

func newKafkaEventPublisher(producer sarama.SyncProducer, cfg *config.Config, logger *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:  producer,
		logger:    logger,
		config:    cfg,
		baseDelay: 100 * time.Millisecond,
	}
}

func producerConfig(cfg *config.Config) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = cfg.KafkaClientID
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = cfg.KafkaRetries

	// Parse acks
	switch cfg.KafkaAcks {
	case "0":
		config.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		config.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		config.Producer.RequiredAcks = sarama.WaitForAll
		// Idempotent delivery needs acks=all and a single in-flight request
		config.Producer.Idempotent = true
		config.Net.MaxOpenRequests = 1
	}
	return config
}

// Publish publishes an event to Kafka with retries and exponential backoff
func (p *KafkaEventPublisher) Publish(ctx context.Context, event Event) error {
	topic, err := p.topicFor(event)
	if err != nil {
		return fmt.Errorf("failed to determine topic: %w", err)
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(eventJSON),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.EventType())},
			{Key: []byte("event-id"), Value: []byte(uuid.New().String())},
			{Key: []byte("timestamp"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	for attempt := 0; attempt < publishAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		err := p.send(ctx, message)
		if err == nil {
			return nil
		}
		p.logger.Warn("Failed to publish event to Kafka, retrying",
			zap.String("topic", topic),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", publishAttempts),
		)

		// Exponential backoff before retry
		if attempt < publishAttempts-1 {
			delay := p.baseDelay * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("failed to publish event to Kafka after %d attempts", publishAttempts)
}

// send delivers one message, giving up after publishTimeout.
func (p *KafkaEventPublisher) send(ctx context.Context, message *sarama.ProducerMessage) error {
	sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(message)
		if err == nil {
			p.logger.Info("Event published to Kafka",
				zap.String("topic", message.Topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
			)
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-sendCtx.Done():
		return fmt.Errorf("timeout publishing event to Kafka: %w", sendCtx.Err())
	}
}

// Close closes the Kafka producer
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// topicFor determines the Kafka topic based on event type
func (p *KafkaEventPublisher) topicFor(event Event) (string, error) {
	switch event.(type) {
	case ListingCreatedEvent, ListingUpdatedEvent, ListingDeletedEvent, InventoryDecrementedEvent:
		return p.config.KafkaTopicListings, nil
	case FoodRequestCreatedEvent, FoodRequestDecidedEvent, FoodRequestCancelledEvent:
		return p.config.KafkaTopicRequests, nil
	default:
		return "", fmt.Errorf("unknown event type: %T", event)
	}
}
