package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func consumerMessage(offset int64, eventType string) *sarama.ConsumerMessage {
	msg := &sarama.ConsumerMessage{Topic: "foodshare.listings", Offset: offset, Value: []byte(`{}`)}
	if eventType != "" {
		msg.Headers = []*sarama.RecordHeader{{Key: []byte("event-type"), Value: []byte(eventType)}}
	}
	return msg
}

func consumeAll(t *testing.T, h *consumerGroupHandler, msgs ...*sarama.ConsumerMessage) *fakeSession {
	t.Helper()
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(msgs))}
	for _, m := range msgs {
		claim.messages <- m
	}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))
	return session
}

func TestConsumeClaim_DispatchesByHeader(t *testing.T) {
	var seen []string
	handler := HandlerFunc(func(_ context.Context, eventType string, _ []byte) error {
		seen = append(seen, eventType)
		return nil
	})
	h := newConsumerGroupHandler(handler, 0, 0, zap.NewNop())

	session := consumeAll(t, h,
		consumerMessage(1, "ListingCreated"),
		consumerMessage(2, ""),
		consumerMessage(3, "FoodRequestDecided"),
	)

	assert.Equal(t, []string{"ListingCreated", "FoodRequestDecided"}, seen)
	assert.Equal(t, []int64{1, 2, 3}, session.marked, "headerless messages are skipped but still committed")
}

func TestConsumeClaim_RetriesThenMarks(t *testing.T) {
	attempts := 0
	handler := HandlerFunc(func(context.Context, string, []byte) error {
		attempts++
		if attempts < 3 {
			return errors.New("cache unavailable")
		}
		return nil
	})
	h := newConsumerGroupHandler(handler, 3, time.Millisecond, zap.NewNop())

	session := consumeAll(t, h, consumerMessage(7, "ListingUpdated"))

	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int64{7}, session.marked)
}

func TestConsumeClaim_PoisonMessageDoesNotStall(t *testing.T) {
	attempts := 0
	handler := HandlerFunc(func(context.Context, string, []byte) error {
		attempts++
		return errors.New("always fails")
	})
	h := newConsumerGroupHandler(handler, 2, time.Millisecond, zap.NewNop())

	session := consumeAll(t, h, consumerMessage(1, "ListingDeleted"), consumerMessage(2, "ListingCreated"))

	assert.Equal(t, 6, attempts)
	assert.Equal(t, []int64{1, 2}, session.marked)
}

func TestConsumeClaim_StopsWithSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newConsumerGroupHandler(HandlerFunc(func(context.Context, string, []byte) error { return nil }), 0, 0, zap.NewNop())
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}

	assert.NoError(t, h.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}

func TestEventTypeOf(t *testing.T) {
	assert.Equal(t, "", EventTypeOf(nil))
	assert.Equal(t, "ListingCreated", EventTypeOf([]*sarama.RecordHeader{
		{Key: []byte("event-id"), Value: []byte("x")},
		nil,
		{Key: []byte("event-type"), Value: []byte("ListingCreated")},
	}))
}
