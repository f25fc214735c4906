package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const linkTopic = "link.test"

type linkEvent struct {
	ShortID string `json:"shortId"`
	LongURL string `json:"longUrl"`
}

// stubSubscriber feeds messages from a buffered channel.
type stubSubscriber struct {
	msgs         chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newStubSubscriber() *stubSubscriber {
	return &stubSubscriber{msgs: make(chan *message.Message, 10)}
}

func (s *stubSubscriber) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}

	return s.msgs, nil
}

func (s *stubSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.msgs)
	}

	return nil
}

func noopHandler(context.Context, *linkEvent) error { return nil }

func startConsumer(t *testing.T, sub *stubSubscriber, handler messaging.Handler[linkEvent]) *messaging.Consumer[linkEvent] {
	t.Helper()

	consumer := messaging.NewConsumer(sub, linkTopic, handler, zap.NewNop())
	require.NoError(t, consumer.Start(context.Background()))
	t.Cleanup(func() { _ = consumer.Shutdown() })

	return consumer
}

// outcome waits until msg is acked or nacked.
func outcome(t *testing.T, msg *message.Message) string {
	t.Helper()

	select {
	case <-msg.Acked():
		return "ack"
	case <-msg.Nacked():
		return "nack"
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ack or nack")

		return ""
	}
}

func encode(t *testing.T, event linkEvent) *message.Message {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	return message.NewMessage(uuid.NewString(), payload)
}

func TestConsumerStart(t *testing.T) {
	t.Run("subscribes to its topic", func(t *testing.T) {
		consumer := startConsumer(t, newStubSubscriber(), noopHandler)

		assert.Equal(t, linkTopic, consumer.Topic())
	})

	t.Run("subscribe failure is returned", func(t *testing.T) {
		sub := &stubSubscriber{subscribeErr: errors.New("stream unavailable")}
		consumer := messaging.NewConsumer(sub, linkTopic, noopHandler, zap.NewNop())

		require.Error(t, consumer.Start(context.Background()))
		assert.NoError(t, consumer.Shutdown())
	})
}

func TestConsumerDelivery(t *testing.T) {
	t.Run("decoded event reaches the handler and is acked", func(t *testing.T) {
		sub := newStubSubscriber()

		var got linkEvent

		startConsumer(t, sub, func(_ context.Context, event *linkEvent) error {
			got = *event

			return nil
		})

		msg := encode(t, linkEvent{ShortID: "abc1234", LongURL: "https://example.com"})
		sub.msgs <- msg

		require.Equal(t, "ack", outcome(t, msg))
		assert.Equal(t, "abc1234", got.ShortID)
		assert.Equal(t, "https://example.com", got.LongURL)
	})

	t.Run("undecodable payload is acked without calling the handler", func(t *testing.T) {
		sub := newStubSubscriber()
		called := false

		startConsumer(t, sub, func(context.Context, *linkEvent) error {
			called = true

			return nil
		})

		msg := message.NewMessage(uuid.NewString(), []byte("{not json"))
		sub.msgs <- msg

		require.Equal(t, "ack", outcome(t, msg))
		assert.False(t, called)
	})

	t.Run("handler error nacks for redelivery", func(t *testing.T) {
		sub := newStubSubscriber()

		startConsumer(t, sub, func(context.Context, *linkEvent) error {
			return errors.New("cache unavailable")
		})

		msg := encode(t, linkEvent{ShortID: "abc1234"})
		sub.msgs <- msg

		assert.Equal(t, "nack", outcome(t, msg))
	})
}

func TestConsumerShutdown(t *testing.T) {
	t.Run("after start", func(t *testing.T) {
		consumer := messaging.NewConsumer(newStubSubscriber(), linkTopic, noopHandler, zap.NewNop())
		require.NoError(t, consumer.Start(context.Background()))

		assert.NoError(t, consumer.Shutdown())
	})

	t.Run("without start", func(t *testing.T) {
		consumer := messaging.NewConsumer(newStubSubscriber(), linkTopic, noopHandler, zap.NewNop())

		assert.NoError(t, consumer.Shutdown())
	})

	t.Run("after the subscription closes", func(t *testing.T) {
		sub := newStubSubscriber()
		consumer := messaging.NewConsumer(sub, linkTopic, noopHandler, zap.NewNop())
		require.NoError(t, consumer.Start(context.Background()))
		require.NoError(t, sub.Close())

		assert.NoError(t, consumer.Shutdown())
	})
}
