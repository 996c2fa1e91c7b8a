package messaging_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/lmartins/shortly/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	Code string `json:"code"`
}

func newPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	pubSub := newPubSub()
	defer pubSub.Close()

	var mu sync.Mutex

	received := make([]string, 0)

	consumer := messaging.NewConsumer(pubSub, "test.topic", func(_ context.Context, event *testEvent) error {
		mu.Lock()
		defer mu.Unlock()

		received = append(received, event.Code)

		return nil
	}, zap.NewNop())

	require.NoError(t, consumer.Start(context.Background()))

	publish := messaging.NewPublishFunc[testEvent](pubSub, "test.topic")
	require.NoError(t, publish(&testEvent{Code: "abc123"}))
	require.NoError(t, publish(&testEvent{Code: "def456"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(received) == 2
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, consumer.Shutdown())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"abc123", "def456"}, received)
}

func TestConsumerSurvivesBadPayload(t *testing.T) {
	pubSub := newPubSub()
	defer pubSub.Close()

	var mu sync.Mutex

	var handled int

	consumer := messaging.NewConsumer(pubSub, "test.topic", func(_ context.Context, _ *testEvent) error {
		mu.Lock()
		defer mu.Unlock()

		handled++

		return nil
	}, zap.NewNop())

	require.NoError(t, consumer.Start(context.Background()))

	require.NoError(t, pubSub.Publish("test.topic",
		message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	publish := messaging.NewPublishFunc[testEvent](pubSub, "test.topic")
	require.NoError(t, publish(&testEvent{Code: "after"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return handled == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, consumer.Shutdown())
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and shuts down all consumers", func(t *testing.T) {
		pubSub := newPubSub()

		group := messaging.NewConsumerGroup(pubSub, zap.NewNop())
		group.Add(messaging.NewConsumer(pubSub, "a", func(context.Context, *testEvent) error { return nil }, zap.NewNop()))
		group.Add(messaging.NewConsumer(pubSub, "b", func(context.Context, *testEvent) error { return nil }, zap.NewNop()))

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())
	})

	t.Run("start failure unwinds already started consumers", func(t *testing.T) {
		pubSub := newPubSub()

		group := messaging.NewConsumerGroup(pubSub, zap.NewNop())
		group.Add(messaging.NewConsumer(pubSub, "a", func(context.Context, *testEvent) error { return nil }, zap.NewNop()))
		group.Add(&failingRunnable{})

		err := group.Start(context.Background())
		assert.Error(t, err)
	})
}

type failingRunnable struct{}

func (f *failingRunnable) Start(context.Context) error { return errors.New("boom") }
func (f *failingRunnable) Shutdown() error             { return nil }
