package eventbus

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEventBus_InProcessRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus, err := NewEventBus(ctx, "", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	defer bus.Close()

	messages, err := bus.Subscribe(ctx, "test.topic.v1")
	require.NoError(t, err)

	msg, err := NewMessage("test.topic.v1", testPayload{Name: "alpha", Count: 3})
	require.NoError(t, err)
	require.NoError(t, bus.Publish("test.topic.v1", msg))

	select {
	case got := <-messages:
		payload, err := Decode[testPayload](got)
		require.NoError(t, err)
		assert.Equal(t, testPayload{Name: "alpha", Count: 3}, payload)
		assert.Equal(t, "test.topic.v1", got.Metadata.Get(MetadataTopic))
		got.Ack()
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestDecode_InvalidPayload(t *testing.T) {
	msg := message.NewMessage("1", []byte("{not json"))
	_, err := Decode[testPayload](msg)
	assert.Error(t, err)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
	panic  bool
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.panic {
		panic("boom")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.err
}

func TestDispatcher_Sync(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	t.Run("publishes after the request context is cancelled", func(t *testing.T) {
		pub := &recordingPublisher{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		NewSyncDispatcher(pub, logger).Dispatch(ctx, "x.v1", testPayload{Name: "n"})
		assert.Equal(t, []string{"x.v1"}, pub.topics)
	})

	t.Run("publish errors are logged not returned", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("down")}
		NewSyncDispatcher(pub, logger).Dispatch(context.Background(), "y.v1", testPayload{})
		assert.Contains(t, logs.String(), "Failed to publish event")
	})

	t.Run("panics are recovered", func(t *testing.T) {
		pub := &recordingPublisher{panic: true}
		assert.NotPanics(t, func() {
			NewSyncDispatcher(pub, logger).Dispatch(context.Background(), "z.v1", testPayload{})
		})
	})

	t.Run("nil dispatcher is a no-op", func(t *testing.T) {
		var d *Dispatcher
		assert.NotPanics(t, func() { d.Dispatch(context.Background(), "n.v1", nil) })
	})
}

func TestDispatcher_Async(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	d.Dispatch(context.Background(), "async.v1", testPayload{})

	assert.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.topics) == 1
	}, time.Second, 10*time.Millisecond)
}
