package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// MetadataTopic records the topic a message was built for.
const MetadataTopic = "topic"

// NewMessage encodes payload as JSON into a new message.
func NewMessage(topic string, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataTopic, topic)
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal %s payload: %w", msg.Metadata.Get(MetadataTopic), err)
	}
	return out, nil
}

// Publisher is the publishing side used by services.
type Publisher interface {
	Publish(topic string, msgs ...*message.Message) error
}

// Dispatcher publishes events after the request that produced them has
// committed. Publishing never fails the caller: errors and panics are logged.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	async     bool
}

// NewDispatcher creates a Dispatcher that publishes on a background
// goroutine.
func NewDispatcher(publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, logger: logger, async: true}
}

// NewSyncDispatcher creates a Dispatcher that publishes before returning.
func NewSyncDispatcher(publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, logger: logger}
}

// Dispatch publishes payload on topic. ctx cancellation does not abort the
// publish.
func (d *Dispatcher) Dispatch(ctx context.Context, topic string, payload any) {
	if d == nil || d.publisher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if d.async {
		go d.publish(ctx, topic, payload)
		return
	}
	d.publish(ctx, topic, payload)
}

func (d *Dispatcher) publish(ctx context.Context, topic string, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.ErrorContext(ctx, "Recovered panic while publishing event",
				slog.String("topic", topic),
				slog.Any("panic", rec),
			)
		}
	}()

	msg, err := NewMessage(topic, payload)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to build event", slog.String("topic", topic), slog.Any("error", err))
		return
	}
	msg.SetContext(ctx)

	if err := d.publisher.Publish(topic, msg); err != nil {
		d.logger.ErrorContext(ctx, "Failed to publish event",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
			slog.Any("error", err),
		)
		return
	}

	d.logger.InfoContext(ctx, "Event published",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
	)
}
