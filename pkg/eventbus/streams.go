package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Streams holds every topic published by the modules.
var Streams = []jetstream.StreamConfig{
	{
		Name:     "SANDBOX_EVENTS",
		Subjects: []string{"registration.>", "submission.>", "payment.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	},
}

// InitializeStreams creates missing streams during application startup.
func InitializeStreams(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	for _, cfg := range Streams {
		_, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				logger.ErrorContext(ctx, "Failed to create JetStream stream", slog.String("stream", cfg.Name), slog.Any("error", err))
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.InfoContext(ctx, "Created JetStream stream", slog.String("stream", cfg.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// durableName derives a consumer name per topic; JetStream rejects dots in
// durable names.
func durableName(prefix, topic string) string {
	return prefix + "_" + strings.ReplaceAll(topic, ".", "_")
}
