package notificationservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"go.opentelemetry.io/otel/trace"
)

// RegistrationSheet is the tab registrations are mirrored into.
const RegistrationSheet = "Registrations"

// NotificationService implements the Service interface.
type NotificationService struct {
	users         userdb.Repository
	competitions  competitiondb.Repository
	channels      Channels
	publicBaseURL string
	clock         clock.Clock
	logger        *slog.Logger
	runner        *operation.Runner
}

// NewNotificationService creates a new NotificationService. publicBaseURL is
// the frontend origin used in email links.
func NewNotificationService(
	users userdb.Repository,
	competitions competitiondb.Repository,
	channels Channels,
	publicBaseURL string,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &NotificationService{
		users:         users,
		competitions:  competitions,
		channels:      channels,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		clock:         clk,
		logger:        logger,
		runner: &operation.Runner{
			Service: "NotificationService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
		},
	}
}

// delivery collects per-channel failures of one event.
type delivery struct {
	ctx    context.Context
	logger *slog.Logger
	failed []string
	errs   []error
}

func (s *NotificationService) newDelivery(ctx context.Context, topic string) *delivery {
	return &delivery{ctx: ctx, logger: s.logger.With(slog.String("topic", topic))}
}

// try runs send unless the channel is disabled.
func (d *delivery) try(channel string, enabled bool, send func() error) {
	if !enabled {
		d.logger.DebugContext(d.ctx, "Notification channel disabled", slog.String("channel", channel))
		return
	}
	if err := send(); err != nil {
		d.logger.ErrorContext(d.ctx, "Notification delivery failed",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
		d.failed = append(d.failed, channel)
		d.errs = append(d.errs, err)
	}
}

func (d *delivery) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	e := apperrors.Dependency("notification delivery failed", errors.Join(d.errs...))
	e.Metadata = map[string]any{"channels": d.failed}
	return e
}

// deliver runs fn inside an operation and turns collected channel failures
// into a DependencyFailure.
func (s *NotificationService) deliver(ctx context.Context, name, id, topic string, fn func(ctx context.Context, d *delivery)) error {
	_, err := operation.Unwrap(operation.Run(s.runner, ctx, name, id,
		func(ctx context.Context) (results.OperationResult[struct{}, error], error) {
			d := s.newDelivery(ctx, topic)
			fn(ctx, d)
			if err := d.err(); err != nil {
				return operation.Fail[struct{}](err)
			}
			return operation.Succeed(struct{}{})
		}))
	return err
}
var _ Service = (*NotificationService)(nil)
