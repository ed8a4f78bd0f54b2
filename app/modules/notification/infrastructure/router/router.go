// Package notificationrouter subscribes the notification service to domain
// events.
package notificationrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	notificationservice "github.com/ieee-sb/thesandbox/app/modules/notification/application"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NotificationRouter binds event topics to the notification service.
type NotificationRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer

	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewNotificationRouter creates a NotificationRouter. A nil registry
// disables router metrics.
func NewNotificationRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *NotificationRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		b := metrics.NewPrometheusMetricsBuilder(registry, "sandbox", "events")
		metricsBuilder = &b
	}

	return &NotificationRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure registers one consumer per topic.
func (r *NotificationRouter) Configure(_ context.Context, svc notificationservice.Service) error {
	if r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}
	r.Router.AddMiddleware(middleware.Recoverer)

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, events.RegistrationCreatedV1, svc.RegistrationCreated)
	registerHandler(deps, events.RegistrationReviewedV1, svc.RegistrationReviewed)
	registerHandler(deps, events.SubmissionReviewedV1, svc.SubmissionReviewed)
	registerHandler(deps, events.PaymentSubmittedV1, svc.PaymentSubmitted)
	registerHandler(deps, events.PaymentReviewedV1, svc.PaymentReviewed)
	return nil
}

// Close stops the router.
func (r *NotificationRouter) Close() error {
	return r.Router.Close()
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler decodes T and calls handle. Every message is acked:
// notifications are best effort and a redelivery would duplicate the
// channels that did succeed.
func registerHandler[T any](deps handlerDeps, topic string, handle func(context.Context, T) error) {
	handlerName := "notification." + topic

	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		func(msg *message.Message) error {
			ctx, span := deps.tracer.Start(msg.Context(), handlerName, trace.WithAttributes(
				attribute.String("message_id", msg.UUID),
			))
			defer span.End()

			payload, err := eventbus.Decode[T](msg)
			if err != nil {
				deps.logger.ErrorContext(ctx, "Dropping undecodable event",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
					slog.Any("error", err),
				)
				span.RecordError(err)
				return nil
			}

			if err := handle(ctx, payload); err != nil {
				deps.logger.WarnContext(ctx, "Notification not fully delivered",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
					slog.Any("error", err),
				)
				span.RecordError(err)
			}
			return nil
		},
	)
}
