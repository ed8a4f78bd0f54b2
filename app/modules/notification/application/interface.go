package notificationservice

import (
	"context"

	notificationmail "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/mail"
	"github.com/ieee-sb/thesandbox/pkg/events"
)

// Service reacts to domain events and runs the periodic housekeeping jobs.
// Event methods return a DependencyFailure when a channel could not be
// reached; callers log it and move on.
type Service interface {
	RegistrationCreated(ctx context.Context, payload events.RegistrationCreatedPayload) error
	RegistrationReviewed(ctx context.Context, payload events.RegistrationReviewedPayload) error
	SubmissionReviewed(ctx context.Context, payload events.SubmissionReviewedPayload) error
	PaymentSubmitted(ctx context.Context, payload events.PaymentSubmittedPayload) error
	PaymentReviewed(ctx context.Context, payload events.PaymentReviewedPayload) error

	PurgeExpiredTokens(ctx context.Context) (int64, error)
	SendDeadlineDigest(ctx context.Context) (int, error)
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg notificationmail.Message) error
}

// SheetAppender appends one row to a named sheet.
type SheetAppender interface {
	AppendRow(ctx context.Context, sheet string, row []any) error
}

// ChatNotifier posts a plain-text alert to the staff chat.
type ChatNotifier interface {
	Notify(ctx context.Context, text string) error
}

// Channels are the outbound collaborators. A nil field disables that
// channel.
type Channels struct {
	Mail   Mailer
	Sheets SheetAppender
	Chat   ChatNotifier
}
