package notificationqueue

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// PurgeTokensJob deletes expired activation tokens.
type PurgeTokensJob struct{}

// Kind returns the job type identifier for River
func (PurgeTokensJob) Kind() string { return "purge_expired_tokens" }

// DeadlineDigestJob posts upcoming deadlines to the staff chat.
type DeadlineDigestJob struct{}

// Kind returns the job type identifier for River
func (DeadlineDigestJob) Kind() string { return "deadline_digest" }

// Housekeeper is the part of the notification service the workers call.
type Housekeeper interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	SendDeadlineDigest(ctx context.Context) (int, error)
}

// PurgeTokensWorker runs PurgeTokensJob.
type PurgeTokensWorker struct {
	river.WorkerDefaults[PurgeTokensJob]
	service Housekeeper
	logger  *slog.Logger
}

// NewPurgeTokensWorker creates a PurgeTokensWorker.
func NewPurgeTokensWorker(logger *slog.Logger, service Housekeeper) *PurgeTokensWorker {
	return &PurgeTokensWorker{service: service, logger: logger}
}

// Work implements river.Worker.
func (w *PurgeTokensWorker) Work(ctx context.Context, job *river.Job[PurgeTokensJob]) error {
	n, err := w.service.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Expired activation tokens purged",
		slog.Int64("job_id", job.ID),
		slog.Int64("deleted", n),
	)
	return nil
}

// DeadlineDigestWorker runs DeadlineDigestJob. Delivery failures are not
// retried: the next day's digest supersedes them.
type DeadlineDigestWorker struct {
	river.WorkerDefaults[DeadlineDigestJob]
	service Housekeeper
	logger  *slog.Logger
}

// NewDeadlineDigestWorker creates a DeadlineDigestWorker.
func NewDeadlineDigestWorker(logger *slog.Logger, service Housekeeper) *DeadlineDigestWorker {
	return &DeadlineDigestWorker{service: service, logger: logger}
}

// Work implements river.Worker.
func (w *DeadlineDigestWorker) Work(ctx context.Context, job *river.Job[DeadlineDigestJob]) error {
	n, err := w.service.SendDeadlineDigest(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "Deadline digest failed",
			slog.Int64("job_id", job.ID),
			slog.Any("error", err),
		)
		return nil
	}
	w.logger.InfoContext(ctx, "Deadline digest processed",
		slog.Int64("job_id", job.ID),
		slog.Int("deadlines", n),
	)
	return nil
}
