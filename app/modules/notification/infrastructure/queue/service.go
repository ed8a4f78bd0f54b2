// Package notificationqueue runs the periodic notification jobs on River.
package notificationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const (
	// QueueName is the River queue the notification jobs run on.
	QueueName = "notification"

	PurgeInterval  = time.Hour
	DigestInterval = 24 * time.Hour
)

// Service owns the River client and its pgx pool.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

// NewService connects a pgx pool for River and registers the periodic jobs.
// River's tables must exist; see Migrate.
func NewService(ctx context.Context, dsn string, maxWorkers int, logger *slog.Logger, metrics observability.OperationMetrics, housekeeper Housekeeper) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_notification_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing notification queue service")

	pool, err := Connect(ctx, dsn)
	if err != nil {
		ctxLogger.Error("Failed to connect pgx pool for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewPurgeTokensWorker(ctxLogger, housekeeper))
	river.AddWorker(workers, NewDeadlineDigestWorker(ctxLogger, housekeeper))

	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
			QueueName:          {MaxWorkers: maxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: PeriodicJobs(),
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Notification queue service initialized successfully")
	return &Service{client: client, pool: pool, logger: ctxLogger, metrics: metrics}, nil
}

// PeriodicJobs returns the hourly token purge and the daily deadline digest.
func PeriodicJobs() []*river.PeriodicJob {
	opts := &river.InsertOpts{Queue: QueueName}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(PurgeInterval),
			func() (river.JobArgs, *river.InsertOpts) { return PurgeTokensJob{}, opts },
			&river.PeriodicJobOpts{RunOnStart: true},
		),
		river.NewPeriodicJob(
			river.PeriodicInterval(DigestInterval),
			func() (river.JobArgs, *river.InsertOpts) { return DeadlineDigestJob{}, opts },
			nil,
		),
	}
}

// Connect opens and pings a pgx pool.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")
	s.logger.Info("Starting notification queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping notification queue service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.Any("error", err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// HealthCheck pings the River pool.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("river pool unhealthy: %w", err)
	}
	return nil
}
