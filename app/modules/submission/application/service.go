package submissionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissiondb "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories"
	submissionstorage "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/storage"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// SubmissionService implements the Service interface.
type SubmissionService struct {
	repo          submissiondb.Repository
	registrations registrationdb.Repository
	competitions  competitiondb.Repository
	storage       submissionstorage.Storage
	dispatcher    *eventbus.Dispatcher
	clock         clock.Clock
	logger        *slog.Logger
	runner        *operation.Runner
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	repo submissiondb.Repository,
	registrations registrationdb.Repository,
	competitions competitiondb.Repository,
	storage submissionstorage.Storage,
	dispatcher *eventbus.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &SubmissionService{
		repo:          repo,
		registrations: registrations,
		competitions:  competitions,
		storage:       storage,
		dispatcher:    dispatcher,
		clock:         clk,
		logger:        logger,
		runner: &operation.Runner{
			Service: "SubmissionService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

func (s *SubmissionService) competitionFor(ctx context.Context, db bun.IDB, reg *registrationdb.Registration) (*competitiondb.Competition, error) {
	if reg.Competition != nil {
		return reg.Competition, nil
	}
	comp, err := s.competitions.GetByID(ctx, db, reg.CompetitionID)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, apperrors.CodeCompetitionNotFound, "competition not found")
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return comp, nil
}

// discard removes stored objects and logs the ones that could not be removed.
func (s *SubmissionService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete stored object",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}
}
