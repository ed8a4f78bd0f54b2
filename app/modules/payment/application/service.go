package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissionstorage "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/storage"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// PaymentService implements the Service interface.
type PaymentService struct {
	repo          paymentdb.Repository
	registrations registrationdb.Repository
	competitions  competitiondb.Repository
	storage       submissionstorage.Storage
	dispatcher    *eventbus.Dispatcher
	clock         clock.Clock
	logger        *slog.Logger
	runner        *operation.Runner
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	repo paymentdb.Repository,
	registrations registrationdb.Repository,
	competitions competitiondb.Repository,
	storage submissionstorage.Storage,
	dispatcher *eventbus.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &PaymentService{
		repo:          repo,
		registrations: registrations,
		competitions:  competitions,
		storage:       storage,
		dispatcher:    dispatcher,
		clock:         clk,
		logger:        logger,
		runner: &operation.Runner{
			Service: "PaymentService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

func (s *PaymentService) loadRegistration(ctx context.Context, db bun.IDB, userID, id uuid.UUID) (*registrationdb.Registration, error) {
	var (
		reg *registrationdb.Registration
		err error
	)
	if id == uuid.Nil {
		reg, err = s.registrations.GetByUserID(ctx, db, userID)
	} else {
		reg, err = s.registrations.GetByID(ctx, db, id)
	}
	if err != nil {
		if errors.Is(err, registrationdb.ErrNotFound) {
			return nil, apperrors.NotFound("registration not found")
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (s *PaymentService) competitionFor(ctx context.Context, db bun.IDB, reg *registrationdb.Registration) (*competitiondb.Competition, error) {
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

func (s *PaymentService) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete payment proof",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
