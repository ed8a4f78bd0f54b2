package registrationservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RegistrationService implements the Service interface.
type RegistrationService struct {
	repo         registrationdb.Repository
	users        userdb.Repository
	competitions competitiondb.Repository
	payments     PaymentStatusReader
	dispatcher   *eventbus.Dispatcher
	clock        clock.Clock
	logger       *slog.Logger
	runner       *operation.Runner
}

// NewRegistrationService creates a new RegistrationService. payments may be
// nil, in which case fee verification is not enforced on approval.
func NewRegistrationService(
	repo registrationdb.Repository,
	users userdb.Repository,
	competitions competitiondb.Repository,
	payments PaymentStatusReader,
	dispatcher *eventbus.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &RegistrationService{
		repo:         repo,
		users:        users,
		competitions: competitions,
		payments:     payments,
		dispatcher:   dispatcher,
		clock:        clk,
		logger:       logger,
		runner: &operation.Runner{
			Service: "RegistrationService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// competitionFor returns the competition relation, loading it when the row
// was read without joins.
func (s *RegistrationService) competitionFor(ctx context.Context, db bun.IDB, reg *registrationdb.Registration) (*competitiondb.Competition, error) {
	if reg.Competition != nil {
		return reg.Competition, nil
	}
	comp, err := s.competitions.GetByID(ctx, db, reg.CompetitionID)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return comp, nil
}

func (s *RegistrationService) view(ctx context.Context, db bun.IDB, reg *registrationdb.Registration) (*RegistrationView, error) {
	comp, err := s.competitionFor(ctx, db, reg)
	if err != nil {
		return nil, err
	}
	return toView(reg, comp), nil
}
