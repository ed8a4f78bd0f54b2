package competitionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// CompetitionService implements the Service interface.
type CompetitionService struct {
	repo   competitiondb.Repository
	clock  clock.Clock
	runner *operation.Runner
}

// NewCompetitionService creates a new CompetitionService.
func NewCompetitionService(
	repo competitiondb.Repository,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *CompetitionService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &CompetitionService{
		repo:  repo,
		clock: clk,
		runner: &operation.Runner{
			Service: "CompetitionService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// GetCompetition retrieves a competition by code.
func (s *CompetitionService) GetCompetition(ctx context.Context, code string) (*CompetitionInfo, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "GetCompetition", code, func(ctx context.Context) (results.OperationResult[*CompetitionInfo, error], error) {
		c, err := s.load(ctx, nil, code)
		if err != nil {
			return operation.Fail[*CompetitionInfo](err)
		}
		return operation.Succeed(s.toInfo(c))
	}))
}

// ListCompetitions returns all competitions, or only the active ones.
func (s *CompetitionService) ListCompetitions(ctx context.Context, activeOnly bool) ([]*CompetitionInfo, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ListCompetitions", fmt.Sprintf("active=%t", activeOnly), func(ctx context.Context) (results.OperationResult[[]*CompetitionInfo, error], error) {
		rows, err := s.repo.List(ctx, nil, activeOnly)
		if err != nil {
			return results.OperationResult[[]*CompetitionInfo, error]{}, fmt.Errorf("failed to list competitions: %w", err)
		}
		out := make([]*CompetitionInfo, 0, len(rows))
		for _, row := range rows {
			out = append(out, s.toInfo(row.ToDomain()))
		}
		return results.SuccessResult[[]*CompetitionInfo, error](out), nil
	}))
}

// GetPhaseStatus derives the current phase of a competition.
func (s *CompetitionService) GetPhaseStatus(ctx context.Context, code string) (*PhaseInfo, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "GetPhaseStatus", code, func(ctx context.Context) (results.OperationResult[*PhaseInfo, error], error) {
		c, err := s.load(ctx, nil, code)
		if err != nil {
			return operation.Fail[*PhaseInfo](err)
		}
		return operation.Succeed(&PhaseInfo{
			Code:        c.Code,
			Name:        c.Name,
			PhaseStatus: competitiondomain.GetPhaseStatus(c.Dates, s.clock.Now()),
		})
	}))
}

// UpdateSettings replaces the schedule of a competition.
func (s *CompetitionService) UpdateSettings(ctx context.Context, code string, update SettingsUpdate) (*CompetitionInfo, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*CompetitionInfo, error], error) {
		return s.updateSettingsLogic(ctx, db, code, update)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "UpdateSettings", code, func(ctx context.Context) (results.OperationResult[*CompetitionInfo, error], error) {
		return operation.InTx(s.runner, ctx, updateTx)
	}))
}

func (s *CompetitionService) updateSettingsLogic(ctx context.Context, db bun.IDB, code string, update SettingsUpdate) (results.OperationResult[*CompetitionInfo, error], error) {
	if problems := update.Dates.Validate(); len(problems) > 0 {
		return results.FailureResult[*CompetitionInfo, error](apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeInvalidInput, "invalid competition schedule",
			map[string]any{"problems": problems},
		)), nil
	}
	if update.RegistrationFee != nil && *update.RegistrationFee < 0 {
		return results.FailureResult[*CompetitionInfo, error](apperrors.Validation("registration fee cannot be negative")), nil
	}

	row, err := s.repo.GetByCode(ctx, db, normalizeCode(code))
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return results.FailureResult[*CompetitionInfo, error](notFound(code)), nil
		}
		return results.OperationResult[*CompetitionInfo, error]{}, fmt.Errorf("failed to load competition: %w", err)
	}

	row.ApplyDates(update.Dates)
	if update.RegistrationFee != nil {
		row.RegistrationFee = *update.RegistrationFee
	}
	if update.IsActive != nil {
		row.IsActive = *update.IsActive
	}

	if err := s.repo.UpdateSettings(ctx, db, row); err != nil {
		return results.OperationResult[*CompetitionInfo, error]{}, fmt.Errorf("failed to update competition: %w", err)
	}

	return results.SuccessResult[*CompetitionInfo, error](s.toInfo(row.ToDomain())), nil
}

func (s *CompetitionService) load(ctx context.Context, db bun.IDB, code string) (*competitiondomain.Competition, error) {
	row, err := s.repo.GetByCode(ctx, db, normalizeCode(code))
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return nil, notFound(code)
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return row.ToDomain(), nil
}

func (s *CompetitionService) toInfo(c *competitiondomain.Competition) *CompetitionInfo {
	return &CompetitionInfo{
		Code:            c.Code,
		Name:            c.Name,
		Description:     c.Description,
		MinTeamSize:     c.MinTeamSize,
		MaxTeamSize:     c.MaxTeamSize,
		RegistrationFee: c.RegistrationFee,
		IsActive:        c.IsActive,
		Dates:           c.Dates,
		Status:          competitiondomain.GetPhaseStatus(c.Dates, s.clock.Now()),
	}
}

func notFound(code string) error {
	return apperrors.New(apperrors.KindNotFound, apperrors.CodeCompetitionNotFound, fmt.Sprintf("competition %q not found", code))
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
