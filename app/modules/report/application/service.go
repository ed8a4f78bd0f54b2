package reportservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"go.opentelemetry.io/otel/trace"
)

// ReportService implements the Service interface.
type ReportService struct {
	competitions  competitiondb.Repository
	registrations registrationdb.Repository
	payments      paymentdb.Repository
	clock         clock.Clock
	logger        *slog.Logger
	runner        *operation.Runner
}

// NewReportService creates a new ReportService. Reports read outside a
// transaction.
func NewReportService(
	competitions competitiondb.Repository,
	registrations registrationdb.Repository,
	payments paymentdb.Repository,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ReportService{
		competitions:  competitions,
		registrations: registrations,
		payments:      payments,
		clock:         clk,
		logger:        logger,
		runner: &operation.Runner{
			Service: "ReportService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
		},
	}
}

// dataset is every registration grouped by competition, in competition code
// order.
type dataset struct {
	competitions  []*competitiondb.Competition
	byCompetition map[uuid.UUID][]*registrationdb.Registration
	paymentStatus map[uuid.UUID]string
}

func (s *ReportService) load(ctx context.Context, filter ExportFilter) (*dataset, error) {
	code := strings.ToUpper(strings.TrimSpace(filter.CompetitionCode))
	if code != "" && !competitiondomain.Code(code).IsValid() {
		return nil, apperrors.New(apperrors.KindNotFound, apperrors.CodeCompetitionNotFound, "competition not found")
	}
	if filter.VerificationStatus != "" && !registrationStatuses[filter.VerificationStatus] {
		return nil, apperrors.Validation("unknown verification status")
	}

	comps, err := s.competitions.List(ctx, nil, false)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	if code != "" {
		var only []*competitiondb.Competition
		for _, c := range comps {
			if c.Code == code {
				only = append(only, c)
			}
		}
		comps = only
	}

	regs, err := s.registrations.List(ctx, nil, registrationdb.ListFilter{
		CompetitionCode:    code,
		VerificationStatus: filter.VerificationStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	payments, err := s.payments.List(ctx, nil, paymentdb.ListFilter{CompetitionCode: code})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	ds := &dataset{
		competitions:  comps,
		byCompetition: make(map[uuid.UUID][]*registrationdb.Registration, len(comps)),
		paymentStatus: make(map[uuid.UUID]string, len(payments)),
	}
	for _, r := range regs {
		ds.byCompetition[r.CompetitionID] = append(ds.byCompetition[r.CompetitionID], r)
	}
	for _, p := range payments {
		ds.paymentStatus[p.RegistrationID] = p.Status
	}
	return ds, nil
}

var registrationStatuses = map[string]bool{
	string(registrationdomain.VerificationPending):  true,
	string(registrationdomain.VerificationApproved): true,
	string(registrationdomain.VerificationRejected): true,
}

var _ Service = (*ReportService)(nil)
