package report

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	reportservice "github.com/ieee-sb/thesandbox/app/modules/report/application"
	reporthandlers "github.com/ieee-sb/thesandbox/app/modules/report/infrastructure/handlers"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
)

// Module represents the report module.
type Module struct {
	ReportService reportservice.Service
	cancelFunc    context.CancelFunc
	logger        *slog.Logger
}

// Dependencies are the repositories reports read from.
type Dependencies struct {
	Competitions  competitiondb.Repository
	Registrations registrationdb.Repository
	Payments      paymentdb.Repository
}

// NewReportModule initializes the report module. httpRouter may be nil for
// CLI use.
func NewReportModule(
	ctx context.Context,
	obs observability.Observability,
	httpRouter chi.Router,
	authModule *auth.Module,
	deps Dependencies,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "report.NewReportModule initializing")

	service := reportservice.NewReportService(
		deps.Competitions,
		deps.Registrations,
		deps.Payments,
		clk,
		logger,
		obs.Metrics,
		tracer,
	)

	if httpRouter != nil {
		handlers := reporthandlers.NewReportHandlers(service, clk, logger, tracer)
		guard := authModule.Guard

		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionExportReports))
			r.Get("/api/admin/reports/registrations.xlsx", handlers.HandleExportRegistrations)
			r.Get("/api/admin/reports/registrations.png", handlers.HandleRegistrationChart)
		})
	}

	return &Module{
		ReportService: service,
		logger:        logger,
	}, nil
}

// Run starts the report module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting report module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Report module goroutine stopped")
}

// Close shuts down the report module.
func (m *Module) Close() error {
	m.logger.Info("Stopping report module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
