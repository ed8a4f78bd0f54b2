package competition

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	competitionservice "github.com/ieee-sb/thesandbox/app/modules/competition/application"
	competitionhandlers "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/handlers"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/uptrace/bun"
)

// Module represents the competition module.
type Module struct {
	CompetitionService competitionservice.Service
	Repository         competitiondb.Repository
	cancelFunc         context.CancelFunc
	logger             *slog.Logger
}

// NewCompetitionModule creates and initializes a new competition module.
func NewCompetitionModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	guard *authhandlers.Guard,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "competition.NewCompetitionModule initializing")

	// 1. Initialize Repository
	repo := competitiondb.NewRepository(db)

	// 2. Initialize Service
	service := competitionservice.NewCompetitionService(repo, clk, logger, obs.Metrics, tracer, db)

	// 3. Initialize Handlers
	handlers := competitionhandlers.NewCompetitionHandlers(service, logger, tracer)

	// 4. Register routes
	if httpRouter != nil {
		httpRouter.Group(func(r chi.Router) {
			r.Get("/api/competitions", handlers.HandleListCompetitions)
			r.Get("/api/competitions/{code}", handlers.HandleGetCompetition)
			r.Get("/api/competitions/{code}/phase", handlers.HandleGetPhaseStatus)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionManageCompetitions))
			r.Put("/api/admin/competitions/{code}", handlers.HandleUpdateSettings)
		})
	}

	return &Module{
		CompetitionService: service,
		Repository:         repo,
		logger:             logger,
	}, nil
}

// Run starts the competition module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting competition module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Competition module goroutine stopped")
}

// Close shuts down the competition module.
func (m *Module) Close() error {
	m.logger.Info("Stopping competition module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
