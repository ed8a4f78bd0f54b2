package registration

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationservice "github.com/ieee-sb/thesandbox/app/modules/registration/application"
	registrationhandlers "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/handlers"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/uptrace/bun"
)

// Module represents the registration module.
type Module struct {
	RegistrationService registrationservice.Service
	Repository          registrationdb.Repository
	cancelFunc          context.CancelFunc
	logger              *slog.Logger
}

// Dependencies are the repositories of other modules the registration flow
// reads and writes.
type Dependencies struct {
	Users        userdb.Repository
	Competitions competitiondb.Repository
	Payments     registrationservice.PaymentStatusReader
	Dispatcher   *eventbus.Dispatcher
}

// NewRegistrationModule initializes the registration module.
func NewRegistrationModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	authModule *auth.Module,
	deps Dependencies,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "registration.NewRegistrationModule initializing")

	repo := registrationdb.NewRepository(db)
	service := registrationservice.NewRegistrationService(
		repo,
		deps.Users,
		deps.Competitions,
		deps.Payments,
		deps.Dispatcher,
		clk,
		logger,
		obs.Metrics,
		tracer,
		db,
	)
	handlers := registrationhandlers.NewRegistrationHandlers(service, logger, tracer)

	if httpRouter != nil {
		guard := authModule.Guard

		httpRouter.Group(func(r chi.Router) {
			r.Use(authhandlers.RateLimitMiddleware(authModule.RateLimiter))
			r.Post("/api/competitions/register", handlers.HandleRegister)
			r.Get("/api/competitions/register", handlers.HandleLookup)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireParticipant)
			r.Get("/api/me/registration", handlers.HandleMyRegistration)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionViewRegistrations))
			r.Get("/api/admin/registrations", handlers.HandleListRegistrations)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionReviewRegistrations))
			r.Post("/api/admin/registrations/{id}/approve", handlers.HandleApprove)
			r.Post("/api/admin/registrations/{id}/reject", handlers.HandleReject)
		})
	}

	return &Module{
		RegistrationService: service,
		Repository:          repo,
		logger:              logger,
	}, nil
}

// Run starts the registration module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting registration module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Registration module goroutine stopped")
}

// Close shuts down the registration module.
func (m *Module) Close() error {
	m.logger.Info("Stopping registration module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
