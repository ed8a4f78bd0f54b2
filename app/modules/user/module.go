package user

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	userservice "github.com/ieee-sb/thesandbox/app/modules/user/application"
	userhandlers "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/handlers"
	useroauth "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/oauth"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/uptrace/bun"
)

// Module represents the user module.
type Module struct {
	UserService userservice.Service
	Repository  userdb.Repository
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
}

// NewUserModule initializes the user module.
func NewUserModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	authModule *auth.Module,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "user.NewUserModule initializing")

	repo := userdb.NewRepository(db)

	var google useroauth.Provider
	if p := useroauth.NewGoogleProvider(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, cfg.OAuth.GoogleRedirectURL); p != nil {
		google = p
	} else {
		logger.InfoContext(ctx, "Google sign-in disabled")
	}

	service := userservice.NewUserService(repo, authModule.Provider, google, cfg.JWT.DefaultTTL, clk, logger, obs.Metrics, tracer, db)

	handlers := userhandlers.NewUserHandlers(service, userhandlers.Options{
		SecureCookies: cfg.SecureCookies(),
		PublicBaseURL: cfg.HTTP.PublicBaseURL,
	}, logger, tracer)

	if httpRouter != nil {
		guard := authModule.Guard

		httpRouter.Group(func(r chi.Router) {
			r.Use(authhandlers.RateLimitMiddleware(authModule.RateLimiter))
			r.Post("/api/auth/login", handlers.HandleLogin)
			r.Post("/api/admin/auth/login", handlers.HandleStaffLogin)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Post("/api/auth/logout", handlers.HandleLogout)
			r.Get("/api/auth/activate", handlers.HandleActivate)
			r.Get("/api/auth/google/login", handlers.HandleGoogleLogin)
			r.Get("/api/auth/google/callback", handlers.HandleGoogleCallback)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionManageStaff))
			r.Get("/api/admin/staff", handlers.HandleListStaff)
			r.Post("/api/admin/staff", handlers.HandleCreateStaff)
			r.Post("/api/admin/staff/{id}/deactivate", handlers.HandleDeactivateStaff)
		})
	}

	return &Module{
		UserService: service,
		Repository:  repo,
		logger:      logger,
	}, nil
}

// Run starts the user module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting user module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "User module goroutine stopped")
}

// Close shuts down the user module.
func (m *Module) Close() error {
	m.logger.Info("Stopping user module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
