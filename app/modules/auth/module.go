package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/jwt"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/pkg/observability"
)

// Module represents the auth module. It owns session tokens and the route
// guards other modules mount.
type Module struct {
	Provider    authjwt.Provider
	Guard       *authhandlers.Guard
	RateLimiter *authhandlers.IPRateLimiter
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
	guard := authhandlers.NewGuard(jwtProvider, logger, tracer)
	limiter := authhandlers.NewIPRateLimiter(5, 10)

	if httpRouter != nil {
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Get("/api/auth/session", guard.HandleSession)
		})
	}

	return &Module{
		Provider:    jwtProvider,
		Guard:       guard,
		RateLimiter: limiter,
		logger:      logger,
	}, nil
}

// Run starts the auth module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting auth module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Auth module goroutine stopped")
}

// Close stops the auth module.
func (m *Module) Close() error {
	m.logger.Info("Stopping auth module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
