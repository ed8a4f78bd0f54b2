package userservice

import (
	"log/slog"
	"time"

	authjwt "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/jwt"
	useroauth "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/oauth"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// UserService implements the Service interface.
type UserService struct {
	repo       userdb.Repository
	tokens     authjwt.Provider
	google     useroauth.Provider
	sessionTTL time.Duration
	clock      clock.Clock
	logger     *slog.Logger
	runner     *operation.Runner
}

// NewUserService creates a new UserService. google may be nil when social
// login is not configured.
func NewUserService(
	repo userdb.Repository,
	tokens authjwt.Provider,
	google useroauth.Provider,
	sessionTTL time.Duration,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		google:     google,
		sessionTTL: sessionTTL,
		clock:      clk,
		logger:     logger,
		runner: &operation.Runner{
			Service: "UserService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}
