package submission

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissionservice "github.com/ieee-sb/thesandbox/app/modules/submission/application"
	submissionhandlers "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/handlers"
	submissiondb "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories"
	submissionstorage "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/storage"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/uptrace/bun"
)

// Module represents the submission module.
type Module struct {
	SubmissionService submissionservice.Service
	Repository        submissiondb.Repository
	Storage           submissionstorage.Storage
	cancelFunc        context.CancelFunc
	logger            *slog.Logger
}

// Dependencies are the repositories of other modules submissions read and
// advance.
type Dependencies struct {
	Registrations registrationdb.Repository
	Competitions  competitiondb.Repository
	Dispatcher    *eventbus.Dispatcher
}

// NewStorage builds the configured file storage backend.
func NewStorage(cfg config.StorageConfig) (submissionstorage.Storage, error) {
	switch cfg.Backend {
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("supabase storage requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return submissionstorage.NewSupabaseStorage(cfg.SupabaseURL, cfg.Bucket, cfg.SupabaseKey, &http.Client{Timeout: 2 * time.Minute}), nil
	case "local", "":
		local, err := submissionstorage.NewLocalStorage(cfg.LocalDir, cfg.LocalPublicURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewSubmissionModule initializes the submission module.
func NewSubmissionModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	authModule *auth.Module,
	deps Dependencies,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "submission.NewSubmissionModule initializing",
		slog.String("storage", cfg.Storage.Backend),
	)

	store, err := NewStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	repo := submissiondb.NewRepository(db)
	service := submissionservice.NewSubmissionService(
		repo,
		deps.Registrations,
		deps.Competitions,
		store,
		deps.Dispatcher,
		clk,
		logger,
		obs.Metrics,
		tracer,
		db,
	)
	handlers := submissionhandlers.NewSubmissionHandlers(service, logger, tracer)

	if httpRouter != nil {
		guard := authModule.Guard

		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireParticipant)
			r.Post("/api/submissions/{phase}", handlers.HandleSubmit)
			r.Get("/api/submissions", handlers.HandleMySubmissions)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionViewSubmissions))
			r.Get("/api/admin/submissions/{phase}", handlers.HandleListSubmissions)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionReviewSubmissions))
			r.Post("/api/admin/submissions/{phase}/{id}/approve", handlers.HandleApprove)
			r.Post("/api/admin/submissions/{phase}/{id}/reject", handlers.HandleReject)
		})

		if cfg.Storage.Backend == "local" {
			prefix := "/" + strings.Trim(urlPath(cfg.Storage.LocalPublicURL), "/")
			if prefix != "/" {
				fs := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Storage.LocalDir)))
				httpRouter.Get(prefix+"/*", fs.ServeHTTP)
			}
		}
	}

	return &Module{
		SubmissionService: service,
		Repository:        repo,
		Storage:           store,
		logger:            logger,
	}, nil
}

// urlPath returns the path of a public base URL.
func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// Run starts the submission module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting submission module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Submission module goroutine stopped")
}

// Close shuts down the submission module.
func (m *Module) Close() error {
	m.logger.Info("Stopping submission module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
