package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	"github.com/ieee-sb/thesandbox/app/modules/competition"
	"github.com/ieee-sb/thesandbox/app/modules/notification"
	"github.com/ieee-sb/thesandbox/app/modules/payment"
	"github.com/ieee-sb/thesandbox/app/modules/registration"
	"github.com/ieee-sb/thesandbox/app/modules/report"
	"github.com/ieee-sb/thesandbox/app/modules/submission"
	"github.com/ieee-sb/thesandbox/app/modules/user"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/db/bundb"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/uptrace/bun"
)

// module is the lifecycle every feature module implements.
type module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

// App holds the shared infrastructure and every module.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	Clock         clock.Clock
	DB            *bun.DB
	EventBus      eventbus.EventBus
	EventRouter   *message.Router
	HTTPRouter    chi.Router

	AuthModule         *auth.Module
	CompetitionModule  *competition.Module
	UserModule         *user.Module
	RegistrationModule *registration.Module
	SubmissionModule   *submission.Module
	PaymentModule      *payment.Module
	NotificationModule *notification.Module
	ReportModule       *report.Module

	modules []module
	server  *http.Server
}

// NewApp connects the infrastructure and builds every module. Partially
// built apps are closed before the error is returned.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	app := &App{
		Config:        cfg,
		Observability: obs,
		Clock:         clock.RealClock{},
	}
	if err := app.Initialize(ctx); err != nil {
		if closeErr := app.Close(); closeErr != nil {
			obs.Logger.ErrorContext(ctx, "Failed to close partially initialized app", slog.Any("error", closeErr))
		}
		return nil, err
	}
	return app, nil
}

// Initialize wires the database, event bus, HTTP router and modules.
func (app *App) Initialize(ctx context.Context) error {
	logger := app.Observability.Logger
	cfg := app.Config

	db, err := bundb.Open(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = db

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus
	dispatcher := eventbus.NewDispatcher(bus, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create event router: %w", err)
	}
	app.EventRouter = router

	app.HTTPRouter = newHTTPRouter(cfg, app.Observability, db)

	if err := app.initializeModules(ctx, dispatcher); err != nil {
		return err
	}

	app.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.InfoContext(ctx, "Application initialized", slog.String("address", cfg.HTTP.Address))
	return nil
}

func (app *App) initializeModules(ctx context.Context, dispatcher *eventbus.Dispatcher) error {
	obs, cfg, db, r, clk := app.Observability, app.Config, app.DB, app.HTTPRouter, app.Clock

	authModule, err := auth.NewModule(ctx, cfg, obs, r)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	app.AuthModule = authModule

	competitionModule, err := competition.NewCompetitionModule(ctx, obs, db, r, authModule.Guard, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize competition module: %w", err)
	}
	app.CompetitionModule = competitionModule

	userModule, err := user.NewUserModule(ctx, cfg, obs, db, r, authModule, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize user module: %w", err)
	}
	app.UserModule = userModule

	// Registration approval reads payment state, and payments read
	// registrations, so the payment repository is built first.
	paymentRepo := payment.NewRepository(db)

	registrationModule, err := registration.NewRegistrationModule(ctx, obs, db, r, authModule, registration.Dependencies{
		Users:        userModule.Repository,
		Competitions: competitionModule.Repository,
		Payments:     paymentRepo,
		Dispatcher:   dispatcher,
	}, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize registration module: %w", err)
	}
	app.RegistrationModule = registrationModule

	submissionModule, err := submission.NewSubmissionModule(ctx, cfg, obs, db, r, authModule, submission.Dependencies{
		Registrations: registrationModule.Repository,
		Competitions:  competitionModule.Repository,
		Dispatcher:    dispatcher,
	}, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize submission module: %w", err)
	}
	app.SubmissionModule = submissionModule

	paymentModule, err := payment.NewPaymentModule(ctx, obs, db, paymentRepo, r, authModule, payment.Dependencies{
		Registrations: registrationModule.Repository,
		Competitions:  competitionModule.Repository,
		Storage:       submissionModule.Storage,
		Dispatcher:    dispatcher,
	}, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize payment module: %w", err)
	}
	app.PaymentModule = paymentModule

	notificationModule, err := notification.NewNotificationModule(ctx, cfg, obs, app.EventRouter, app.EventBus, notification.Dependencies{
		Users:        userModule.Repository,
		Competitions: competitionModule.Repository,
	}, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize notification module: %w", err)
	}
	app.NotificationModule = notificationModule

	reportModule, err := report.NewReportModule(ctx, obs, r, authModule, report.Dependencies{
		Competitions:  competitionModule.Repository,
		Registrations: registrationModule.Repository,
		Payments:      paymentRepo,
	}, clk)
	if err != nil {
		return fmt.Errorf("failed to initialize report module: %w", err)
	}
	app.ReportModule = reportModule

	app.modules = []module{
		authModule,
		competitionModule,
		userModule,
		registrationModule,
		submissionModule,
		paymentModule,
		notificationModule,
		reportModule,
	}
	return nil
}
