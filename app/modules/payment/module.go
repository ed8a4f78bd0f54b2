package payment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	paymentservice "github.com/ieee-sb/thesandbox/app/modules/payment/application"
	paymenthandlers "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/handlers"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissionstorage "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/storage"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/uptrace/bun"
)

// Module represents the payment module.
type Module struct {
	PaymentService paymentservice.Service
	Repository     paymentdb.Repository
	cancelFunc     context.CancelFunc
	logger         *slog.Logger
}

// Dependencies are shared with the registration and submission modules.
type Dependencies struct {
	Registrations registrationdb.Repository
	Competitions  competitiondb.Repository
	Storage       submissionstorage.Storage
	Dispatcher    *eventbus.Dispatcher
}

// NewRepository exposes the payment repository so the registration module can
// check fee verification before the payment module is built.
func NewRepository(db *bun.DB) paymentdb.Repository {
	return paymentdb.NewRepository(db)
}

// NewPaymentModule initializes the payment module.
func NewPaymentModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	repo paymentdb.Repository,
	httpRouter chi.Router,
	authModule *auth.Module,
	deps Dependencies,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "payment.NewPaymentModule initializing")

	if repo == nil {
		repo = paymentdb.NewRepository(db)
	}
	service := paymentservice.NewPaymentService(
		repo,
		deps.Registrations,
		deps.Competitions,
		deps.Storage,
		deps.Dispatcher,
		clk,
		logger,
		obs.Metrics,
		tracer,
		db,
	)
	handlers := paymenthandlers.NewPaymentHandlers(service, logger, tracer)

	if httpRouter != nil {
		guard := authModule.Guard

		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireParticipant)
			r.Post("/api/payments", handlers.HandleSubmitProof)
			r.Get("/api/payments", handlers.HandleMyPayment)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionViewPayments))
			r.Get("/api/admin/payments", handlers.HandleListPayments)
		})
		httpRouter.Group(func(r chi.Router) {
			r.Use(guard.Authenticate)
			r.Use(guard.RequireCapability(authdomain.ActionVerifyPayments))
			r.Post("/api/admin/payments/{id}/verify", handlers.HandleVerify)
			r.Post("/api/admin/payments/{id}/reject", handlers.HandleReject)
		})
	}

	return &Module{
		PaymentService: service,
		Repository:     repo,
		logger:         logger,
	}, nil
}

// Run starts the payment module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting payment module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Payment module goroutine stopped")
}

// Close shuts down the payment module.
func (m *Module) Close() error {
	m.logger.Info("Stopping payment module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
