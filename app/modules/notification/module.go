package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	notificationservice "github.com/ieee-sb/thesandbox/app/modules/notification/application"
	notificationmail "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/mail"
	notificationqueue "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/queue"
	notificationrouter "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/router"
	notificationsheets "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/sheets"
	notificationtelegram "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/telegram"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
)

// Module represents the notification module.
type Module struct {
	NotificationService notificationservice.Service
	NotificationRouter  *notificationrouter.NotificationRouter
	Queue               *notificationqueue.Service
	cancelFunc          context.CancelFunc
	logger              *slog.Logger
}

// Dependencies are the repositories the housekeeping jobs read.
type Dependencies struct {
	Users        userdb.Repository
	Competitions competitiondb.Repository
}

// NewNotificationModule builds the outbound channels from cfg, registers the
// event consumers on router and, when the queue is enabled, the River
// periodic jobs. Unconfigured or unreachable channels are disabled with a
// warning.
func NewNotificationModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	router *message.Router,
	subscriber message.Subscriber,
	deps Dependencies,
	clk clock.Clock,
) (*Module, error) {
	logger := obs.Logger

	logger.InfoContext(ctx, "notification.NewNotificationModule initializing")

	channels := buildChannels(ctx, cfg, logger)
	service := notificationservice.NewNotificationService(
		deps.Users,
		deps.Competitions,
		channels,
		cfg.HTTP.PublicBaseURL,
		clk,
		logger,
		obs.Metrics,
		obs.Tracer,
	)

	module := &Module{
		NotificationService: service,
		logger:              logger,
	}

	if router != nil {
		nr := notificationrouter.NewNotificationRouter(logger, router, subscriber, obs.Tracer, obs.Registry)
		if err := nr.Configure(ctx, service); err != nil {
			return nil, fmt.Errorf("failed to configure notification router: %w", err)
		}
		module.NotificationRouter = nr
	}

	if cfg.Queue.Enabled {
		queue, err := notificationqueue.NewService(ctx, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, logger, obs.Metrics, service)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification queue: %w", err)
		}
		module.Queue = queue
	}

	return module, nil
}

func buildChannels(ctx context.Context, cfg *config.Config, logger *slog.Logger) notificationservice.Channels {
	var channels notificationservice.Channels

	if mailer := notificationmail.New(cfg.Email, &http.Client{Timeout: 15 * time.Second}); mailer != nil {
		channels.Mail = mailer
	} else {
		logger.WarnContext(ctx, "Email is not configured, notification mail disabled")
	}

	if cfg.Sheets.CredentialsFile != "" && cfg.Sheets.SpreadsheetID != "" {
		client, err := notificationsheets.New(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
		if err != nil {
			logger.WarnContext(ctx, "Spreadsheet mirror disabled", slog.Any("error", err))
		} else {
			channels.Sheets = client
		}
	}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err := notificationtelegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.WarnContext(ctx, "Telegram alerts disabled", slog.Any("error", err))
		} else {
			channels.Chat = notifier
		}
	}

	return channels
}

// Run starts the River client and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting notification module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Notification queue failed to start", slog.Any("error", err))
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Notification module goroutine stopped")
}

// Close stops the River client. The shared event router is closed by the
// application.
func (m *Module) Close() error {
	m.logger.Info("Stopping notification module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if m.Queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return m.Queue.Stop(ctx)
	}
	return nil
}
