package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// Run starts the modules, the event router and the HTTP server, then blocks
// until ctx is cancelled or the server fails. The caller closes the app.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, m := range app.modules {
		wg.Add(1)
		go m.Run(ctx, &wg)
	}

	routerErr := make(chan error, 1)
	go func() {
		if err := app.EventRouter.Run(ctx); err != nil {
			routerErr <- fmt.Errorf("event router stopped: %w", err)
		}
	}()
	select {
	case <-app.EventRouter.Running():
	case err := <-routerErr:
		cancel()
		wg.Wait()
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", slog.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case err := <-serverErr:
		logger.Error("HTTP server failed", slog.Any("error", err))
		runErr = err
	case err := <-routerErr:
		logger.Error("Event router failed", slog.Any("error", err))
		runErr = err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}

	cancel()
	wg.Wait()
	return runErr
}
