package app

import (
	"errors"
	"log/slog"
)

// Close stops the modules in reverse start order, then the event router,
// the event bus and the database. It is safe on a partially initialized app.
func (app *App) Close() error {
	logger := app.Observability.Logger
	var errs []error

	for i := len(app.modules) - 1; i >= 0; i-- {
		if err := app.modules[i].Close(); err != nil {
			logger.Error("Failed to close module", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if app.EventRouter != nil {
		if err := app.EventRouter.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Info("Application closed")
	return errors.Join(errs...)
}
