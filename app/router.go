package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// pinger is satisfied by *bun.DB.
type pinger interface {
	PingContext(ctx context.Context) error
}

// newHTTPRouter builds the root router with the shared middleware and the
// operational endpoints. Modules add their routes to it.
func newHTTPRouter(cfg *config.Config, obs observability.Observability, db pinger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if m, ok := obs.Metrics.(*observability.PrometheusMetrics); ok {
		r.Use(m.HTTPMiddleware)
	}
	r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))

	r.Get("/healthz", healthHandler(db))
	r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	return r
}

func healthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
