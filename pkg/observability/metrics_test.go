package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Operations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "AdmitTeam", "RegistrationService")
	m.RecordOperationAttempt(ctx, "AdmitTeam", "RegistrationService")
	m.RecordOperationSuccess(ctx, "AdmitTeam", "RegistrationService")
	m.RecordOperationFailure(ctx, "AdmitTeam", "RegistrationService")
	m.RecordOperationDuration(ctx, "AdmitTeam", "RegistrationService", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("RegistrationService", "AdmitTeam")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("RegistrationService", "AdmitTeam")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("RegistrationService", "AdmitTeam")))
}

func TestPrometheusMetrics_HTTPMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/api/competitions/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/competitions/PTC", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/competitions/{code}", "418")))
}

func TestNewNoop(t *testing.T) {
	obs := NewNoop()
	assert.NotNil(t, obs.Logger)
	assert.NotNil(t, obs.Tracer)
	assert.NotNil(t, obs.Registry)
	obs.Metrics.RecordOperationAttempt(context.Background(), "x", "y")
}
