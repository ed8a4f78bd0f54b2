package competitionhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	competitionservice "github.com/ieee-sb/thesandbox/app/modules/competition/application"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(svc competitionservice.Service) http.Handler {
	h := NewCompetitionHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Get("/api/competitions", h.HandleListCompetitions)
	r.Get("/api/competitions/{code}", h.HandleGetCompetition)
	r.Get("/api/competitions/{code}/phase", h.HandleGetPhaseStatus)
	r.Put("/api/admin/competitions/{code}", h.HandleUpdateSettings)
	return r
}

func TestHandleGetPhaseStatus(t *testing.T) {
	tests := []struct {
		name         string
		setupService func(*FakeCompetitionService)
		path         string
		wantStatus   int
		wantPhase    string
	}{
		{
			name: "returns phase",
			setupService: func(f *FakeCompetitionService) {
				f.GetPhaseStatusFunc = func(ctx context.Context, code string) (*competitionservice.PhaseInfo, error) {
					assert.Equal(t, "PTC", code)
					return &competitionservice.PhaseInfo{
						Code: competitiondomain.CodePTC,
						PhaseStatus: competitiondomain.PhaseStatus{
							CurrentPhase: competitiondomain.PhasePreliminary,
							PhaseLabel:   competitiondomain.LabelPreliminary,
						},
					}, nil
				}
			},
			path:       "/api/competitions/PTC/phase",
			wantStatus: http.StatusOK,
			wantPhase:  "preliminary",
		},
		{
			name:         "unknown competition",
			setupService: func(f *FakeCompetitionService) {},
			path:         "/api/competitions/XYZ/phase",
			wantStatus:   http.StatusNotFound,
		},
		{
			name: "service failure",
			setupService: func(f *FakeCompetitionService) {
				f.GetPhaseStatusFunc = func(ctx context.Context, code string) (*competitionservice.PhaseInfo, error) {
					return nil, errors.New("db down")
				}
			},
			path:       "/api/competitions/PTC/phase",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeCompetitionService()
			tt.setupService(svc)

			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantPhase != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantPhase, body["currentPhase"])
				assert.Equal(t, "PTC", body["code"])
			}
		})
	}
}

func TestHandleListCompetitions(t *testing.T) {
	svc := NewFakeCompetitionService()
	var gotActiveOnly bool
	svc.ListCompetitionsFunc = func(ctx context.Context, activeOnly bool) ([]*competitionservice.CompetitionInfo, error) {
		gotActiveOnly = activeOnly
		return []*competitionservice.CompetitionInfo{{Code: competitiondomain.CodeBCC}}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/competitions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotActiveOnly)
	assert.Contains(t, rec.Body.String(), `"BCC"`)
}

func TestHandleUpdateSettings(t *testing.T) {
	svc := NewFakeCompetitionService()
	svc.UpdateSettingsFunc = func(ctx context.Context, code string, update competitionservice.SettingsUpdate) (*competitionservice.CompetitionInfo, error) {
		require.NotNil(t, update.RegistrationFee)
		assert.Equal(t, int64(100000), *update.RegistrationFee)
		return &competitionservice.CompetitionInfo{Code: competitiondomain.Code(code), RegistrationFee: *update.RegistrationFee}, nil
	}

	body := `{"dates":{"registrationOpen":"2026-11-01T00:00:00Z","registrationDeadline":"2026-12-01T00:00:00Z","preliminaryStart":"2026-12-02T00:00:00Z","preliminaryDeadline":"2026-12-20T00:00:00Z","semifinalStart":"2027-01-05T00:00:00Z","semifinalDeadline":"2027-01-20T00:00:00Z"},"registrationFee":100000}`
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/competitions/TPC", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/competitions/TPC", strings.NewReader(`{"bogus":true}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
