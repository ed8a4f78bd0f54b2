package registrationhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	registrationservice "github.com/ieee-sb/thesandbox/app/modules/registration/application"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(svc registrationservice.Service, claims *authdomain.Claims) http.Handler {
	h := NewRegistrationHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if claims != nil {
				req = req.WithContext(authhandlers.WithClaims(req.Context(), claims))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/competitions/register", h.HandleRegister)
	r.Get("/api/competitions/register", h.HandleLookup)
	r.Get("/api/me/registration", h.HandleMyRegistration)
	r.Get("/api/admin/registrations", h.HandleListRegistrations)
	r.Post("/api/admin/registrations/{id}/approve", h.HandleApprove)
	r.Post("/api/admin/registrations/{id}/reject", h.HandleReject)
	return r
}

func TestHandleRegister(t *testing.T) {
	body := `{"competitionCode":"PTC","teamName":"Volt","institution":"SMA 1","leader":{"fullName":"Rina","email":"rina@example.com","phoneNumber":"081234567890","password":"secret123"},"members":[]}`

	tests := []struct {
		name       string
		body       string
		setup      func(*FakeRegistrationService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: body,
			setup: func(f *FakeRegistrationService) {
				f.AdmitTeamFunc = func(ctx context.Context, req registrationdomain.AdmissionRequest) (*registrationservice.AdmissionResult, error) {
					return &registrationservice.AdmissionResult{RegistrationID: uuid.New(), TeamName: req.TeamName, MemberCount: 1, Status: "pending", CurrentPhase: "registration"}, nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "team size out of range",
			body: body,
			setup: func(f *FakeRegistrationService) {
				f.AdmitTeamFunc = func(ctx context.Context, req registrationdomain.AdmissionRequest) (*registrationservice.AdmissionResult, error) {
					return nil, apperrors.WithMetadata(apperrors.KindValidation, apperrors.CodeTeamSize, "team too small", map[string]any{"current": 1, "min": 2, "max": 5})
				}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   string(apperrors.CodeTeamSize),
		},
		{
			name: "team name conflict",
			body: body,
			setup: func(f *FakeRegistrationService) {
				f.AdmitTeamFunc = func(ctx context.Context, req registrationdomain.AdmissionRequest) (*registrationservice.AdmissionResult, error) {
					return nil, apperrors.New(apperrors.KindConflict, apperrors.CodeTeamNameTaken, "taken")
				}
			},
			wantStatus: http.StatusConflict,
			wantCode:   string(apperrors.CodeTeamNameTaken),
		},
		{
			name:       "unknown competition",
			body:       body,
			setup:      func(f *FakeRegistrationService) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed body",
			body:       `{"teamName":`,
			setup:      func(f *FakeRegistrationService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   string(apperrors.CodeInvalidInput),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeRegistrationService()
			tt.setup(svc)

			rec := httptest.NewRecorder()
			newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/competitions/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp["code"])
			}
		})
	}
}

func TestHandleLookup(t *testing.T) {
	svc := NewFakeRegistrationService()
	svc.LookupByEmailFunc = func(ctx context.Context, email string) (*registrationservice.LookupResult, error) {
		assert.Equal(t, "rina@example.com", email)
		return &registrationservice.LookupResult{Registered: true, Registration: &registrationservice.RegistrationView{TeamName: "Volt"}}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/competitions/register?email=rina@example.com", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["registered"])
}

func TestHandleMyRegistration(t *testing.T) {
	userID := uuid.New()
	svc := NewFakeRegistrationService()
	svc.GetForUserFunc = func(ctx context.Context, id uuid.UUID) (*registrationservice.RegistrationView, error) {
		assert.Equal(t, userID, id)
		return &registrationservice.RegistrationView{ID: uuid.New(), TeamName: "Volt"}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc, &authdomain.Claims{Subject: userID, Kind: authdomain.SubjectUser, Role: authdomain.RoleParticipant}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me/registration", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me/registration", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleListRegistrations(t *testing.T) {
	svc := NewFakeRegistrationService()
	var got registrationservice.ListFilter
	svc.ListRegistrationsFunc = func(ctx context.Context, filter registrationservice.ListFilter) ([]*registrationservice.RegistrationView, error) {
		got = filter
		return []*registrationservice.RegistrationView{{TeamName: "Volt"}}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/registrations?competition=PTC&status=pending&limit=1000", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PTC", got.CompetitionCode)
	assert.Equal(t, "pending", got.VerificationStatus)
	assert.Equal(t, maxListLimit, got.Limit)

	rec = httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/registrations?offset=-1", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleReview(t *testing.T) {
	admin := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleAdmin}
	id := uuid.New()

	svc := NewFakeRegistrationService()
	var gotInput registrationservice.ReviewInput
	svc.ReviewRegistrationFunc = func(ctx context.Context, actor *authdomain.Claims, gotID uuid.UUID, input registrationservice.ReviewInput) (*registrationservice.RegistrationView, error) {
		assert.Equal(t, admin, actor)
		assert.Equal(t, id, gotID)
		gotInput = input
		if input.Decision == registrationdomain.DecisionReject {
			return nil, apperrors.New(apperrors.KindState, apperrors.CodeAlreadyReviewed, "already reviewed")
		}
		return &registrationservice.RegistrationView{ID: id, VerificationStatus: "approved"}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/registrations/"+id.String()+"/approve", strings.NewReader(`{"notes":"paid"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid", gotInput.Notes)

	rec = httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/registrations/"+id.String()+"/reject", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/registrations/not-a-uuid/approve", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
