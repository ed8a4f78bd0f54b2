package userhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	userservice "github.com/ieee-sb/thesandbox/app/modules/user/application"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(svc userservice.Service) http.Handler {
	h := NewUserHandlers(svc, Options{PublicBaseURL: "http://app.local/"}, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Post("/api/auth/login", h.HandleLogin)
	r.Post("/api/auth/logout", h.HandleLogout)
	r.Get("/api/auth/activate", h.HandleActivate)
	r.Get("/api/auth/google/login", h.HandleGoogleLogin)
	r.Get("/api/auth/google/callback", h.HandleGoogleCallback)
	r.Post("/api/admin/auth/login", h.HandleStaffLogin)
	r.Post("/api/admin/staff/{id}/deactivate", h.HandleDeactivateStaff)
	r.Post("/api/admin/staff", h.HandleCreateStaff)
	return r
}

func sessionFor(kind authdomain.SubjectKind, role authdomain.Role) *userservice.Session {
	return &userservice.Session{
		Token:     "signed",
		ExpiresAt: time.Now().Add(time.Hour),
		Subject:   uuid.New(),
		Kind:      kind,
		Role:      role,
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
		wantCookie bool
		wantCode   string
	}{
		{name: "success sets cookie", body: `{"email":"a@b.c","password":"password1"}`, wantStatus: http.StatusOK, wantCookie: true},
		{name: "bad credentials", body: `{"email":"a@b.c","password":"x"}`, loginErr: apperrors.New(apperrors.KindUnauthorized, apperrors.CodeInvalidCredentials, "invalid"), wantStatus: http.StatusUnauthorized, wantCode: "INVALID_CREDENTIALS"},
		{name: "unknown field", body: `{"email":"a@b.c","pw":"x"}`, wantStatus: http.StatusUnprocessableEntity, wantCode: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*userservice.Session, error) {
					if tt.loginErr != nil {
						return nil, tt.loginErr
					}
					return sessionFor(authdomain.SubjectUser, authdomain.RoleParticipant), nil
				},
			}
			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			cookie := findCookie(rec.Result(), authhandlers.SessionCookie)
			if tt.wantCookie {
				require.NotNil(t, cookie)
				assert.Equal(t, "signed", cookie.Value)
				assert.True(t, cookie.HttpOnly)
			} else {
				assert.Nil(t, cookie)
			}
			if tt.wantCode != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&FakeUserService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookie := findCookie(rec.Result(), authhandlers.SessionCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "", cookie.Value)
}

func TestHandleActivate(t *testing.T) {
	svc := &FakeUserService{
		ActivateFunc: func(ctx context.Context, token string) (*userservice.ActivationResult, error) {
			if token != "good" {
				return nil, apperrors.New(apperrors.KindState, apperrors.CodeTokenExpired, "expired")
			}
			return &userservice.ActivationResult{Username: "jane"}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/activate?token=good", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activated":true`)

	rec = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/activate?token=old", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestGoogleFlow(t *testing.T) {
	var gotState string
	svc := &FakeUserService{
		GoogleAuthURLFunc: func(state string) (string, error) {
			gotState = state
			return "https://accounts.example/auth?state=" + state, nil
		},
		LoginWithGoogleFunc: func(ctx context.Context, code string) (*userservice.Session, error) {
			assert.Equal(t, "the-code", code)
			return sessionFor(authdomain.SubjectUser, authdomain.RoleParticipant), nil
		},
	}
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	stateCookie := findCookie(rec.Result(), StateCookie)
	require.NotNil(t, stateCookie)
	assert.Equal(t, gotState, stateCookie.Value)

	t.Run("state mismatch is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=other&code=the-code", nil)
		req.AddCookie(stateCookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching state signs in and redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state="+gotState+"&code=the-code", nil)
		req.AddCookie(stateCookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "http://app.local/dashboard", rec.Header().Get("Location"))
		assert.NotNil(t, findCookie(rec.Result(), authhandlers.SessionCookie))
	})
}

func TestHandleCreateStaff_PassesClaims(t *testing.T) {
	actor := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleSuperAdmin}
	svc := &FakeUserService{
		CreateStaffFunc: func(ctx context.Context, got *authdomain.Claims, input userservice.CreateStaffInput) (*userservice.StaffInfo, error) {
			assert.Equal(t, actor, got)
			assert.Equal(t, authdomain.RoleReviewer, input.Role)
			return &userservice.StaffInfo{ID: uuid.New(), Email: input.Email, Role: input.Role, Active: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/staff", strings.NewReader(`{"email":"r@ieee.org","fullName":"R","password":"password1","role":"reviewer"}`))
	req = req.WithContext(authhandlers.WithClaims(req.Context(), actor))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleDeactivateStaff_InvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&FakeUserService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/staff/not-a-uuid/deactivate", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
