package authhandlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authjwt "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestGuard(claimsByToken map[string]*authdomain.Claims) *Guard {
	provider := &FakeProvider{
		ValidateTokenFunc: func(token string) (*authdomain.Claims, error) {
			if c, ok := claimsByToken[token]; ok {
				return c, nil
			}
			return nil, authjwt.ErrInvalidToken
		},
	}
	return NewGuard(provider, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestGuard_Chain(t *testing.T) {
	participant := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectUser, Role: authdomain.RoleParticipant}
	reviewer := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleReviewer}
	admin := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleAdmin}

	guard := newTestGuard(map[string]*authdomain.Claims{
		"participant": participant,
		"reviewer":    reviewer,
		"admin":       admin,
	})

	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		bearer     string
		cookie     string
		wantStatus int
	}{
		{name: "participant route with participant cookie", middleware: guard.RequireParticipant, cookie: "participant", wantStatus: http.StatusNoContent},
		{name: "participant route anonymous", middleware: guard.RequireParticipant, wantStatus: http.StatusUnauthorized},
		{name: "participant route with staff token", middleware: guard.RequireParticipant, bearer: "admin", wantStatus: http.StatusUnauthorized},
		{name: "participant route with invalid token", middleware: guard.RequireParticipant, bearer: "forged", wantStatus: http.StatusUnauthorized},
		{name: "staff route with participant", middleware: guard.RequireStaff, bearer: "participant", wantStatus: http.StatusUnauthorized},
		{name: "staff route with reviewer", middleware: guard.RequireStaff, bearer: "reviewer", wantStatus: http.StatusNoContent},
		{name: "capability granted", middleware: guard.RequireCapability(authdomain.ActionVerifyPayments), bearer: "admin", wantStatus: http.StatusNoContent},
		{name: "capability denied", middleware: guard.RequireCapability(authdomain.ActionVerifyPayments), bearer: "reviewer", wantStatus: http.StatusForbidden},
		{name: "capability anonymous", middleware: guard.RequireCapability(authdomain.ActionVerifyPayments), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := guard.Authenticate(tt.middleware(okHandler()))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGuard_HandleSession(t *testing.T) {
	reviewer := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleReviewer, Email: "r@thesandbox.id"}
	guard := newTestGuard(map[string]*authdomain.Claims{"reviewer": reviewer})
	h := guard.Authenticate(http.HandlerFunc(guard.HandleSession))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer reviewer")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "reviewer", body["role"])
	assert.Len(t, body["capabilities"], 3)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "abc", 0, true)
	ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, -1, cookies[1].MaxAge)
}
