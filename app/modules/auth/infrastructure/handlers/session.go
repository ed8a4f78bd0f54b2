package authhandlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authjwt "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/jwt"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/trace"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "sandbox_session"

type claimsKey struct{}

// WithClaims stores claims on the context.
func WithClaims(ctx context.Context, claims *authdomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the session claims set by Authenticate.
func ClaimsFromContext(ctx context.Context) (*authdomain.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*authdomain.Claims)
	return c, ok && c != nil
}

// Guard resolves sessions and enforces the role policy on routes.
type Guard struct {
	provider authjwt.Provider
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewGuard creates a new Guard.
func NewGuard(provider authjwt.Provider, logger *slog.Logger, tracer trace.Tracer) *Guard {
	return &Guard{
		provider: provider,
		logger:   logger,
		tracer:   tracer,
	}
}

// Authenticate attaches claims to the request context when a valid session
// token is present. Requests without one pass through anonymously.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := g.provider.ValidateToken(token)
		if err != nil {
			g.logger.DebugContext(r.Context(), "Ignoring invalid session token",
				slog.String("error", err.Error()),
			)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireParticipant rejects requests without a participant session.
func (g *Guard) RequireParticipant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Kind != authdomain.SubjectUser {
			httputil.WriteError(w, r, g.logger, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "sign in to continue"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects requests without a committee session.
func (g *Guard) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsStaff() {
			httputil.WriteError(w, r, g.logger, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "committee sign in required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability rejects staff sessions whose role lacks action. It
// implies RequireStaff.
func (g *Guard) RequireCapability(action authdomain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())
			if !claims.Can(action) {
				g.logger.WarnContext(r.Context(), "Capability denied",
					slog.String("role", claims.Role.String()),
					slog.String("action", string(action)),
					slog.String("subject", claims.Subject.String()),
				)
				httputil.WriteError(w, r, g.logger, apperrors.WithMetadata(
					apperrors.KindForbidden, apperrors.CodeCapabilityMissing, "your role cannot perform this action",
					map[string]any{"action": string(action)},
				))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// HandleSession returns the current session, or 401.
func (g *Guard) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := g.tracer.Start(r.Context(), "AuthHandlers.HandleSession")
	defer span.End()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		httputil.WriteError(w, r, g.logger, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "no active session"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"subject":      claims.Subject.String(),
		"kind":         claims.Kind,
		"email":        claims.Email,
		"role":         claims.Role,
		"capabilities": authdomain.Capabilities(claims.Role),
		"expiresAt":    claims.ExpiresAt,
	})
}

// SetSessionCookie writes the session token cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
