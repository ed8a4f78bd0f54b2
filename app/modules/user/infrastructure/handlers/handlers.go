package userhandlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	userservice "github.com/ieee-sb/thesandbox/app/modules/user/application"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/trace"
)

// StateCookie holds the OAuth state between redirect and callback.
const StateCookie = "sandbox_oauth_state"

// Options carries the cookie and redirect settings.
type Options struct {
	SecureCookies bool
	PublicBaseURL string
}

// UserHandlers implements the Handlers interface.
type UserHandlers struct {
	service userservice.Service
	opts    Options
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(
	service userservice.Service,
	opts Options,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &UserHandlers{
		service: service,
		opts:    opts,
		logger:  logger,
		tracer:  tracer,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin signs a participant in and sets the session cookie.
func (h *UserHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleLogin")
	defer span.End()

	var req credentials
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	session, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.writeSession(w, session)
}

// HandleLogout clears the session cookie.
func (h *UserHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	authhandlers.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleActivate consumes ?token= and activates the account.
func (h *UserHandlers) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleActivate")
	defer span.End()

	result, err := h.service.Activate(ctx, r.URL.Query().Get("token"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"activated": true,
		"user":      result,
	})
}

// HandleGoogleLogin redirects to the Google consent page.
func (h *UserHandlers) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	target, err := h.service.GoogleAuthURL(state)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((10 * time.Minute).Seconds()),
	})
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleGoogleCallback completes the OAuth flow and redirects to the
// dashboard.
func (h *UserHandlers) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleGoogleCallback")
	defer span.End()

	cookie, err := r.Cookie(StateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		httputil.WriteError(w, r, h.logger, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeInvalidCredentials, "sign-in state mismatch, please try again"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: StateCookie, Path: "/api/auth/google", MaxAge: -1})

	session, err := h.service.LoginWithGoogle(ctx, r.URL.Query().Get("code"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	authhandlers.SetSessionCookie(w, session.Token, time.Until(session.ExpiresAt), h.opts.SecureCookies)
	http.Redirect(w, r, strings.TrimRight(h.opts.PublicBaseURL, "/")+"/dashboard", http.StatusFound)
}

// HandleStaffLogin signs a committee member in.
func (h *UserHandlers) HandleStaffLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleStaffLogin")
	defer span.End()

	var req credentials
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	session, err := h.service.StaffLogin(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.writeSession(w, session)
}

// HandleListStaff lists committee accounts.
func (h *UserHandlers) HandleListStaff(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleListStaff")
	defer span.End()

	list, err := h.service.ListStaff(ctx)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"staff": list})
}

// HandleCreateStaff creates a committee account.
func (h *UserHandlers) HandleCreateStaff(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleCreateStaff")
	defer span.End()

	var input userservice.CreateStaffInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	claims, _ := authhandlers.ClaimsFromContext(ctx)
	info, err := h.service.CreateStaff(ctx, claims, input)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Staff account created",
		slog.String("staff_id", info.ID.String()),
		slog.String("role", info.Role.String()),
	)
	httputil.WriteJSON(w, http.StatusCreated, info)
}

// HandleDeactivateStaff disables a committee account.
func (h *UserHandlers) HandleDeactivateStaff(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleDeactivateStaff")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, apperrors.Validation("invalid staff id"))
		return
	}

	claims, _ := authhandlers.ClaimsFromContext(ctx)
	info, err := h.service.DeactivateStaff(ctx, claims, id)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *UserHandlers) writeSession(w http.ResponseWriter, session *userservice.Session) {
	authhandlers.SetSessionCookie(w, session.Token, time.Until(session.ExpiresAt), h.opts.SecureCookies)
	httputil.WriteJSON(w, http.StatusOK, session)
}
