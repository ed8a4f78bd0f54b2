package registrationhandlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	registrationservice "github.com/ieee-sb/thesandbox/app/modules/registration/application"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxListLimit = 200

// RegistrationHandlers implements the Handlers interface.
type RegistrationHandlers struct {
	service registrationservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRegistrationHandlers creates a new RegistrationHandlers instance.
func NewRegistrationHandlers(
	service registrationservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &RegistrationHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleRegister admits a team.
func (h *RegistrationHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RegistrationHandlers.HandleRegister")
	defer span.End()

	var req registrationdomain.AdmissionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	span.SetAttributes(attribute.String("competition", req.CompetitionCode))

	res, err := h.service.AdmitTeam(ctx, req)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Team registered",
		slog.String("registration_id", res.RegistrationID.String()),
		slog.String("competition", res.CompetitionCode),
		slog.Int("members", res.MemberCount),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":      "registration received",
		"registration": res,
	})
}

// HandleLookup answers whether ?email= is already registered.
func (h *RegistrationHandlers) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RegistrationHandlers.HandleLookup")
	defer span.End()

	res, err := h.service.LookupByEmail(ctx, r.URL.Query().Get("email"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleMyRegistration returns the caller's registration.
func (h *RegistrationHandlers) HandleMyRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RegistrationHandlers.HandleMyRegistration")
	defer span.End()

	claims, ok := authhandlers.ClaimsFromContext(ctx)
	if !ok {
		httputil.WriteError(w, r, h.logger, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "sign in to continue"))
		return
	}

	view, err := h.service.GetForUser(ctx, claims.Subject)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleListRegistrations lists registrations for staff. Supports
// ?competition=, ?status=, ?phase=, ?limit= and ?offset=.
func (h *RegistrationHandlers) HandleListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RegistrationHandlers.HandleListRegistrations")
	defer span.End()

	q := r.URL.Query()
	filter := registrationservice.ListFilter{
		CompetitionCode:    q.Get("competition"),
		VerificationStatus: q.Get("status"),
		CurrentPhase:       q.Get("phase"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit"), 50); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	list, err := h.service.ListRegistrations(ctx, filter)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"registrations": list, "count": len(list)})
}

// HandleApprove approves a pending registration.
func (h *RegistrationHandlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, registrationdomain.DecisionApprove)
}

// HandleReject rejects a pending registration.
func (h *RegistrationHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, registrationdomain.DecisionReject)
}

func (h *RegistrationHandlers) review(w http.ResponseWriter, r *http.Request, decision registrationdomain.Decision) {
	ctx, span := h.tracer.Start(r.Context(), "RegistrationHandlers.Review")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, apperrors.Validation("invalid registration id"))
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
			httputil.WriteError(w, r, h.logger, err)
			return
		}
	}

	claims, _ := authhandlers.ClaimsFromContext(ctx)
	view, err := h.service.ReviewRegistration(ctx, claims, id, registrationservice.ReviewInput{Decision: decision, Notes: body.Notes})
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Registration reviewed",
		slog.String("registration_id", id.String()),
		slog.String("decision", string(decision)),
	)
	httputil.WriteJSON(w, http.StatusOK, view)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.Validation("pagination parameters must be non-negative integers")
	}
	return n, nil
}
