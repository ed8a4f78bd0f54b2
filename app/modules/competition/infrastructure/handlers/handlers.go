package competitionhandlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	competitionservice "github.com/ieee-sb/thesandbox/app/modules/competition/application"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/trace"
)

// CompetitionHandlers implements the Handlers interface.
type CompetitionHandlers struct {
	service competitionservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewCompetitionHandlers creates a new CompetitionHandlers instance.
func NewCompetitionHandlers(
	service competitionservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &CompetitionHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleListCompetitions lists competitions. ?all=true includes inactive ones.
func (h *CompetitionHandlers) HandleListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleListCompetitions")
	defer span.End()

	activeOnly := r.URL.Query().Get("all") != "true"
	list, err := h.service.ListCompetitions(ctx, activeOnly)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"competitions": list})
}

// HandleGetCompetition returns one competition.
func (h *CompetitionHandlers) HandleGetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleGetCompetition")
	defer span.End()

	info, err := h.service.GetCompetition(ctx, chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, info)
}

// HandleGetPhaseStatus returns the current phase of a competition.
func (h *CompetitionHandlers) HandleGetPhaseStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleGetPhaseStatus")
	defer span.End()

	info, err := h.service.GetPhaseStatus(ctx, chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, info)
}

// HandleUpdateSettings replaces the schedule of a competition.
func (h *CompetitionHandlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompetitionHandlers.HandleUpdateSettings")
	defer span.End()

	var update competitionservice.SettingsUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	code := chi.URLParam(r, "code")
	info, err := h.service.UpdateSettings(ctx, code, update)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Competition settings updated",
		slog.String("code", code),
	)
	httputil.WriteJSON(w, http.StatusOK, info)
}
