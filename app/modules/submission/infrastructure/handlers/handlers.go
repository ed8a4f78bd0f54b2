package submissionhandlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	submissionservice "github.com/ieee-sb/thesandbox/app/modules/submission/application"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// maxRequestSize bounds a whole multipart request: every slot at the
	// per-file limit plus form overhead.
	maxRequestSize = 4*submissiondomain.MaxFileSize + 1<<20
	// maxMemory is kept in memory before parts spill to temporary files.
	maxMemory    = 8 << 20
	maxListLimit = 200
)

// SubmissionHandlers implements the Handlers interface.
type SubmissionHandlers struct {
	service submissionservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewSubmissionHandlers creates a new SubmissionHandlers instance.
func NewSubmissionHandlers(
	service submissionservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &SubmissionHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleSubmit accepts a multipart upload for the {phase} of the caller's
// team. Each form file field names one slot of the phase.
func (h *SubmissionHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SubmissionHandlers.HandleSubmit")
	defer span.End()

	phase := chi.URLParam(r, "phase")
	span.SetAttributes(attribute.String("phase", phase))

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, h.logger, apperrors.New(apperrors.KindValidation, apperrors.CodeInvalidFile, "upload is too large"))
			return
		}
		httputil.WriteError(w, r, h.logger, apperrors.Wrap(apperrors.KindValidation, apperrors.CodeInvalidInput, "expected a multipart form", err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.WarnContext(ctx, "Failed to remove multipart temp files", slog.Any("error", err))
		}
	}()

	input := submissionservice.SubmitInput{}
	if raw := r.FormValue("registrationId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, r, h.logger, apperrors.Validation("invalid registration id"))
			return
		}
		input.RegistrationID = id
	}

	files, closeAll, err := openParts(r.MultipartForm)
	defer closeAll()
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	input.Files = files

	claims, _ := authhandlers.ClaimsFromContext(ctx)
	view, err := h.service.Submit(ctx, claims, phase, input)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Submission stored",
		slog.String("submission_id", view.ID.String()),
		slog.String("phase", view.Phase),
		slog.Int("files", len(view.Files)),
		slog.Bool("replaced", view.Replaced),
	)
	status := http.StatusCreated
	if view.Replaced {
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, map[string]any{
		"message":    "submission received",
		"submission": view,
	})
}

// openParts opens the first file of every form field in field order. The
// returned close function is always safe to call.
func openParts(form *multipart.Form) ([]submissionservice.FileUpload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	uploads := make([]submissionservice.FileUpload, 0, len(fields))
	for _, field := range fields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		if len(headers) > 1 {
			return nil, closeAll, apperrors.New(apperrors.KindValidation, apperrors.CodeInvalidFile, field+" accepts a single file")
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, apperrors.Wrap(apperrors.KindValidation, apperrors.CodeInvalidFile, "could not read "+field, err)
		}
		opened = append(opened, f)
		uploads = append(uploads, submissionservice.FileUpload{
			Upload: submissiondomain.Upload{
				Field:       field,
				FileName:    fh.Filename,
				Size:        fh.Size,
				ContentType: fh.Header.Get("Content-Type"),
			},
			Body: f,
		})
	}
	return uploads, closeAll, nil
}

// HandleMySubmissions returns the caller's submissions and the current
// requirements.
func (h *SubmissionHandlers) HandleMySubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SubmissionHandlers.HandleMySubmissions")
	defer span.End()

	claims, ok := authhandlers.ClaimsFromContext(ctx)
	if !ok {
		httputil.WriteError(w, r, h.logger, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeSessionRequired, "sign in to continue"))
		return
	}

	out, err := h.service.ListForUser(ctx, claims.Subject)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleListSubmissions lists the submissions of {phase}. Supports
// ?competition=, ?status=, ?limit= and ?offset=.
func (h *SubmissionHandlers) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SubmissionHandlers.HandleListSubmissions")
	defer span.End()

	q := r.URL.Query()
	filter := submissionservice.ListFilter{
		Phase:           chi.URLParam(r, "phase"),
		Status:          q.Get("status"),
		CompetitionCode: q.Get("competition"),
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

	list, err := h.service.List(ctx, filter)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"submissions": list, "count": len(list)})
}

// HandleApprove approves a pending submission.
func (h *SubmissionHandlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, submissiondomain.DecisionApprove)
}

// HandleReject rejects a pending submission.
func (h *SubmissionHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, submissiondomain.DecisionReject)
}

func (h *SubmissionHandlers) review(w http.ResponseWriter, r *http.Request, decision submissiondomain.Decision) {
	ctx, span := h.tracer.Start(r.Context(), "SubmissionHandlers.Review")
	defer span.End()

	phase := chi.URLParam(r, "phase")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, apperrors.Validation("invalid submission id"))
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
	view, err := h.service.Review(ctx, claims, phase, id, submissionservice.ReviewInput{Decision: decision, Notes: body.Notes})
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Submission reviewed",
		slog.String("submission_id", id.String()),
		slog.String("phase", phase),
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
