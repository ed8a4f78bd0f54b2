package paymenthandlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	paymentservice "github.com/ieee-sb/thesandbox/app/modules/payment/application"
	paymentdomain "github.com/ieee-sb/thesandbox/app/modules/payment/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxRequestSize = paymentdomain.MaxProofSize + 1<<20
	maxListLimit   = 200
)

// PaymentHandlers implements the Handlers interface.
type PaymentHandlers struct {
	service paymentservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPaymentHandlers creates a new PaymentHandlers instance.
func NewPaymentHandlers(
	service paymentservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &PaymentHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleSubmitProof accepts a multipart form with a "proof" file and an
// optional "registrationId".
func (h *PaymentHandlers) HandleSubmitProof(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleSubmitProof")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, h.logger, apperrors.New(apperrors.KindValidation, apperrors.CodeInvalidFile, "upload is too large"))
			return
		}
		httputil.WriteError(w, r, h.logger, apperrors.Wrap(apperrors.KindValidation, apperrors.CodeInvalidInput, "expected a multipart form", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var input paymentservice.ProofInput
	if raw := r.FormValue("registrationId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, r, h.logger, apperrors.Validation("invalid registration id"))
			return
		}
		input.RegistrationID = id
	}

	file, header, err := r.FormFile("proof")
	if err != nil {
		httputil.WriteError(w, r, h.logger, apperrors.New(apperrors.KindValidation, apperrors.CodeInvalidFile, "proof is required"))
		return
	}
	defer file.Close()
	input.FileName = header.Filename
	input.Size = header.Size
	input.ContentType = header.Header.Get("Content-Type")
	input.Body = file

	claims, _ := authhandlers.ClaimsFromContext(ctx)
	view, err := h.service.SubmitProof(ctx, claims, input)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Payment proof stored",
		slog.String("payment_id", view.ID.String()),
		slog.String("registration_id", view.RegistrationID.String()),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "payment proof received",
		"payment": view,
	})
}

// HandleMyPayment returns the caller's payment proof.
func (h *PaymentHandlers) HandleMyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleMyPayment")
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

// HandleListPayments lists payment proofs. Supports ?status=,
// ?competition=, ?limit= and ?offset=.
func (h *PaymentHandlers) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleListPayments")
	defer span.End()

	q := r.URL.Query()
	filter := paymentservice.ListFilter{
		Status:          q.Get("status"),
		CompetitionCode: q.Get("competition"),
		Limit:           50,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, r, h.logger, apperrors.Validation("limit must be a non-negative integer"))
			return
		}
		filter.Limit = min(n, maxListLimit)
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, r, h.logger, apperrors.Validation("offset must be a non-negative integer"))
			return
		}
		filter.Offset = n
	}

	list, err := h.service.List(ctx, filter)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"payments": list, "count": len(list)})
}

// HandleVerify verifies a pending proof.
func (h *PaymentHandlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, paymentdomain.DecisionVerify)
}

// HandleReject rejects a pending proof.
func (h *PaymentHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, paymentdomain.DecisionReject)
}

func (h *PaymentHandlers) review(w http.ResponseWriter, r *http.Request, decision paymentdomain.Decision) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.Review")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, apperrors.Validation("invalid payment id"))
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
	view, err := h.service.Review(ctx, claims, id, paymentservice.ReviewInput{Decision: decision, Notes: body.Notes})
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Payment reviewed",
		slog.String("payment_id", id.String()),
		slog.String("decision", string(decision)),
	)
	httputil.WriteJSON(w, http.StatusOK, view)
}
