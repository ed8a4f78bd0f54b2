package reporthandlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	reportservice "github.com/ieee-sb/thesandbox/app/modules/report/application"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/httputil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandlers implements the Handlers interface.
type ReportHandlers struct {
	service reportservice.Service
	clock   clock.Clock
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewReportHandlers creates a new ReportHandlers instance.
func NewReportHandlers(
	service reportservice.Service,
	clk clock.Clock,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ReportHandlers{
		service: service,
		clock:   clk,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleExportRegistrations streams the registrations workbook. The workbook
// is rendered into memory first so a failure still produces a JSON error.
func (h *ReportHandlers) HandleExportRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReportHandlers.HandleExportRegistrations")
	defer span.End()

	q := r.URL.Query()
	filter := reportservice.ExportFilter{
		CompetitionCode:    q.Get("competition"),
		VerificationStatus: q.Get("status"),
	}

	var buf bytes.Buffer
	summary, err := h.service.ExportRegistrations(ctx, filter, &buf)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	span.SetAttributes(attribute.Int("report.rows", summary.Rows))

	name := "registrations"
	if filter.CompetitionCode != "" {
		name += "-" + strings.ToLower(filter.CompetitionCode)
	}
	name += "-" + h.clock.Now().UTC().Format("20060102") + ".xlsx"

	writeFile(w, xlsxContentType, fmt.Sprintf("attachment; filename=%q", name), buf.Bytes())
}

// HandleRegistrationChart returns the registrations chart as a PNG.
func (h *ReportHandlers) HandleRegistrationChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReportHandlers.HandleRegistrationChart")
	defer span.End()

	var buf bytes.Buffer
	if err := h.service.RegistrationChart(ctx, &buf); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	writeFile(w, "image/png", "inline", buf.Bytes())
}

func writeFile(w http.ResponseWriter, contentType, disposition string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
