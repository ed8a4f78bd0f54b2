package reportservice

import (
	"context"
	"io"
)

// Service renders registration reports for staff.
type Service interface {
	// ExportRegistrations writes an xlsx workbook with one sheet per
	// competition.
	ExportRegistrations(ctx context.Context, filter ExportFilter, w io.Writer) (*ExportSummary, error)

	// RegistrationChart writes a PNG bar chart of registrations per
	// competition and verification status.
	RegistrationChart(ctx context.Context, w io.Writer) error
}

// ExportFilter narrows an export. Empty fields match everything.
type ExportFilter struct {
	CompetitionCode    string
	VerificationStatus string
}

// ExportSummary describes a written workbook.
type ExportSummary struct {
	Sheets []string `json:"sheets"`
	Rows   int      `json:"rows"`
}
