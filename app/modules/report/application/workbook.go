package reportservice

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/xuri/excelize/v2"
)

var workbookHeader = []any{
	"No", "Registered At", "Team", "Institution", "Verification", "Phase", "Payment",
	"Leader", "Leader Email", "Leader Phone", "Members", "Member Emails", "Member Phones",
}

// ExportRegistrations writes the registrations workbook to w.
func (s *ReportService) ExportRegistrations(ctx context.Context, filter ExportFilter, w io.Writer) (*ExportSummary, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ExportRegistrations", filter.CompetitionCode,
		func(ctx context.Context) (results.OperationResult[*ExportSummary, error], error) {
			ds, err := s.load(ctx, filter)
			if err != nil {
				return operation.Fail[*ExportSummary](err)
			}

			f, summary, err := buildWorkbook(ds)
			if err != nil {
				return results.OperationResult[*ExportSummary, error]{}, err
			}
			defer f.Close()

			if err := f.Write(w); err != nil {
				return results.OperationResult[*ExportSummary, error]{}, fmt.Errorf("write workbook: %w", err)
			}
			return operation.Succeed(summary)
		}))
}

func buildWorkbook(ds *dataset) (*excelize.File, *ExportSummary, error) {
	f := excelize.NewFile()
	summary := &ExportSummary{}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("create header style: %w", err)
	}

	sheets := make([]string, 0, len(ds.competitions))
	for _, c := range ds.competitions {
		sheets = append(sheets, c.Code)
	}
	if len(sheets) == 0 {
		sheets = append(sheets, "Registrations")
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		var regs []*registrationdb.Registration
		if i < len(ds.competitions) {
			regs = ds.byCompetition[ds.competitions[i].ID]
		}
		if err := writeSheet(f, sheet, headerStyle, regs, ds.paymentStatus); err != nil {
			f.Close()
			return nil, nil, err
		}
		summary.Sheets = append(summary.Sheets, sheet)
		summary.Rows += len(regs)
	}

	f.SetActiveSheet(0)
	return f, summary, nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, regs []*registrationdb.Registration, paymentStatus map[uuid.UUID]string) error {
	if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(workbookHeader))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 6); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 24); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for i, r := range regs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := registrationRow(i+1, r, paymentStatus[r.ID])
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(regs)+1), nil); err != nil {
		return fmt.Errorf("add filter: %w", err)
	}
	return nil
}

func registrationRow(n int, r *registrationdb.Registration, payment string) []any {
	if payment == "" {
		payment = "not submitted"
	}
	row := []any{
		n,
		r.CreatedAt.UTC().Format(time.DateTime),
		"", "",
		r.VerificationStatus,
		r.CurrentPhase,
		payment,
		"", "", "",
		"", "", "",
	}
	if r.Team == nil {
		return row
	}

	row[2], row[3] = r.Team.TeamName, r.Team.Institution
	var names, emails, phones []string
	for _, m := range r.Team.Members {
		if m.Position == 0 {
			row[7], row[8], row[9] = m.FullName, m.Email, m.PhoneNumber
			continue
		}
		names = append(names, m.FullName)
		emails = append(emails, m.Email)
		phones = append(phones, m.PhoneNumber)
	}
	row[10] = strings.Join(names, "\n")
	row[11] = strings.Join(emails, "\n")
	row[12] = strings.Join(phones, "\n")
	return row
}
