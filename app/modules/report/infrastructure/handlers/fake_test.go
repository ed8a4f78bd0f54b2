package reporthandlers

import (
	"context"
	"io"

	reportservice "github.com/ieee-sb/thesandbox/app/modules/report/application"
)

// -------------------
// Fake Report Service
// -------------------

type FakeReportService struct {
	ExportRegistrationsFunc func(ctx context.Context, filter reportservice.ExportFilter, w io.Writer) (*reportservice.ExportSummary, error)
	RegistrationChartFunc   func(ctx context.Context, w io.Writer) error
}

func NewFakeReportService() *FakeReportService {
	return &FakeReportService{}
}

func (f *FakeReportService) ExportRegistrations(ctx context.Context, filter reportservice.ExportFilter, w io.Writer) (*reportservice.ExportSummary, error) {
	if f.ExportRegistrationsFunc != nil {
		return f.ExportRegistrationsFunc(ctx, filter, w)
	}
	return &reportservice.ExportSummary{}, nil
}

func (f *FakeReportService) RegistrationChart(ctx context.Context, w io.Writer) error {
	if f.RegistrationChartFunc != nil {
		return f.RegistrationChartFunc(ctx, w)
	}
	return nil
}

var _ reportservice.Service = (*FakeReportService)(nil)
