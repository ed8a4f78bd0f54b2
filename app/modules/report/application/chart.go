package reportservice

import (
	"bytes"
	"context"
	"fmt"
	"io"

	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var statusColors = []struct {
	status registrationdomain.VerificationStatus
	color  drawing.Color
}{
	{registrationdomain.VerificationApproved, drawing.ColorFromHex("2E7D32")},
	{registrationdomain.VerificationPending, drawing.ColorFromHex("F9A825")},
	{registrationdomain.VerificationRejected, drawing.ColorFromHex("C62828")},
}

// StatusCount is the number of registrations of one competition in one
// verification status.
type StatusCount struct {
	Competition string
	Counts      map[registrationdomain.VerificationStatus]int
}

// RegistrationChart writes the registrations chart to w: one bar per
// competition and verification status.
func (s *ReportService) RegistrationChart(ctx context.Context, w io.Writer) error {
	_, err := operation.Unwrap(operation.Run(s.runner, ctx, "RegistrationChart", "",
		func(ctx context.Context) (results.OperationResult[struct{}, error], error) {
			ds, err := s.load(ctx, ExportFilter{})
			if err != nil {
				return operation.Fail[struct{}](err)
			}

			png, err := renderChart(countByStatus(ds))
			if err != nil {
				return results.OperationResult[struct{}, error]{}, fmt.Errorf("render chart: %w", err)
			}
			if _, err := w.Write(png); err != nil {
				return results.OperationResult[struct{}, error]{}, fmt.Errorf("write chart: %w", err)
			}
			return operation.Succeed(struct{}{})
		}))
	return err
}

func countByStatus(ds *dataset) []StatusCount {
	out := make([]StatusCount, 0, len(ds.competitions))
	for _, c := range ds.competitions {
		sc := StatusCount{Competition: c.Code, Counts: map[registrationdomain.VerificationStatus]int{}}
		for _, r := range ds.byCompetition[c.ID] {
			sc.Counts[registrationdomain.VerificationStatus(r.VerificationStatus)]++
		}
		out = append(out, sc)
	}
	return out
}

func renderChart(counts []StatusCount) ([]byte, error) {
	maxCount := 0
	for _, c := range counts {
		for _, n := range c.Counts {
			maxCount = max(maxCount, n)
		}
	}
	if maxCount == 0 {
		return renderNoDataPlaceholder()
	}

	bars := make([]chart.Value, 0, len(counts)*len(statusColors))
	for _, c := range counts {
		for _, sc := range statusColors {
			bars = append(bars, chart.Value{
				Label: fmt.Sprintf("%s %s", c.Competition, sc.status),
				Value: float64(c.Counts[sc.status]),
				Style: chart.Style{FillColor: sc.color, StrokeColor: sc.color},
			})
		}
	}

	graph := chart.BarChart{
		Title:  "Registrations by competition",
		Width:  max(800, 90*len(bars)),
		Height: 480,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:     50,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws straight onto a PNG renderer since go-chart
// refuses to render a chart without series.
func renderNoDataPlaceholder() ([]byte, error) {
	const (
		msg    = "No registrations yet"
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.FillStroke()

	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
