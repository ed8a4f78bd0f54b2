package main

import (
	"fmt"
	"os"
	"time"

	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/app/modules/payment"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/app/modules/report"
	reportservice "github.com/ieee-sb/thesandbox/app/modules/report/application"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/urfave/cli/v2"
)

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write reports to files",
		Subcommands: []*cli.Command{
			{
				Name:  "registrations",
				Usage: "write the registrations workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "competition", Usage: "only this competition code"},
					&cli.StringFlag{Name: "status", Usage: "only this verification status"},
					&cli.StringFlag{Name: "out", Usage: "workbook path (default registrations-<date>.xlsx)"},
					&cli.StringFlag{Name: "chart", Usage: "also write the registrations chart PNG here"},
				},
				Action: func(c *cli.Context) error {
					_, obs, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					mod, err := report.NewReportModule(c.Context, obs, nil, nil, report.Dependencies{
						Competitions:  competitiondb.NewRepository(db),
						Registrations: registrationdb.NewRepository(db),
						Payments:      payment.NewRepository(db),
					}, clock.RealClock{})
					if err != nil {
						return err
					}

					out := c.String("out")
					if out == "" {
						out = fmt.Sprintf("registrations-%s.xlsx", time.Now().Format("20060102"))
					}
					summary, err := writeFile(out, func(f *os.File) (*reportservice.ExportSummary, error) {
						return mod.ReportService.ExportRegistrations(c.Context, reportservice.ExportFilter{
							CompetitionCode:    c.String("competition"),
							VerificationStatus: c.String("status"),
						}, f)
					})
					if err != nil {
						return err
					}
					fmt.Printf("Wrote %d registrations across %v to %s\n", summary.Rows, summary.Sheets, out)

					if chart := c.String("chart"); chart != "" {
						if _, err := writeFile(chart, func(f *os.File) (struct{}, error) {
							return struct{}{}, mod.ReportService.RegistrationChart(c.Context, f)
						}); err != nil {
							return err
						}
						fmt.Printf("Wrote chart to %s\n", chart)
					}
					return nil
				},
			},
		},
	}
}

// writeFile creates path, runs fn and removes the file again when fn fails.
func writeFile[T any](path string, fn func(f *os.File) (T, error)) (T, error) {
	var zero T
	f, err := os.Create(path)
	if err != nil {
		return zero, err
	}
	v, err := fn(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return zero, err
	}
	return v, nil
}
