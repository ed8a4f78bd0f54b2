package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ieee-sb/thesandbox/app/modules/competition"
	competitionservice "github.com/ieee-sb/thesandbox/app/modules/competition/application"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	competitionschedule "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/schedule"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/urfave/cli/v2"
)

// scheduleFlags maps flag names to the schedule field they set.
var scheduleFlags = []struct {
	name string
	set  func(d *competitiondomain.Dates, t time.Time)
}{
	{"registration-open", func(d *competitiondomain.Dates, t time.Time) { d.RegistrationOpen = t }},
	{"registration-deadline", func(d *competitiondomain.Dates, t time.Time) { d.RegistrationDeadline = t }},
	{"preliminary-start", func(d *competitiondomain.Dates, t time.Time) { d.PreliminaryStart = t }},
	{"preliminary-deadline", func(d *competitiondomain.Dates, t time.Time) { d.PreliminaryDeadline = t }},
	{"semifinal-start", func(d *competitiondomain.Dates, t time.Time) { d.SemifinalStart = t }},
	{"semifinal-deadline", func(d *competitiondomain.Dates, t time.Time) { d.SemifinalDeadline = t }},
	{"final-start", func(d *competitiondomain.Dates, t time.Time) { d.FinalStart = &t }},
	{"final-deadline", func(d *competitiondomain.Dates, t time.Time) { d.FinalDeadline = &t }},
	{"grand-final", func(d *competitiondomain.Dates, t time.Time) { d.GrandFinal = &t }},
}

func newCompetitionCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "timezone", Value: "WIB", Usage: "WIB, WITA, WIT, UTC or an IANA zone for dates without an offset"},
		&cli.Int64Flag{Name: "fee", Value: -1, Usage: "registration fee in rupiah"},
	}
	for _, f := range scheduleFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name})
	}

	return &cli.Command{
		Name:  "competition",
		Usage: "inspect and schedule competitions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print every competition with its current phase",
				Action: func(c *cli.Context) error {
					svc, closeFn, err := competitionService(c)
					if err != nil {
						return err
					}
					defer closeFn()

					list, err := svc.ListCompetitions(c.Context, false)
					if err != nil {
						return err
					}

					tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "CODE\tNAME\tACTIVE\tPHASE\tFEE")
					for _, comp := range list {
						fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%d\n", comp.Code, comp.Name, comp.IsActive, comp.Status.PhaseLabel, comp.RegistrationFee)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "schedule",
				Usage:     "update the schedule of a competition; unset flags keep their value",
				ArgsUsage: "<code>",
				Flags:     flags,
				Action: func(c *cli.Context) error {
					code := strings.ToUpper(c.Args().First())
					if code == "" {
						return fmt.Errorf("competition code is required")
					}
					parser := competitionschedule.NewParser(clock.RealClock{})
					tz := c.String("timezone")
					if _, err := parser.Location(tz); err != nil {
						return err
					}

					svc, closeFn, err := competitionService(c)
					if err != nil {
						return err
					}
					defer closeFn()

					current, err := svc.GetCompetition(c.Context, code)
					if err != nil {
						return err
					}

					update := competitionservice.SettingsUpdate{Dates: current.Dates}
					for _, f := range scheduleFlags {
						if !c.IsSet(f.name) {
							continue
						}
						t, err := parser.Parse(c.String(f.name), tz)
						if err != nil {
							return fmt.Errorf("--%s: %w", f.name, err)
						}
						f.set(&update.Dates, t.UTC())
					}
					if fee := c.Int64("fee"); fee >= 0 {
						update.RegistrationFee = &fee
					}

					info, err := svc.UpdateSettings(c.Context, code, update)
					if err != nil {
						return err
					}
					fmt.Printf("Updated %s, current phase: %s\n", info.Code, info.Status.PhaseLabel)
					return nil
				},
			},
		},
	}
}

func competitionService(c *cli.Context) (competitionservice.Service, func(), error) {
	_, obs, db, err := openDB(c)
	if err != nil {
		return nil, nil, err
	}
	mod, err := competition.NewCompetitionModule(c.Context, obs, db, nil, nil, clock.RealClock{})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return mod.CompetitionService, func() { db.Close() }, nil
}
