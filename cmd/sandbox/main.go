// Command sandbox runs the competition platform server and its maintenance
// commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ieee-sb/thesandbox/app"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/db/bundb"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cliApp := &cli.App{
		Name:  "sandbox",
		Usage: "IEEE competition platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SANDBOX_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newCompetitionCommand(),
			newStaffCommand(),
			newExportCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, event consumers and background jobs",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			obs := observability.New(config.ToObsConfig(cfg))

			application, err := app.NewApp(c.Context, cfg, obs)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			defer application.Close()

			return application.Run(c.Context)
		},
	}
}

// openDB loads the validated configuration and connects. Commands that
// build modules need the full configuration.
func openDB(c *cli.Context) (*config.Config, observability.Observability, *bun.DB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	obs := observability.NewWithWriter(config.ToObsConfig(cfg), os.Stderr)
	db, err := bundb.Open(c.Context, cfg.Postgres.DSN, nil)
	if err != nil {
		return nil, observability.Observability{}, nil, err
	}
	return cfg, obs, db, nil
}
