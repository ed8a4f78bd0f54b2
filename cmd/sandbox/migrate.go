package main

import (
	"fmt"
	"slices"
	"strings"

	notificationqueue "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/queue"
	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/db/bundb"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

// migrationDB connects with the unvalidated configuration so migrations can
// run before secrets are provisioned.
func migrationDB(c *cli.Context) (*config.Config, *bun.DB, error) {
	cfg, err := config.Read(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := bundb.Open(c.Context, cfg.Postgres.DSN, nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// selectMigrators narrows the migrators to --module when it is set.
func selectMigrators(c *cli.Context, db *bun.DB) ([]bundb.ModuleMigrator, error) {
	all := bundb.Migrators(db)
	name := c.String("module")
	if name == "" {
		return all, nil
	}
	for _, m := range all {
		if m.Module == name {
			return []bundb.ModuleMigrator{m}, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %s (one of %s)", name, strings.Join(bundb.ModuleNames(), ", "))
}

func migrateRiver(c *cli.Context, cfg *config.Config) error {
	pool, err := notificationqueue.Connect(c.Context, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	versions, err := notificationqueue.Migrate(c.Context, pool)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("No new River migrations to run")
	} else {
		fmt.Printf("Applied River migrations: %v\n", versions)
	}
	return nil
}

func newMigrateCommand() *cli.Command {
	moduleFlag := &cli.StringFlag{Name: "module", Usage: "limit to one module"}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					_, db, err := migrationDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					migrators, err := selectMigrators(c, db)
					if err != nil {
						return err
					}
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.Module)
						if err := m.Migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.Module, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "up",
				Usage: "apply pending module and River migrations",
				Flags: []cli.Flag{moduleFlag, &cli.BoolFlag{Name: "skip-river", Usage: "do not migrate the job queue schema"}},
				Action: func(c *cli.Context) error {
					cfg, db, err := migrationDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					migrators, err := selectMigrators(c, db)
					if err != nil {
						return err
					}
					for _, m := range migrators {
						if err := m.Migrator.Lock(c.Context); err != nil {
							return fmt.Errorf("lock %s: %w", m.Module, err)
						}
						group, err := m.Migrator.Migrate(c.Context)
						unlockErr := m.Migrator.Unlock(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", m.Module, err)
						}
						if unlockErr != nil {
							return fmt.Errorf("unlock %s: %w", m.Module, unlockErr)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.Module)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.Module, group)
						}
					}

					if c.Bool("skip-river") || c.IsSet("module") {
						return nil
					}
					return migrateRiver(c, cfg)
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of each module, newest module first",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					_, db, err := migrationDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					migrators, err := selectMigrators(c, db)
					if err != nil {
						return err
					}
					slices.Reverse(migrators)
					for _, m := range migrators {
						group, err := m.Migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.Module, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.Module)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.Module, group)
						}
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					_, db, err := migrationDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					moduleName := c.Args().First()
					for _, m := range bundb.Migrators(db) {
						if m.Module != moduleName {
							continue
						}
						name := strings.Join(c.Args().Tail(), "_")
						mf, err := m.Migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						return nil
					}
					return fmt.Errorf("invalid module name: %s", moduleName)
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					_, db, err := migrationDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					migrators, err := selectMigrators(c, db)
					if err != nil {
						return err
					}
					for _, m := range migrators {
						ms, err := m.Migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return fmt.Errorf("status %s: %w", m.Module, err)
						}
						fmt.Printf("Migrations for module: %s\n", m.Module)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}
