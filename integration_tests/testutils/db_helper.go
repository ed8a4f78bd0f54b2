package testutils

import (
	"context"
	"fmt"

	notificationqueue "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/queue"
	"github.com/ieee-sb/thesandbox/db/bundb"
	"github.com/uptrace/bun"
)

// truncateTables lists every table a test can write, children first.
var truncateTables = []string{
	"payments",
	"submissions",
	"team_members",
	"teams",
	"registrations",
	"activate_tokens",
	"staff",
	"users",
}

// runMigrations applies every module migration in dependency order, then
// the River schema.
func runMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	for _, m := range bundb.Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", m.Module, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("run %s migrations: %w", m.Module, err)
		}
	}

	pool, err := notificationqueue.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	if _, err := notificationqueue.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("run River migrations: %w", err)
	}
	return nil
}

// truncateAll empties the participant and staff tables. The seeded
// competitions are kept.
func truncateAll(ctx context.Context, db bun.IDB) error {
	for _, table := range truncateTables {
		if _, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
