package bundb

import (
	competitionmigrations "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories/migrations"
	paymentmigrations "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories/migrations"
	registrationmigrations "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories/migrations"
	submissionmigrations "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories/migrations"
	usermigrations "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is the migrator of one module. Each module keeps its own
// bookkeeping tables so groups roll back per module.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

var moduleMigrations = []struct {
	name       string
	migrations *migrate.Migrations
}{
	{"competition", competitionmigrations.Migrations},
	{"user", usermigrations.Migrations},
	{"registration", registrationmigrations.Migrations},
	{"submission", submissionmigrations.Migrations},
	{"payment", paymentmigrations.Migrations},
}

// Migrators returns the module migrators in dependency order. Rollback
// should walk the slice backwards.
func Migrators(db *bun.DB) []ModuleMigrator {
	out := make([]ModuleMigrator, 0, len(moduleMigrations))
	for _, m := range moduleMigrations {
		out = append(out, ModuleMigrator{
			Module: m.name,
			Migrator: migrate.NewMigrator(db, m.migrations,
				migrate.WithTableName(m.name+"_bun_migrations"),
				migrate.WithLocksTableName(m.name+"_bun_migration_locks"),
				migrate.WithMarkAppliedOnSuccess(true),
			),
		})
	}
	return out
}

// ModuleNames lists the modules with migrations, in apply order.
func ModuleNames() []string {
	names := make([]string, 0, len(moduleMigrations))
	for _, m := range moduleMigrations {
		names = append(names, m.name)
	}
	return names
}
