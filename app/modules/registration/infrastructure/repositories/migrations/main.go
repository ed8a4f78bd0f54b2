package registrationmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the registration module migrations.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
