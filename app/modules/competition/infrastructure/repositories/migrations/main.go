package competitionmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the competition module migrations.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
