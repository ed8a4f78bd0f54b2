package paymentmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the payment module migrations.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
