// Package testutils starts the containers and seeds data for the
// integration tests.
package testutils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ieee-sb/thesandbox/config"
	"github.com/ieee-sb/thesandbox/db/bundb"
	"github.com/ieee-sb/thesandbox/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds the resources shared by one integration package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	DB            *bun.DB
	Config        *config.Config
}

// NewTestEnvironment starts Postgres, connects and migrates.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	startCtx, startCancel := context.WithTimeout(ctx, 2*time.Minute)
	defer startCancel()

	pgContainer, dsn, err := containers.SetupPostgresContainer(startCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer

	db, err := bundb.Open(startCtx, dsn, nil)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	env.DB = db

	if err := runMigrations(startCtx, db, dsn); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn},
		Queue:    config.QueueConfig{Enabled: false},
	}
	return env, nil
}

// Reset empties every table except the seeded competitions.
func (env *TestEnvironment) Reset() error {
	return truncateAll(env.Ctx, env.DB)
}

// Cleanup closes the database and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := testcontainers.TerminateContainer(env.PgContainer); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	}
	env.CancelContext()
}
