package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users, activate_tokens and staff tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					username          VARCHAR(64) NOT NULL,
					email             VARCHAR(255) NOT NULL,
					password_hash     VARCHAR(255),
					google_subject    VARCHAR(255),
					active            BOOLEAN NOT NULL DEFAULT false,
					email_verified_at TIMESTAMPTZ,
					created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (lower(username));
				CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));
				CREATE UNIQUE INDEX IF NOT EXISTS idx_users_google_subject ON users (google_subject) WHERE google_subject IS NOT NULL;
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS activate_tokens (
					token      VARCHAR(64) PRIMARY KEY,
					user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					expires_at TIMESTAMPTZ NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_activate_tokens_user_id ON activate_tokens(user_id);
				CREATE INDEX IF NOT EXISTS idx_activate_tokens_expires_at ON activate_tokens(expires_at);
			`); err != nil {
				return fmt.Errorf("failed to create activate_tokens table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS staff (
					id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					email         VARCHAR(255) NOT NULL,
					full_name     VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					role          VARCHAR(20) NOT NULL CHECK (role IN ('reviewer', 'admin', 'superadmin')),
					active        BOOLEAN NOT NULL DEFAULT true,
					last_login_at TIMESTAMPTZ,
					created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_staff_email ON staff (lower(email));
			`); err != nil {
				return fmt.Errorf("failed to create staff table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back users, activate_tokens and staff tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS activate_tokens;
				DROP TABLE IF EXISTS staff;
				DROP TABLE IF EXISTS users;
			`); err != nil {
				return fmt.Errorf("failed to drop user tables: %w", err)
			}
			return nil
		})
	})
}
