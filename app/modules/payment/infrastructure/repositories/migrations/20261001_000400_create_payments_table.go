package paymentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating payments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS payments (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					registration_id UUID NOT NULL UNIQUE REFERENCES registrations(id) ON DELETE CASCADE,
					amount BIGINT NOT NULL CHECK (amount >= 0),
					proof_key TEXT NOT NULL,
					proof_url TEXT NOT NULL,
					proof_file_name TEXT NOT NULL,
					status VARCHAR(16) NOT NULL DEFAULT 'pending',
					submitted_at TIMESTAMPTZ NOT NULL,
					reviewed_by UUID REFERENCES staff(id),
					reviewed_at TIMESTAMPTZ,
					review_notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT chk_payments_status CHECK (status IN ('pending', 'verified', 'rejected'))
				);

				CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
			`); err != nil {
				return fmt.Errorf("failed to create payments table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping payments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS payments CASCADE;`); err != nil {
				return fmt.Errorf("failed to drop payments table: %w", err)
			}
			return nil
		})
	})
}
