package submissionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating submissions table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS submissions (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					registration_id UUID NOT NULL REFERENCES registrations(id) ON DELETE CASCADE,
					phase VARCHAR(32) NOT NULL,
					status VARCHAR(16) NOT NULL DEFAULT 'pending',
					files JSONB NOT NULL DEFAULT '[]',
					submitted_by UUID NOT NULL REFERENCES users(id),
					submitted_at TIMESTAMPTZ NOT NULL,
					reviewed_by UUID REFERENCES staff(id),
					reviewed_at TIMESTAMPTZ,
					review_notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_submissions_registration_phase UNIQUE (registration_id, phase),
					CONSTRAINT chk_submissions_phase CHECK (phase IN ('preliminary', 'semifinal', 'final')),
					CONSTRAINT chk_submissions_status CHECK (status IN ('pending', 'qualified', 'approved', 'rejected'))
				);

				CREATE INDEX IF NOT EXISTS idx_submissions_phase_status ON submissions(phase, status);
			`); err != nil {
				return fmt.Errorf("failed to create submissions table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping submissions table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS submissions CASCADE;`); err != nil {
				return fmt.Errorf("failed to drop submissions table: %w", err)
			}
			return nil
		})
	})
}
