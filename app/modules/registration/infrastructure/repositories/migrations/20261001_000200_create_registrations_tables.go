package registrationmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating registrations, teams and team_members tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS registrations (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
					competition_id UUID NOT NULL REFERENCES competitions(id),
					verification_status VARCHAR(16) NOT NULL DEFAULT 'pending',
					current_phase VARCHAR(32) NOT NULL DEFAULT 'registration',
					is_preliminary_qualified BOOLEAN NOT NULL DEFAULT FALSE,
					is_semifinal_qualified BOOLEAN NOT NULL DEFAULT FALSE,
					reviewed_by UUID REFERENCES staff(id),
					reviewed_at TIMESTAMPTZ,
					review_notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT chk_registrations_status CHECK (verification_status IN ('pending', 'approved', 'rejected')),
					CONSTRAINT chk_registrations_phase CHECK (current_phase IN ('registration', 'preliminary', 'semifinal', 'final', 'completed'))
				);

				CREATE INDEX IF NOT EXISTS idx_registrations_competition ON registrations(competition_id, verification_status);

				CREATE TABLE IF NOT EXISTS teams (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					registration_id UUID NOT NULL UNIQUE REFERENCES registrations(id) ON DELETE CASCADE,
					team_name VARCHAR(100) NOT NULL,
					institution VARCHAR(200) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);

				CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_team_name ON teams(lower(team_name));

				CREATE TABLE IF NOT EXISTS team_members (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					full_name VARCHAR(200) NOT NULL,
					email VARCHAR(255) NOT NULL,
					phone_number VARCHAR(32) NOT NULL,
					role VARCHAR(16) NOT NULL,
					position INT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_team_members_position UNIQUE (team_id, position)
				);

				CREATE UNIQUE INDEX IF NOT EXISTS idx_team_members_email ON team_members(lower(email));
			`); err != nil {
				return fmt.Errorf("failed to create registration tables: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping registrations, teams and team_members tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS team_members CASCADE;
				DROP TABLE IF EXISTS teams CASCADE;
				DROP TABLE IF EXISTS registrations CASCADE;
			`); err != nil {
				return fmt.Errorf("failed to drop registration tables: %w", err)
			}
			return nil
		})
	})
}
