package competitionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competitions table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS competitions (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					code VARCHAR(16) NOT NULL UNIQUE,
					name VARCHAR(200) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					min_team_size INT NOT NULL,
					max_team_size INT NOT NULL,
					registration_fee BIGINT NOT NULL DEFAULT 0,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					registration_open TIMESTAMPTZ NOT NULL,
					registration_deadline TIMESTAMPTZ NOT NULL,
					preliminary_start TIMESTAMPTZ NOT NULL,
					preliminary_deadline TIMESTAMPTZ NOT NULL,
					semifinal_start TIMESTAMPTZ NOT NULL,
					semifinal_deadline TIMESTAMPTZ NOT NULL,
					final_start TIMESTAMPTZ,
					final_deadline TIMESTAMPTZ,
					grand_final TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT chk_competitions_team_size CHECK (min_team_size >= 1 AND max_team_size >= min_team_size)
				);
			`); err != nil {
				return fmt.Errorf("failed to create competitions table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO competitions (
					code, name, description, min_team_size, max_team_size, registration_fee,
					registration_open, registration_deadline,
					preliminary_start, preliminary_deadline,
					semifinal_start, semifinal_deadline,
					final_start, final_deadline, grand_final
				) VALUES
				('PTC', 'Poster and Technology Competition', 'Technology poster competition for high school students.', 2, 3, 150000,
				 '2026-11-01T00:00:00+07:00', '2026-12-15T23:59:59+07:00',
				 '2026-11-15T00:00:00+07:00', '2026-12-31T23:59:59+07:00',
				 '2027-01-15T00:00:00+07:00', '2027-02-05T23:59:59+07:00',
				 '2027-02-20T00:00:00+07:00', '2027-03-01T23:59:59+07:00', '2027-03-14T09:00:00+07:00'),
				('TPC', 'Technology Paper Competition', 'Scientific paper competition for university students.', 2, 3, 200000,
				 '2026-11-01T00:00:00+07:00', '2026-12-15T23:59:59+07:00',
				 '2026-12-16T00:00:00+07:00', '2027-01-10T23:59:59+07:00',
				 '2027-01-20T00:00:00+07:00', '2027-02-10T23:59:59+07:00',
				 NULL, NULL, '2027-03-14T09:00:00+07:00'),
				('BCC', 'Business Case Competition', 'Technology business case competition for university students.', 3, 3, 200000,
				 '2026-11-01T00:00:00+07:00', '2026-12-15T23:59:59+07:00',
				 '2026-12-16T00:00:00+07:00', '2027-01-10T23:59:59+07:00',
				 '2027-01-20T00:00:00+07:00', '2027-02-10T23:59:59+07:00',
				 '2027-02-20T00:00:00+07:00', '2027-03-01T23:59:59+07:00', '2027-03-14T09:00:00+07:00')
				ON CONFLICT (code) DO NOTHING;
			`); err != nil {
				return fmt.Errorf("failed to seed competitions: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping competitions table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS competitions CASCADE;`); err != nil {
				return fmt.Errorf("failed to drop competitions table: %w", err)
			}
			return nil
		})
	})
}
