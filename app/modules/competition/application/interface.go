package competitionservice

import (
	"context"
)

// Service exposes competition lookups and schedule administration.
type Service interface {
	GetCompetition(ctx context.Context, code string) (*CompetitionInfo, error)
	ListCompetitions(ctx context.Context, activeOnly bool) ([]*CompetitionInfo, error)
	GetPhaseStatus(ctx context.Context, code string) (*PhaseInfo, error)
	UpdateSettings(ctx context.Context, code string, update SettingsUpdate) (*CompetitionInfo, error)
}
