package competitionhandlers

import (
	"context"

	competitionservice "github.com/ieee-sb/thesandbox/app/modules/competition/application"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// ------------------------
// Fake Competition Service
// ------------------------

type FakeCompetitionService struct {
	GetCompetitionFunc   func(ctx context.Context, code string) (*competitionservice.CompetitionInfo, error)
	ListCompetitionsFunc func(ctx context.Context, activeOnly bool) ([]*competitionservice.CompetitionInfo, error)
	GetPhaseStatusFunc   func(ctx context.Context, code string) (*competitionservice.PhaseInfo, error)
	UpdateSettingsFunc   func(ctx context.Context, code string, update competitionservice.SettingsUpdate) (*competitionservice.CompetitionInfo, error)
}

func NewFakeCompetitionService() *FakeCompetitionService {
	return &FakeCompetitionService{}
}

func (f *FakeCompetitionService) GetCompetition(ctx context.Context, code string) (*competitionservice.CompetitionInfo, error) {
	if f.GetCompetitionFunc != nil {
		return f.GetCompetitionFunc(ctx, code)
	}
	return nil, apperrors.NotFound("competition not found")
}

func (f *FakeCompetitionService) ListCompetitions(ctx context.Context, activeOnly bool) ([]*competitionservice.CompetitionInfo, error) {
	if f.ListCompetitionsFunc != nil {
		return f.ListCompetitionsFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (f *FakeCompetitionService) GetPhaseStatus(ctx context.Context, code string) (*competitionservice.PhaseInfo, error) {
	if f.GetPhaseStatusFunc != nil {
		return f.GetPhaseStatusFunc(ctx, code)
	}
	return nil, apperrors.NotFound("competition not found")
}

func (f *FakeCompetitionService) UpdateSettings(ctx context.Context, code string, update competitionservice.SettingsUpdate) (*competitionservice.CompetitionInfo, error) {
	if f.UpdateSettingsFunc != nil {
		return f.UpdateSettingsFunc(ctx, code, update)
	}
	return nil, apperrors.NotFound("competition not found")
}

var _ competitionservice.Service = (*FakeCompetitionService)(nil)
