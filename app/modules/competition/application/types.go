package competitionservice

import (
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
)

// CompetitionInfo is the public view of a competition, with its phase at the
// time of the request.
type CompetitionInfo struct {
	Code            competitiondomain.Code        `json:"code"`
	Name            string                        `json:"name"`
	Description     string                        `json:"description"`
	MinTeamSize     int                           `json:"minTeamSize"`
	MaxTeamSize     int                           `json:"maxTeamSize"`
	RegistrationFee int64                         `json:"registrationFee"`
	IsActive        bool                          `json:"isActive"`
	Dates           competitiondomain.Dates       `json:"dates"`
	Status          competitiondomain.PhaseStatus `json:"status"`
}

// PhaseInfo is the response of the phase endpoint.
type PhaseInfo struct {
	Code competitiondomain.Code `json:"code"`
	Name string                 `json:"name"`
	competitiondomain.PhaseStatus
}

// SettingsUpdate replaces the schedule and optionally the fee and active flag.
type SettingsUpdate struct {
	Dates           competitiondomain.Dates `json:"dates"`
	RegistrationFee *int64                  `json:"registrationFee,omitempty"`
	IsActive        *bool                   `json:"isActive,omitempty"`
}
