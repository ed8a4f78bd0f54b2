package registrationservice

import (
	"time"

	"github.com/google/uuid"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
)

// AdmissionResult is returned after a team has been admitted.
type AdmissionResult struct {
	RegistrationID  uuid.UUID `json:"registrationId"`
	TeamName        string    `json:"teamName"`
	CompetitionCode string    `json:"competitionCode"`
	CompetitionName string    `json:"competitionName"`
	MemberCount     int       `json:"memberCount"`
	Status          string    `json:"status"`
	CurrentPhase    string    `json:"currentPhase"`
	NewUser         bool      `json:"newUser"`
}

// MemberView is one team member.
type MemberView struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// RegistrationView is the read model shared by the participant dashboard and
// the admin listing.
type RegistrationView struct {
	ID                     uuid.UUID    `json:"id"`
	UserID                 uuid.UUID    `json:"userId"`
	CompetitionCode        string       `json:"competitionCode"`
	CompetitionName        string       `json:"competitionName"`
	TeamName               string       `json:"teamName"`
	Institution            string       `json:"institution"`
	VerificationStatus     string       `json:"verificationStatus"`
	CurrentPhase           string       `json:"currentPhase"`
	IsPreliminaryQualified bool         `json:"isPreliminaryQualified"`
	IsSemifinalQualified   bool         `json:"isSemifinalQualified"`
	ReviewNotes            string       `json:"reviewNotes,omitempty"`
	ReviewedAt             *time.Time   `json:"reviewedAt,omitempty"`
	Members                []MemberView `json:"members"`
	CreatedAt              time.Time    `json:"createdAt"`
}

// LookupResult answers whether an email already belongs to a team.
type LookupResult struct {
	Registered   bool              `json:"registered"`
	Registration *RegistrationView `json:"registration,omitempty"`
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	CompetitionCode    string
	VerificationStatus string
	CurrentPhase       string
	Limit              int
	Offset             int
}

// ReviewInput is a staff decision on a pending registration.
type ReviewInput struct {
	Decision registrationdomain.Decision `json:"decision"`
	Notes    string                      `json:"notes"`
}

func toView(reg *registrationdb.Registration, comp *competitiondb.Competition) *RegistrationView {
	v := &RegistrationView{
		ID:                     reg.ID,
		UserID:                 reg.UserID,
		VerificationStatus:     reg.VerificationStatus,
		CurrentPhase:           reg.CurrentPhase,
		IsPreliminaryQualified: reg.IsPreliminaryQualified,
		IsSemifinalQualified:   reg.IsSemifinalQualified,
		ReviewNotes:            reg.ReviewNotes,
		ReviewedAt:             reg.ReviewedAt,
		CreatedAt:              reg.CreatedAt,
		Members:                []MemberView{},
	}
	if comp != nil {
		v.CompetitionCode = comp.Code
		v.CompetitionName = comp.Name
	}
	if reg.Team != nil {
		v.TeamName = reg.Team.TeamName
		v.Institution = reg.Team.Institution
		for _, m := range reg.Team.Members {
			v.Members = append(v.Members, MemberView{
				FullName:    m.FullName,
				Email:       m.Email,
				PhoneNumber: m.PhoneNumber,
				Role:        m.Role,
			})
		}
	}
	return v
}

// LeaderEmail returns the email of the first member, or "".
func (v *RegistrationView) LeaderEmail() string {
	for _, m := range v.Members {
		if m.Role == registrationdomain.MemberRoleLeader {
			return m.Email
		}
	}
	return ""
}
