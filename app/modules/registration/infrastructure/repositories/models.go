package registrationdb

import (
	"time"

	"github.com/google/uuid"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Registration binds one user and their team to one competition.
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:r"`

	ID                     uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID                 uuid.UUID  `bun:"user_id,type:uuid,notnull,unique" json:"user_id"`
	CompetitionID          uuid.UUID  `bun:"competition_id,type:uuid,notnull" json:"competition_id"`
	VerificationStatus     string     `bun:"verification_status,notnull" json:"verification_status"`
	CurrentPhase           string     `bun:"current_phase,notnull" json:"current_phase"`
	IsPreliminaryQualified bool       `bun:"is_preliminary_qualified,notnull" json:"is_preliminary_qualified"`
	IsSemifinalQualified   bool       `bun:"is_semifinal_qualified,notnull" json:"is_semifinal_qualified"`
	ReviewedBy             *uuid.UUID `bun:"reviewed_by,type:uuid,nullzero" json:"reviewed_by,omitempty"`
	ReviewedAt             *time.Time `bun:"reviewed_at,nullzero" json:"reviewed_at,omitempty"`
	ReviewNotes            string     `bun:"review_notes,notnull,default:''" json:"review_notes"`
	CreatedAt              time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt              time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Team        *Team                      `bun:"rel:has-one,join:id=registration_id" json:"team,omitempty"`
	User        *userdb.User               `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Competition *competitiondb.Competition `bun:"rel:belongs-to,join:competition_id=id" json:"-"`
}

// Team is the named group behind a registration.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	RegistrationID uuid.UUID `bun:"registration_id,type:uuid,notnull,unique" json:"registration_id"`
	TeamName       string    `bun:"team_name,notnull" json:"team_name"`
	Institution    string    `bun:"institution,notnull" json:"institution"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Members []*TeamMember `bun:"rel:has-many,join:id=team_id" json:"members,omitempty"`
}

// Leader returns the first member, or nil.
func (t *Team) Leader() *TeamMember {
	for _, m := range t.Members {
		if m.Position == 0 {
			return m
		}
	}
	return nil
}

// TeamMember is one person on a team. Position 0 is the leader.
type TeamMember struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	TeamID      uuid.UUID `bun:"team_id,type:uuid,notnull" json:"team_id"`
	FullName    string    `bun:"full_name,notnull" json:"full_name"`
	Email       string    `bun:"email,notnull" json:"email"`
	PhoneNumber string    `bun:"phone_number,notnull" json:"phone_number"`
	Role        string    `bun:"role,notnull" json:"role"`
	Position    int       `bun:"position,notnull" json:"position"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// MemberConflict names an email that already belongs to a team.
type MemberConflict struct {
	Email           string `bun:"email" json:"email"`
	CompetitionCode string `bun:"competition_code" json:"competition"`
}

// ListFilter narrows admin registration listings. Zero values match all.
type ListFilter struct {
	CompetitionCode    string
	VerificationStatus string
	CurrentPhase       string
	Limit              int
	Offset             int
}
