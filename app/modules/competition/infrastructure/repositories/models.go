package competitiondb

import (
	"time"

	"github.com/google/uuid"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	"github.com/uptrace/bun"
)

// Competition is the stored form of a competition track and its schedule.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:c"`

	ID                   uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Code                 string     `bun:"code,unique,notnull" json:"code"`
	Name                 string     `bun:"name,notnull" json:"name"`
	Description          string     `bun:"description,notnull" json:"description"`
	MinTeamSize          int        `bun:"min_team_size,notnull" json:"min_team_size"`
	MaxTeamSize          int        `bun:"max_team_size,notnull" json:"max_team_size"`
	RegistrationFee      int64      `bun:"registration_fee,notnull" json:"registration_fee"`
	IsActive             bool       `bun:"is_active,notnull" json:"is_active"`
	RegistrationOpen     time.Time  `bun:"registration_open,notnull" json:"registration_open"`
	RegistrationDeadline time.Time  `bun:"registration_deadline,notnull" json:"registration_deadline"`
	PreliminaryStart     time.Time  `bun:"preliminary_start,notnull" json:"preliminary_start"`
	PreliminaryDeadline  time.Time  `bun:"preliminary_deadline,notnull" json:"preliminary_deadline"`
	SemifinalStart       time.Time  `bun:"semifinal_start,notnull" json:"semifinal_start"`
	SemifinalDeadline    time.Time  `bun:"semifinal_deadline,notnull" json:"semifinal_deadline"`
	FinalStart           *time.Time `bun:"final_start,nullzero" json:"final_start,omitempty"`
	FinalDeadline        *time.Time `bun:"final_deadline,nullzero" json:"final_deadline,omitempty"`
	GrandFinal           *time.Time `bun:"grand_final,nullzero" json:"grand_final,omitempty"`
	CreatedAt            time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// ToDomain converts the row into the domain model.
func (c *Competition) ToDomain() *competitiondomain.Competition {
	return &competitiondomain.Competition{
		ID:              c.ID,
		Code:            competitiondomain.Code(c.Code),
		Name:            c.Name,
		Description:     c.Description,
		MinTeamSize:     c.MinTeamSize,
		MaxTeamSize:     c.MaxTeamSize,
		RegistrationFee: c.RegistrationFee,
		IsActive:        c.IsActive,
		Dates: competitiondomain.Dates{
			RegistrationOpen:     c.RegistrationOpen,
			RegistrationDeadline: c.RegistrationDeadline,
			PreliminaryStart:     c.PreliminaryStart,
			PreliminaryDeadline:  c.PreliminaryDeadline,
			SemifinalStart:       c.SemifinalStart,
			SemifinalDeadline:    c.SemifinalDeadline,
			FinalStart:           c.FinalStart,
			FinalDeadline:        c.FinalDeadline,
			GrandFinal:           c.GrandFinal,
		},
	}
}

// ApplyDates copies a schedule onto the row.
func (c *Competition) ApplyDates(d competitiondomain.Dates) {
	c.RegistrationOpen = d.RegistrationOpen
	c.RegistrationDeadline = d.RegistrationDeadline
	c.PreliminaryStart = d.PreliminaryStart
	c.PreliminaryDeadline = d.PreliminaryDeadline
	c.SemifinalStart = d.SemifinalStart
	c.SemifinalDeadline = d.SemifinalDeadline
	c.FinalStart = d.FinalStart
	c.FinalDeadline = d.FinalDeadline
	c.GrandFinal = d.GrandFinal
}
