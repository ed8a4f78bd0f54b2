package competitiondomain

import (
	"time"

	"github.com/google/uuid"
)

// Code identifies a competition track.
type Code string

const (
	CodePTC Code = "PTC"
	CodeTPC Code = "TPC"
	CodeBCC Code = "BCC"
)

// IsValid checks if the code names a known track.
func (c Code) IsValid() bool {
	switch c {
	case CodePTC, CodeTPC, CodeBCC:
		return true
	default:
		return false
	}
}

// String returns the string representation of the code.
func (c Code) String() string {
	return string(c)
}

// Competition is a track participants register teams into.
type Competition struct {
	ID              uuid.UUID
	Code            Code
	Name            string
	Description     string
	MinTeamSize     int
	MaxTeamSize     int
	RegistrationFee int64
	IsActive        bool
	Dates           Dates
}

// TeamSizeAllowed reports whether size lies within the inclusive bounds.
func (c *Competition) TeamSizeAllowed(size int) bool {
	return size >= c.MinTeamSize && size <= c.MaxTeamSize
}

// Dates holds the schedule of a competition. Final and grand final are
// optional.
type Dates struct {
	RegistrationOpen     time.Time  `json:"registrationOpen"`
	RegistrationDeadline time.Time  `json:"registrationDeadline"`
	PreliminaryStart     time.Time  `json:"preliminaryStart"`
	PreliminaryDeadline  time.Time  `json:"preliminaryDeadline"`
	SemifinalStart       time.Time  `json:"semifinalStart"`
	SemifinalDeadline    time.Time  `json:"semifinalDeadline"`
	FinalStart           *time.Time `json:"finalStart,omitempty"`
	FinalDeadline        *time.Time `json:"finalDeadline,omitempty"`
	GrandFinal           *time.Time `json:"grandFinal,omitempty"`
}

// HasFinal reports whether a final round is scheduled.
func (d Dates) HasFinal() bool {
	return d.FinalStart != nil && d.FinalDeadline != nil
}

// Validate checks that no window ends before it starts. Windows may overlap
// one another.
func (d Dates) Validate() []string {
	var problems []string
	if d.RegistrationDeadline.Before(d.RegistrationOpen) {
		problems = append(problems, "registration deadline is before registration open")
	}
	if d.PreliminaryDeadline.Before(d.PreliminaryStart) {
		problems = append(problems, "preliminary deadline is before preliminary start")
	}
	if d.SemifinalDeadline.Before(d.SemifinalStart) {
		problems = append(problems, "semifinal deadline is before semifinal start")
	}
	if (d.FinalStart == nil) != (d.FinalDeadline == nil) {
		problems = append(problems, "final start and final deadline must be set together")
	} else if d.FinalStart != nil && d.FinalDeadline.Before(*d.FinalStart) {
		problems = append(problems, "final deadline is before final start")
	}
	return problems
}
