package competitiondomain

import "time"

// Phase is a stage of a competition. Registrations reuse the same values to
// record how far a team has advanced.
type Phase string

const (
	PhasePreRegistration Phase = "pre_registration"
	PhaseRegistration    Phase = "registration"
	PhasePreliminary     Phase = "preliminary"
	PhaseSemifinal       Phase = "semifinal"
	PhaseFinal           Phase = "final"
	PhaseGrandFinal      Phase = "grand_final"
	PhaseCompleted       Phase = "completed"
)

// IsValid checks if the phase is a known value.
func (p Phase) IsValid() bool {
	switch p {
	case PhasePreRegistration, PhaseRegistration, PhasePreliminary, PhaseSemifinal,
		PhaseFinal, PhaseGrandFinal, PhaseCompleted:
		return true
	default:
		return false
	}
}

// IsSubmissionPhase reports whether teams upload work during this phase.
func (p Phase) IsSubmissionPhase() bool {
	return p == PhasePreliminary || p == PhaseSemifinal || p == PhaseFinal
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Phase labels shown to participants.
const (
	LabelPreRegistration   = "Registration Not Yet Open"
	LabelRegistration      = "Registration Open"
	LabelPreliminary       = "Preliminary Round"
	LabelPreliminarySoon   = "Preliminary Starting Soon"
	LabelSemifinal         = "Semifinal Round"
	LabelAwaitingSemifinal = "Awaiting Semifinal"
	LabelFinal             = "Final Round"
	LabelAwaitingFinal     = "Awaiting Final"
	LabelGrandFinal        = "Grand Final"
	LabelCompleted         = "Competition Completed"
)

// PhaseStatus is the derived view of a competition at one instant.
type PhaseStatus struct {
	CurrentPhase       Phase      `json:"currentPhase"`
	PhaseLabel         string     `json:"phaseLabel"`
	IsRegistrationOpen bool       `json:"isRegistrationOpen"`
	IsPreliminaryOpen  bool       `json:"isPreliminaryOpen"`
	IsSemifinalOpen    bool       `json:"isSemifinalOpen"`
	IsFinalOpen        bool       `json:"isFinalOpen"`
	NextDeadline       *time.Time `json:"nextDeadline,omitempty"`
	NextDeadlineLabel  string     `json:"nextDeadlineLabel,omitempty"`
}

// GetPhaseStatus derives the phase of a competition at now. Rules are
// evaluated in order and the first match wins, so overlapping windows resolve
// to the later phase. Gaps between windows report the upcoming phase with an
// "awaiting" label and every flag false.
func GetPhaseStatus(d Dates, now time.Time) PhaseStatus {
	if d.GrandFinal != nil && now.After(*d.GrandFinal) {
		return PhaseStatus{CurrentPhase: PhaseCompleted, PhaseLabel: LabelCompleted}
	}

	// Only reachable at the exact grand final instant.
	if d.GrandFinal != nil && !now.Before(*d.GrandFinal) {
		return PhaseStatus{CurrentPhase: PhaseGrandFinal, PhaseLabel: LabelGrandFinal}
	}

	if d.FinalStart != nil && d.FinalDeadline != nil && within(now, *d.FinalStart, *d.FinalDeadline) {
		return PhaseStatus{
			CurrentPhase:      PhaseFinal,
			PhaseLabel:        LabelFinal,
			IsFinalOpen:       true,
			NextDeadline:      timePtr(*d.FinalDeadline),
			NextDeadlineLabel: "Final submission deadline",
		}
	}

	if within(now, d.SemifinalStart, d.SemifinalDeadline) {
		return PhaseStatus{
			CurrentPhase:      PhaseSemifinal,
			PhaseLabel:        LabelSemifinal,
			IsSemifinalOpen:   true,
			NextDeadline:      timePtr(d.SemifinalDeadline),
			NextDeadlineLabel: "Semifinal submission deadline",
		}
	}

	if within(now, d.PreliminaryStart, d.PreliminaryDeadline) {
		return PhaseStatus{
			CurrentPhase:       PhasePreliminary,
			PhaseLabel:         LabelPreliminary,
			IsRegistrationOpen: IsRegistrationOpen(d, now),
			IsPreliminaryOpen:  true,
			NextDeadline:       timePtr(d.PreliminaryDeadline),
			NextDeadlineLabel:  "Preliminary submission deadline",
		}
	}

	if within(now, d.RegistrationOpen, d.RegistrationDeadline) {
		return PhaseStatus{
			CurrentPhase:       PhaseRegistration,
			PhaseLabel:         LabelRegistration,
			IsRegistrationOpen: true,
			NextDeadline:       timePtr(d.RegistrationDeadline),
			NextDeadlineLabel:  "Registration closes",
		}
	}

	if now.Before(d.RegistrationOpen) {
		return PhaseStatus{
			CurrentPhase:      PhasePreRegistration,
			PhaseLabel:        LabelPreRegistration,
			NextDeadline:      timePtr(d.RegistrationOpen),
			NextDeadlineLabel: "Registration opens",
		}
	}

	if now.After(d.RegistrationDeadline) && now.Before(d.PreliminaryStart) {
		return PhaseStatus{
			CurrentPhase:      PhasePreliminary,
			PhaseLabel:        LabelPreliminarySoon,
			NextDeadline:      timePtr(d.PreliminaryStart),
			NextDeadlineLabel: "Preliminary starts",
		}
	}

	if now.After(d.PreliminaryDeadline) && now.Before(d.SemifinalStart) {
		return PhaseStatus{
			CurrentPhase:      PhaseSemifinal,
			PhaseLabel:        LabelAwaitingSemifinal,
			NextDeadline:      timePtr(d.SemifinalStart),
			NextDeadlineLabel: "Semifinal starts",
		}
	}

	if d.FinalStart != nil && now.After(d.SemifinalDeadline) && now.Before(*d.FinalStart) {
		return PhaseStatus{
			CurrentPhase:      PhaseFinal,
			PhaseLabel:        LabelAwaitingFinal,
			NextDeadline:      timePtr(*d.FinalStart),
			NextDeadlineLabel: "Final starts",
		}
	}

	return PhaseStatus{CurrentPhase: PhaseCompleted, PhaseLabel: LabelCompleted}
}

// IsRegistrationOpen reports whether now lies inside the closed registration
// window.
func IsRegistrationOpen(d Dates, now time.Time) bool {
	return within(now, d.RegistrationOpen, d.RegistrationDeadline)
}

// IsSubmissionOpen reports whether now lies inside the closed submission
// window of phase. Phases without uploads, and a final with no configured
// window, are never open.
func IsSubmissionOpen(d Dates, phase Phase, now time.Time) bool {
	switch phase {
	case PhasePreliminary:
		return within(now, d.PreliminaryStart, d.PreliminaryDeadline)
	case PhaseSemifinal:
		return within(now, d.SemifinalStart, d.SemifinalDeadline)
	case PhaseFinal:
		if d.FinalStart == nil || d.FinalDeadline == nil {
			return false
		}
		return within(now, *d.FinalStart, *d.FinalDeadline)
	default:
		return false
	}
}

func within(now, start, end time.Time) bool {
	return !now.Before(start) && !now.After(end)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
