package submissiondomain

import (
	"time"

	"github.com/google/uuid"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// Status is the review state of a submission.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQualified Status = "qualified"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Decision is a staff review outcome.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// IsValid checks if the decision is known.
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// ParsePhase accepts only the phases that take uploads.
func ParsePhase(s string) (competitiondomain.Phase, bool) {
	p := competitiondomain.Phase(s)
	return p, p.IsSubmissionPhase()
}

// GateInput is everything the submission gate looks at.
type GateInput struct {
	CallerID               uuid.UUID
	OwnerID                uuid.UUID
	Dates                  competitiondomain.Dates
	Phase                  competitiondomain.Phase
	CurrentPhase           competitiondomain.Phase
	IsPreliminaryQualified bool
	IsSemifinalQualified   bool
	HasPrior               bool
	Now                    time.Time
}

// GateDecision is the outcome of a passing gate.
type GateDecision struct {
	// Replace is true when a prior preliminary submission will be overwritten.
	Replace bool
}

// CheckGate applies the submission checks in order: ownership, window,
// phase authorization, prior submission. The first failing check is
// returned.
func CheckGate(in GateInput) (GateDecision, error) {
	if in.CallerID == uuid.Nil || in.CallerID != in.OwnerID {
		return GateDecision{}, apperrors.New(apperrors.KindForbidden, apperrors.CodeNotOwner, "only the team leader can submit for this registration")
	}

	if !competitiondomain.IsSubmissionOpen(in.Dates, in.Phase, in.Now) {
		return GateDecision{}, apperrors.WithMetadata(apperrors.KindState, apperrors.CodeSubmissionClosed,
			"the "+in.Phase.String()+" submission window is closed",
			map[string]any{"phase": in.Phase},
		)
	}

	if !phaseAuthorized(in) {
		return GateDecision{}, apperrors.WithMetadata(apperrors.KindForbidden, apperrors.CodePhaseNotAllowed,
			"your team has not qualified for the "+in.Phase.String()+" round",
			map[string]any{"phase": in.Phase, "currentPhase": in.CurrentPhase},
		)
	}

	if in.HasPrior {
		if in.Phase == competitiondomain.PhasePreliminary {
			return GateDecision{Replace: true}, nil
		}
		return GateDecision{}, apperrors.WithMetadata(apperrors.KindConflict, apperrors.CodeAlreadySubmitted,
			"a "+in.Phase.String()+" submission already exists",
			map[string]any{"phase": in.Phase},
		)
	}

	return GateDecision{}, nil
}

func phaseAuthorized(in GateInput) bool {
	switch in.Phase {
	case competitiondomain.PhasePreliminary:
		return in.CurrentPhase == competitiondomain.PhasePreliminary
	case competitiondomain.PhaseSemifinal:
		return in.CurrentPhase == competitiondomain.PhaseSemifinal && in.IsPreliminaryQualified
	case competitiondomain.PhaseFinal:
		return in.CurrentPhase == competitiondomain.PhaseFinal && in.IsSemifinalQualified
	default:
		return false
	}
}

// Transition is the effect of approving a submission on its registration.
type Transition struct {
	SubmissionStatus        Status
	NextPhase               competitiondomain.Phase
	SetPreliminaryQualified bool
	SetSemifinalQualified   bool
}

// ApprovalTransition returns the effect of approving a submission of phase.
// Competitions without a final round complete the registration on semifinal
// approval; the qualification stays recorded in IsSemifinalQualified.
func ApprovalTransition(phase competitiondomain.Phase, hasFinal bool) (Transition, bool) {
	switch phase {
	case competitiondomain.PhasePreliminary:
		return Transition{SubmissionStatus: StatusQualified, NextPhase: competitiondomain.PhaseSemifinal, SetPreliminaryQualified: true}, true
	case competitiondomain.PhaseSemifinal:
		next := competitiondomain.PhaseFinal
		if !hasFinal {
			next = competitiondomain.PhaseCompleted
		}
		return Transition{SubmissionStatus: StatusQualified, NextPhase: next, SetSemifinalQualified: true}, true
	case competitiondomain.PhaseFinal:
		return Transition{SubmissionStatus: StatusApproved, NextPhase: competitiondomain.PhaseCompleted}, true
	default:
		return Transition{}, false
	}
}
