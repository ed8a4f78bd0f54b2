package paymentservice

import (
	"io"
	"time"

	"github.com/google/uuid"
	paymentdomain "github.com/ieee-sb/thesandbox/app/modules/payment/domain"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
)

// ProofInput is a transfer receipt uploaded by a team leader. RegistrationID
// may be zero, in which case the caller's own registration is used.
type ProofInput struct {
	RegistrationID uuid.UUID
	FileName       string
	Size           int64
	ContentType    string
	Body           io.Reader
}

// ReviewInput is a staff decision on a pending proof.
type ReviewInput struct {
	Decision paymentdomain.Decision `json:"decision"`
	Notes    string                 `json:"notes"`
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Status          string
	CompetitionCode string
	Limit           int
	Offset          int
}

// PaymentView is the read model returned to participants and staff.
type PaymentView struct {
	ID              uuid.UUID  `json:"id"`
	RegistrationID  uuid.UUID  `json:"registrationId"`
	CompetitionCode string     `json:"competitionCode,omitempty"`
	TeamName        string     `json:"teamName,omitempty"`
	Amount          int64      `json:"amount"`
	ProofURL        string     `json:"proofUrl"`
	ProofFileName   string     `json:"proofFileName"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	ReviewNotes     string     `json:"reviewNotes,omitempty"`
}

func toView(p *paymentdb.Payment) *PaymentView {
	v := &PaymentView{
		ID:             p.ID,
		RegistrationID: p.RegistrationID,
		Amount:         p.Amount,
		ProofURL:       p.ProofURL,
		ProofFileName:  p.ProofFileName,
		Status:         p.Status,
		SubmittedAt:    p.SubmittedAt,
		ReviewedAt:     p.ReviewedAt,
		ReviewNotes:    p.ReviewNotes,
	}
	if reg := p.Registration; reg != nil {
		if reg.Competition != nil {
			v.CompetitionCode = reg.Competition.Code
		}
		if reg.Team != nil {
			v.TeamName = reg.Team.TeamName
		}
	}
	return v
}
