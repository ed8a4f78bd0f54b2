package paymentdb

import (
	"time"

	"github.com/google/uuid"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Payment is the fee proof of one registration.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	RegistrationID uuid.UUID  `bun:"registration_id,type:uuid,notnull,unique" json:"registration_id"`
	Amount         int64      `bun:"amount,notnull" json:"amount"`
	ProofKey       string     `bun:"proof_key,notnull" json:"proof_key"`
	ProofURL       string     `bun:"proof_url,notnull" json:"proof_url"`
	ProofFileName  string     `bun:"proof_file_name,notnull" json:"proof_file_name"`
	Status         string     `bun:"status,notnull" json:"status"`
	SubmittedAt    time.Time  `bun:"submitted_at,notnull" json:"submitted_at"`
	ReviewedBy     *uuid.UUID `bun:"reviewed_by,type:uuid,nullzero" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `bun:"reviewed_at,nullzero" json:"reviewed_at,omitempty"`
	ReviewNotes    string     `bun:"review_notes,notnull,default:''" json:"review_notes"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Registration *registrationdb.Registration `bun:"rel:belongs-to,join:registration_id=id" json:"-"`
}

// ListFilter narrows admin payment listings.
type ListFilter struct {
	Status          string
	CompetitionCode string
	Limit           int
	Offset          int
}
