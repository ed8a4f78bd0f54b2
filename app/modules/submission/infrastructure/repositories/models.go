package submissiondb

import (
	"time"

	"github.com/google/uuid"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// StoredFile is one uploaded file of a submission.
type StoredFile struct {
	Field       string `json:"field"`
	FileName    string `json:"fileName"`
	ObjectKey   string `json:"objectKey"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Submission is the work a team uploaded for one phase.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:sub"`

	ID             uuid.UUID    `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	RegistrationID uuid.UUID    `bun:"registration_id,type:uuid,notnull" json:"registration_id"`
	Phase          string       `bun:"phase,notnull" json:"phase"`
	Status         string       `bun:"status,notnull" json:"status"`
	Files          []StoredFile `bun:"files,type:jsonb,notnull" json:"files"`
	SubmittedBy    uuid.UUID    `bun:"submitted_by,type:uuid,notnull" json:"submitted_by"`
	SubmittedAt    time.Time    `bun:"submitted_at,notnull" json:"submitted_at"`
	ReviewedBy     *uuid.UUID   `bun:"reviewed_by,type:uuid,nullzero" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time   `bun:"reviewed_at,nullzero" json:"reviewed_at,omitempty"`
	ReviewNotes    string       `bun:"review_notes,notnull,default:''" json:"review_notes"`
	CreatedAt      time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Registration *registrationdb.Registration `bun:"rel:belongs-to,join:registration_id=id" json:"-"`
}

// ListFilter narrows admin submission listings. Zero values match all.
type ListFilter struct {
	Phase           string
	Status          string
	CompetitionCode string
	Limit           int
	Offset          int
}
