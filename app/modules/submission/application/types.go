package submissionservice

import (
	"io"
	"time"

	"github.com/google/uuid"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	submissiondb "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories"
)

// FileUpload is one multipart part together with its body.
type FileUpload struct {
	submissiondomain.Upload
	Body io.Reader
}

// SubmitInput is the request of a team leader for one phase. RegistrationID
// may be zero, in which case the caller's own registration is used.
type SubmitInput struct {
	RegistrationID uuid.UUID
	Files          []FileUpload
}

// ReviewInput is a staff decision on a pending submission.
type ReviewInput struct {
	Decision submissiondomain.Decision `json:"decision"`
	Notes    string                    `json:"notes"`
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Phase           string
	Status          string
	CompetitionCode string
	Limit           int
	Offset          int
}

// FileView is one stored file.
type FileView struct {
	Field       string `json:"field"`
	FileName    string `json:"fileName"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// SubmissionView is the read model returned to participants and staff.
type SubmissionView struct {
	ID              uuid.UUID  `json:"id"`
	RegistrationID  uuid.UUID  `json:"registrationId"`
	CompetitionCode string     `json:"competitionCode,omitempty"`
	TeamName        string     `json:"teamName,omitempty"`
	Phase           string     `json:"phase"`
	Status          string     `json:"status"`
	Files           []FileView `json:"files"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	ReviewNotes     string     `json:"reviewNotes,omitempty"`
	Replaced        bool       `json:"replaced,omitempty"`
}

// TeamSubmissions is the participant dashboard: what was submitted and what
// the current phase still asks for.
type TeamSubmissions struct {
	RegistrationID uuid.UUID                   `json:"registrationId"`
	CurrentPhase   string                      `json:"currentPhase"`
	Required       []submissiondomain.FileSpec `json:"required"`
	Submissions    []*SubmissionView           `json:"submissions"`
}

func toView(sub *submissiondb.Submission) *SubmissionView {
	v := &SubmissionView{
		ID:             sub.ID,
		RegistrationID: sub.RegistrationID,
		Phase:          sub.Phase,
		Status:         sub.Status,
		SubmittedAt:    sub.SubmittedAt,
		ReviewedAt:     sub.ReviewedAt,
		ReviewNotes:    sub.ReviewNotes,
		Files:          make([]FileView, 0, len(sub.Files)),
	}
	for _, f := range sub.Files {
		v.Files = append(v.Files, FileView{
			Field:       f.Field,
			FileName:    f.FileName,
			URL:         f.URL,
			Size:        f.Size,
			ContentType: f.ContentType,
		})
	}
	if reg := sub.Registration; reg != nil {
		if reg.Competition != nil {
			v.CompetitionCode = reg.Competition.Code
		}
		if reg.Team != nil {
			v.TeamName = reg.Team.TeamName
		}
	}
	return v
}
