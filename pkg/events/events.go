// Package events defines the topics and payloads published on the event bus.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	RegistrationCreatedV1  = "registration.created.v1"
	RegistrationReviewedV1 = "registration.reviewed.v1"
	SubmissionCreatedV1    = "submission.created.v1"
	SubmissionReviewedV1   = "submission.reviewed.v1"
	PaymentSubmittedV1     = "payment.submitted.v1"
	PaymentReviewedV1      = "payment.reviewed.v1"
)

// MemberPayload is one team member in registration events. The leader comes
// first.
type MemberPayload struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	IsLeader    bool   `json:"is_leader"`
}

// RegistrationCreatedPayload is published after a team has been admitted.
// ActivationToken is set only when a new account was created.
type RegistrationCreatedPayload struct {
	RegistrationID  uuid.UUID       `json:"registration_id"`
	CompetitionCode string          `json:"competition_code"`
	CompetitionName string          `json:"competition_name"`
	TeamName        string          `json:"team_name"`
	Institution     string          `json:"institution"`
	LeaderName      string          `json:"leader_name"`
	LeaderEmail     string          `json:"leader_email"`
	Members         []MemberPayload `json:"members"`
	NewUser         bool            `json:"new_user"`
	ActivationToken string          `json:"activation_token,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// RegistrationReviewedPayload is published when staff approve or reject a
// registration.
type RegistrationReviewedPayload struct {
	RegistrationID  uuid.UUID `json:"registration_id"`
	CompetitionCode string    `json:"competition_code"`
	TeamName        string    `json:"team_name"`
	LeaderEmail     string    `json:"leader_email"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
}

// SubmissionCreatedPayload is published after files for a phase are stored.
type SubmissionCreatedPayload struct {
	SubmissionID    uuid.UUID `json:"submission_id"`
	RegistrationID  uuid.UUID `json:"registration_id"`
	CompetitionCode string    `json:"competition_code"`
	TeamName        string    `json:"team_name"`
	Phase           string    `json:"phase"`
	Replaced        bool      `json:"replaced"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// SubmissionReviewedPayload is published when staff review a submission.
type SubmissionReviewedPayload struct {
	SubmissionID    uuid.UUID `json:"submission_id"`
	RegistrationID  uuid.UUID `json:"registration_id"`
	CompetitionCode string    `json:"competition_code"`
	TeamName        string    `json:"team_name"`
	LeaderEmail     string    `json:"leader_email"`
	Phase           string    `json:"phase"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
}

// PaymentSubmittedPayload is published when a team uploads payment proof.
type PaymentSubmittedPayload struct {
	PaymentID       uuid.UUID `json:"payment_id"`
	RegistrationID  uuid.UUID `json:"registration_id"`
	CompetitionCode string    `json:"competition_code"`
	TeamName        string    `json:"team_name"`
	Amount          int64     `json:"amount"`
	ProofURL        string    `json:"proof_url"`
}

// PaymentReviewedPayload is published when staff verify or reject a payment.
type PaymentReviewedPayload struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	RegistrationID uuid.UUID `json:"registration_id"`
	TeamName       string    `json:"team_name"`
	LeaderEmail    string    `json:"leader_email"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
}
