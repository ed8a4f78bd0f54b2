package registrationdomain

import (
	"fmt"
	"net/mail"
	"strings"
)

// VerificationStatus is the committee decision on a registration.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
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

// Member roles inside a team.
const (
	MemberRoleLeader = "leader"
	MemberRoleMember = "member"
)

// Leader is the registering participant. Username and Password are used
// only when the email has no account yet.
type Leader struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// Member is an additional team member.
type Member struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// AdmissionRequest is the payload of a team registration.
type AdmissionRequest struct {
	CompetitionCode string   `json:"competitionCode"`
	TeamName        string   `json:"teamName"`
	Institution     string   `json:"institution"`
	Leader          Leader   `json:"leader"`
	Members         []Member `json:"members"`
}

// Normalize trims fields and lowercases emails in place.
func (r *AdmissionRequest) Normalize() {
	r.CompetitionCode = strings.ToUpper(strings.TrimSpace(r.CompetitionCode))
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.Institution = strings.TrimSpace(r.Institution)
	r.Leader.FullName = strings.TrimSpace(r.Leader.FullName)
	r.Leader.Email = normalizeEmail(r.Leader.Email)
	r.Leader.PhoneNumber = strings.TrimSpace(r.Leader.PhoneNumber)
	r.Leader.Username = strings.TrimSpace(r.Leader.Username)
	for i := range r.Members {
		r.Members[i].FullName = strings.TrimSpace(r.Members[i].FullName)
		r.Members[i].Email = normalizeEmail(r.Members[i].Email)
		r.Members[i].PhoneNumber = strings.TrimSpace(r.Members[i].PhoneNumber)
	}
}

// TeamSize counts the leader and members.
func (r *AdmissionRequest) TeamSize() int {
	return len(r.Members) + 1
}

// Emails returns the leader email followed by member emails.
func (r *AdmissionRequest) Emails() []string {
	out := make([]string, 0, r.TeamSize())
	out = append(out, r.Leader.Email)
	for _, m := range r.Members {
		out = append(out, m.Email)
	}
	return out
}

// Validate checks field presence and format. It does not consult the
// store.
func (r *AdmissionRequest) Validate() []string {
	var problems []string
	if r.CompetitionCode == "" {
		problems = append(problems, "competitionCode is required")
	}
	if n := len(r.TeamName); n < 2 || n > 100 {
		problems = append(problems, "teamName must be between 2 and 100 characters")
	}
	if r.Institution == "" {
		problems = append(problems, "institution is required")
	}
	problems = append(problems, validatePerson("leader", r.Leader.FullName, r.Leader.Email, r.Leader.PhoneNumber)...)
	for i, m := range r.Members {
		problems = append(problems, validatePerson(fmt.Sprintf("members[%d]", i), m.FullName, m.Email, m.PhoneNumber)...)
	}
	return problems
}

// DuplicateEmails returns emails that appear more than once in the request.
func (r *AdmissionRequest) DuplicateEmails() []string {
	seen := make(map[string]int)
	var dups []string
	for _, e := range r.Emails() {
		seen[e]++
		if seen[e] == 2 {
			dups = append(dups, e)
		}
	}
	return dups
}

func validatePerson(field, name, email, phone string) []string {
	var problems []string
	if name == "" {
		problems = append(problems, field+".fullName is required")
	}
	if !ValidEmail(email) {
		problems = append(problems, field+".email is invalid")
	}
	if len(phone) < 8 || len(phone) > 20 {
		problems = append(problems, field+".phoneNumber must be between 8 and 20 characters")
	}
	return problems
}

// ValidEmail reports whether s is a bare email address.
func ValidEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
