// Package paymentdomain holds the rules for registration fee proofs.
package paymentdomain

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Status is the verification state of a payment proof.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is known.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusVerified || s == StatusRejected
}

// Decision is a staff review outcome.
type Decision string

const (
	DecisionVerify Decision = "verify"
	DecisionReject Decision = "reject"
)

// IsValid checks if the decision is known.
func (d Decision) IsValid() bool {
	return d == DecisionVerify || d == DecisionReject
}

// Outcome returns the status a decision moves a proof to.
func (d Decision) Outcome() Status {
	if d == DecisionVerify {
		return StatusVerified
	}
	return StatusRejected
}

// MaxProofSize is the upload limit for a transfer receipt.
const MaxProofSize int64 = 5 << 20

// ProofExtensions lists the accepted receipt formats.
var ProofExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

// ValidateProof checks a receipt before it is stored. It returns "" when the
// file is acceptable.
func ValidateProof(fileName string, size int64) string {
	switch {
	case size <= 0:
		return "proof is empty"
	case size > MaxProofSize:
		return fmt.Sprintf("proof exceeds %d MiB", MaxProofSize>>20)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(ProofExtensions, ext) {
		return "proof must be one of " + strings.Join(ProofExtensions, ", ")
	}
	return ""
}

// CanReplace reports whether a new proof may overwrite one in status.
func CanReplace(status Status) bool {
	return status != StatusVerified
}
