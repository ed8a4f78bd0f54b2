package userdomain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivationTTL is how long an activation link stays valid.
const ActivationTTL = 24 * time.Hour

// NewActivationToken returns a random URL-safe token.
func NewActivationToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// UsernameFromEmail derives a username candidate from the local part of an
// email address.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
