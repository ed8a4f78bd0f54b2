package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePGError map[byte]string

func (e fakePGError) Error() string       { return e['M'] }
func (e fakePGError) Field(k byte) string { return e[k] }

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantOK         bool
		wantConstraint string
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{
			name:           "wrapped unique violation",
			err:            fmt.Errorf("insert: %w", fakePGError{'C': "23505", 'n': "teams_team_name_key", 'M': "duplicate key"}),
			wantOK:         true,
			wantConstraint: "teams_team_name_key",
		},
		{
			name: "other sqlstate",
			err:  fakePGError{'C': "23503", 'n': "fk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, ok := UniqueViolation(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantConstraint, constraint)
		})
	}
}
