package authdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleParticipant, ActionViewRegistrations, false},
		{RoleReviewer, ActionReviewSubmissions, true},
		{RoleReviewer, ActionReviewRegistrations, false},
		{RoleReviewer, ActionVerifyPayments, false},
		{RoleAdmin, ActionVerifyPayments, true},
		{RoleAdmin, ActionManageStaff, false},
		{RoleSuperAdmin, ActionManageStaff, true},
		{Role("ghost"), ActionViewRegistrations, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.action))
		})
	}
}

func TestCapabilities(t *testing.T) {
	assert.Empty(t, Capabilities(RoleParticipant))
	assert.Len(t, Capabilities(RoleSuperAdmin), len(allActions))
	assert.Equal(t, []Action{ActionViewRegistrations, ActionViewSubmissions, ActionReviewSubmissions}, Capabilities(RoleReviewer))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("viewer").IsValid())
	assert.True(t, RoleReviewer.IsStaff())
	assert.False(t, RoleParticipant.IsStaff())
}
