package authdomain

// Role represents a user's role for authorization purposes.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleReviewer    Role = "reviewer"
	RoleAdmin       Role = "admin"
	RoleSuperAdmin  Role = "superadmin"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleParticipant, RoleReviewer, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role belongs to a committee account.
func (r Role) IsStaff() bool {
	return r == RoleReviewer || r == RoleAdmin || r == RoleSuperAdmin
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
