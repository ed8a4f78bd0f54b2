package authdomain

// Action names an operation guarded by role.
type Action string

const (
	ActionViewRegistrations   Action = "registrations.view"
	ActionReviewRegistrations Action = "registrations.review"
	ActionViewSubmissions     Action = "submissions.view"
	ActionReviewSubmissions   Action = "submissions.review"
	ActionViewPayments        Action = "payments.view"
	ActionVerifyPayments      Action = "payments.verify"
	ActionManageCompetitions  Action = "competitions.manage"
	ActionManageStaff         Action = "staff.manage"
	ActionExportReports       Action = "reports.export"
)

// policy is the single role x action table consulted by every guarded
// route. Roles absent from the table, and actions absent from a role's row,
// are denied.
var policy = map[Role]map[Action]bool{
	RoleParticipant: {},
	RoleReviewer: {
		ActionViewRegistrations: true,
		ActionViewSubmissions:   true,
		ActionReviewSubmissions: true,
	},
	RoleAdmin: {
		ActionViewRegistrations:   true,
		ActionReviewRegistrations: true,
		ActionViewSubmissions:     true,
		ActionReviewSubmissions:   true,
		ActionViewPayments:        true,
		ActionVerifyPayments:      true,
		ActionManageCompetitions:  true,
		ActionExportReports:       true,
	},
	RoleSuperAdmin: {
		ActionViewRegistrations:   true,
		ActionReviewRegistrations: true,
		ActionViewSubmissions:     true,
		ActionReviewSubmissions:   true,
		ActionViewPayments:        true,
		ActionVerifyPayments:      true,
		ActionManageCompetitions:  true,
		ActionManageStaff:         true,
		ActionExportReports:       true,
	},
}

// Can reports whether role may perform action.
func Can(role Role, action Action) bool {
	return policy[role][action]
}

// Capabilities lists the actions role may perform, in table order.
func Capabilities(role Role) []Action {
	var out []Action
	for _, a := range allActions {
		if Can(role, a) {
			out = append(out, a)
		}
	}
	return out
}

var allActions = []Action{
	ActionViewRegistrations,
	ActionReviewRegistrations,
	ActionViewSubmissions,
	ActionReviewSubmissions,
	ActionViewPayments,
	ActionVerifyPayments,
	ActionManageCompetitions,
	ActionManageStaff,
	ActionExportReports,
}
