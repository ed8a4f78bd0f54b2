package userhandlers

import "net/http"

// Handlers serves the account HTTP API.
type Handlers interface {
	HandleLogin(w http.ResponseWriter, r *http.Request)
	HandleLogout(w http.ResponseWriter, r *http.Request)
	HandleActivate(w http.ResponseWriter, r *http.Request)
	HandleGoogleLogin(w http.ResponseWriter, r *http.Request)
	HandleGoogleCallback(w http.ResponseWriter, r *http.Request)
	HandleStaffLogin(w http.ResponseWriter, r *http.Request)
	HandleListStaff(w http.ResponseWriter, r *http.Request)
	HandleCreateStaff(w http.ResponseWriter, r *http.Request)
	HandleDeactivateStaff(w http.ResponseWriter, r *http.Request)
}
