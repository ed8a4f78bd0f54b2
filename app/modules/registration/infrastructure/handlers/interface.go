package registrationhandlers

import "net/http"

// Handlers serves the registration HTTP API.
type Handlers interface {
	HandleRegister(w http.ResponseWriter, r *http.Request)
	HandleLookup(w http.ResponseWriter, r *http.Request)
	HandleMyRegistration(w http.ResponseWriter, r *http.Request)

	HandleListRegistrations(w http.ResponseWriter, r *http.Request)
	HandleApprove(w http.ResponseWriter, r *http.Request)
	HandleReject(w http.ResponseWriter, r *http.Request)
}
