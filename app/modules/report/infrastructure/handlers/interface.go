package reporthandlers

import "net/http"

// Handlers serves the staff report downloads.
type Handlers interface {
	HandleExportRegistrations(w http.ResponseWriter, r *http.Request)
	HandleRegistrationChart(w http.ResponseWriter, r *http.Request)
}
