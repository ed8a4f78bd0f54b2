package submissionhandlers

import "net/http"

// Handlers serves the submission HTTP API.
type Handlers interface {
	HandleSubmit(w http.ResponseWriter, r *http.Request)
	HandleMySubmissions(w http.ResponseWriter, r *http.Request)

	HandleListSubmissions(w http.ResponseWriter, r *http.Request)
	HandleApprove(w http.ResponseWriter, r *http.Request)
	HandleReject(w http.ResponseWriter, r *http.Request)
}
