package competitionhandlers

import "net/http"

// Handlers serves the competition HTTP API.
type Handlers interface {
	HandleListCompetitions(w http.ResponseWriter, r *http.Request)
	HandleGetCompetition(w http.ResponseWriter, r *http.Request)
	HandleGetPhaseStatus(w http.ResponseWriter, r *http.Request)
	HandleUpdateSettings(w http.ResponseWriter, r *http.Request)
}
