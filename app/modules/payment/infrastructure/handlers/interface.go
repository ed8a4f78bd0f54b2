package paymenthandlers

import "net/http"

// Handlers serves the payment HTTP API.
type Handlers interface {
	HandleSubmitProof(w http.ResponseWriter, r *http.Request)
	HandleMyPayment(w http.ResponseWriter, r *http.Request)

	HandleListPayments(w http.ResponseWriter, r *http.Request)
	HandleVerify(w http.ResponseWriter, r *http.Request)
	HandleReject(w http.ResponseWriter, r *http.Request)
}
