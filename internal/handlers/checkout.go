package handlers

import "net/http"

// Checkout is a placeholder until a payment provider is integrated. The
// frontend shows a "contact us" fallback on 501.
func Checkout(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "Online checkout is not available yet. Please contact us to get started.")
}
