package middleware

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// Commit listings proxy the GitHub API, so they get their own budget keyed by
// the signed-in principal: 30/min with a burst of 10.
const (
	commitsRatePerSecond = 0.5
	commitsRateBurst     = 10
)

var commitsLimiters = newLimiterSet(rate.Limit(commitsRatePerSecond), commitsRateBurst)

var limitCommits = limitBy(commitsLimiters, principalKey, "Too many commit requests. Please slow down.")

// CommitsRateLimit must run after RequireAdmin or RequireClient.
func CommitsRateLimit(next http.Handler) http.Handler {
	limited := limitCommits(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(commitsRateBurst))
		limited.ServeHTTP(w, r)
	})
}
