package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/studio-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

// securityHeaders are written on every response in production. The API only
// serves JSON, so the CSP forbids everything.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Referrer-Policy":           "no-referrer",
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for name, value := range securityHeaders {
			h.Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}

// limitBy builds a token bucket middleware. keyFn picks the bucket; requests
// for which it returns "" pass through untouched.
func limitBy(set *limiterSet, keyFn func(*http.Request) string, message string) func(http.Handler) http.Handler {
	// time until the bucket holds one more token
	retryAfter := time.Duration(float64(time.Second) / float64(set.limit))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key != "" && !set.allow(key) {
				tooManyRequests(w, retryAfter, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, retryAfter time.Duration, message string) {
	secs := int64(math.Ceil(retryAfter.Seconds()))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

const (
	globalRateLimitRPS   = 1
	globalRateLimitBurst = 10

	loginRateLimitEvery = 5 * time.Second
	loginRateLimitBurst = 2
)

var (
	globalLimiters = newLimiterSet(rate.Limit(globalRateLimitRPS), globalRateLimitBurst)
	loginLimiters  = newLimiterSet(rate.Every(loginRateLimitEvery), loginRateLimitBurst)

	// sign-in endpoints share one budget per IP
	signinPaths = map[string]bool{
		"/api/admin/signin":  true,
		"/api/client/signin": true,
	}
)

// GlobalRateLimit allows each IP 1 req/s with a burst of 10.
var GlobalRateLimit = limitBy(globalLimiters, clientip.RealClientIP,
	"Too many requests. Please slow down.")

// LoginRateLimit allows one sign-in attempt every 5s per IP (burst 2) and
// ignores every other path.
var LoginRateLimit = limitBy(loginLimiters, func(r *http.Request) string {
	if !signinPaths[r.URL.Path] {
		return ""
	}
	return clientip.RealClientIP(r)
}, "Too many login attempts. Please try again later.")

// ProductionSecurity is the production middleware chain, outermost first.
func ProductionSecurity() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{SecurityHeaders, GlobalRateLimit, LoginRateLimit}
}
