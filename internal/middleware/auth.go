package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/pkg/clientip"
	"github.com/google/uuid"
)

const (
	// AdminSessionCookie carries the opaque admin session token.
	AdminSessionCookie = "admin_session"
	// ClientTokenCookie carries the signed client JWT.
	ClientTokenCookie = "client_token"
)

type contextKey string

const (
	adminIDKey  contextKey = "admin_id"
	clientIDKey contextKey = "client_id"
)

// BearerToken returns the token from an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// AdminSessionToken finds the admin session token in the Authorization
// header, the admin_session cookie or, for WebSocket upgrades, the token
// query parameter.
func AdminSessionToken(r *http.Request) string {
	if token := tokenFromRequest(r, AdminSessionCookie); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

// RequireAdmin rejects requests without a live admin session and stores the
// admin ID in the request context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminID, ok, err := services.ValidateAdminSession(r.Context(), AdminSessionToken(r))
		if err != nil || !ok {
			unauthorized(w, "Admin authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAdminID(r.Context(), adminID)))
	})
}

// RequireClient rejects requests without a valid client token and stores the
// client ID in the request context.
func RequireClient(tokens *services.ClientTokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, err := tokens.Validate(tokenFromRequest(r, ClientTokenCookie))
			if err != nil {
				unauthorized(w, "Client authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
		})
	}
}

// AdminID returns the admin set by RequireAdmin.
func AdminID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(adminIDKey).(uuid.UUID)
	return id, ok
}

// ClientID returns the client set by RequireClient.
func ClientID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(clientIDKey).(uuid.UUID)
	return id, ok
}

// WithClientID returns a context carrying clientID the way RequireClient does.
func WithClientID(ctx context.Context, clientID uuid.UUID) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

// WithAdminID returns a context carrying adminID the way RequireAdmin does.
func WithAdminID(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, adminIDKey, adminID)
}

// principalKey identifies the caller for per-principal limits, falling back
// to the client IP.
func principalKey(r *http.Request) string {
	if id, ok := AdminID(r.Context()); ok {
		return "admin:" + id.String()
	}
	if id, ok := ClientID(r.Context()); ok {
		return "client:" + id.String()
	}
	return "ip:" + clientip.RealClientIP(r)
}
