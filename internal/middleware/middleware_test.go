package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/services"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := database.RedisClient
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		database.RedisClient.Close()
		database.RedisClient = prev
	})
	return mr
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitMiddlewareBlocksAfterLimit(t *testing.T) {
	mr := setupRedis(t)
	h := RateLimitMiddleware(okHandler)

	for i := 0; i < RateLimitMaxRequests; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
	assert.Equal(t, RateLimitWindow, mr.TTL(RateLimitKeyPrefix+"10.0.0.1"))

	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "86400", rec.Header().Get("Retry-After"))

	blocked, err := IsIPBlocked(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, blocked)

	// other IPs are unaffected
	req = httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, UnblockIP(context.Background(), "10.0.0.1"))
	blocked, _ = IsIPBlocked(context.Background(), "10.0.0.1")
	assert.False(t, blocked)
}

func TestLoginRateLimitOnlyAppliesToSignin(t *testing.T) {
	h := LoginRateLimit(okHandler)

	codes := []int{}
	for i := 0; i < loginRateLimitBurst+1; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/client/signin", nil)
		req.RemoteAddr = "192.0.2.10:1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.True(t, loginLimiters.entries["192.0.2.10"] != nil)

	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	req.RemoteAddr = "192.0.2.10:1"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGlobalRateLimitIsPerIP(t *testing.T) {
	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		GlobalRateLimit(okHandler).ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < globalRateLimitBurst; i++ {
		require.Equal(t, http.StatusOK, send("198.51.100.7:80").Code)
	}
	rec := send("198.51.100.7:80")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests. Please slow down."}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, send("198.51.100.8:80").Code)
}

func TestLimiterSetEvictsIdleKeys(t *testing.T) {
	s := newLimiterSet(rate.Limit(1), 1)
	s.get("a")
	s.evictIdle(time.Now().Add(limiterTTL + time.Second))
	assert.Empty(t, s.entries)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://studio.dev"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/packages", nil)
	req.Header.Set("Origin", "https://studio.dev")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://studio.dev", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequireAdmin(t *testing.T) {
	setupRedis(t)
	adminID := uuid.New()
	token, err := services.CreateAdminSession(context.Background(), adminID)
	require.NoError(t, err)

	var seen uuid.UUID
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/requests", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/requests", nil)
	req.AddCookie(&http.Cookie{Name: AdminSessionCookie, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminID, seen)

	req = httptest.NewRequest(http.MethodGet, "/ws/admin/requests?token="+token, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireClient(t *testing.T) {
	tokens := services.NewClientTokenManager("secret")
	clientID := uuid.New()
	token, err := tokens.Generate(clientID, "pro")
	require.NoError(t, err)

	var seen uuid.UUID
	h := RequireClient(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClientID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/client/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clientID, seen)

	req = httptest.NewRequest(http.MethodGet, "/api/client/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommitsRateLimitIsPerPrincipal(t *testing.T) {
	h := CommitsRateLimit(okHandler)
	a, b := uuid.New(), uuid.New()

	send := func(id uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/api/client/commits", nil)
		req = req.WithContext(WithClientID(req.Context(), id))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < commitsRateBurst; i++ {
		require.Equal(t, http.StatusOK, send(a))
	}
	assert.Equal(t, http.StatusTooManyRequests, send(a))
	assert.Equal(t, http.StatusOK, send(b))
}
