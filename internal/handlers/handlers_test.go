package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/services"
)

type testEnv struct {
	mock   sqlmock.Sqlmock
	redis  *miniredis.Miniredis
	mailer *services.LogMailer
}

// setup wires the handler globals to sqlmock, miniredis and a quiet mailer.
func setup(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mr := miniredis.RunT(t)

	prevDB, prevRedis, prevMailer, prevNotify := database.PostgresDB, database.RedisClient, mailer, notifyEmail
	database.PostgresDB = db
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logMailer := &services.LogMailer{Quiet: true}
	mailer = logMailer
	notifyEmail = "studio@example.com"
	clientTokens = services.NewClientTokenManager("test-secret")

	t.Cleanup(func() {
		database.RedisClient.Close()
		db.Close()
		database.PostgresDB, database.RedisClient, mailer, notifyEmail = prevDB, prevRedis, prevMailer, prevNotify
	})
	return &testEnv{mock: mock, redis: mr, mailer: logMailer}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asClient(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithClientID(req.Context(), id))
}

func asAdmin(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithAdminID(req.Context(), id))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var clientCols = []string{"id", "created_at", "updated_at", "name", "email", "password_hash", "tier",
	"github_owner", "github_repo", "is_active"}

func clientRow(id uuid.UUID, tier, owner, repo string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(clientCols).
		AddRow(id.String(), now, now, "Acme", "ops@acme.io", "hash", tier, owner, repo, true)
}

var requestCols = []string{
	"id", "created_at", "updated_at", "client_id", "name",
	"title", "description", "feedback_type", "priority", "submitted_tier", "tier",
	"status", "estimated_cost", "approved_cost", "admin_notes",
}

type requestFixture struct {
	id                                  uuid.UUID
	title, feedbackType, priority, tier string
	submittedTier, status               string
	createdAt                           time.Time
}

func requestRows(fixtures ...requestFixture) *sqlmock.Rows {
	rows := sqlmock.NewRows(requestCols)
	clientID := uuid.New().String()
	for _, f := range fixtures {
		submitted := f.submittedTier
		if submitted == "" {
			submitted = f.tier
		}
		rows.AddRow(f.id.String(), f.createdAt, f.createdAt, clientID, "Acme",
			f.title, "", f.feedbackType, f.priority, submitted, f.tier,
			f.status, nil, nil, "")
	}
	return rows
}

func withTimeout(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

var sqlNoRows = sql.ErrNoRows
