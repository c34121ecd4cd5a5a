package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/pkg/utils"
)

var adminCols = []string{"id", "created_at", "username", "email", "password_hash", "is_active"}

func TestAdminSignin(t *testing.T) {
	env := setup(t)
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	adminID := uuid.New()

	env.mock.ExpectQuery("FROM admins").WithArgs("root").
		WillReturnRows(sqlmock.NewRows(adminCols).AddRow(adminID.String(), time.Now(), "root", "root@studio.dev", hash, true))
	rec := serve(AdminSignin, jsonRequest(t, http.MethodPost, "/api/admin/signin",
		map[string]string{"username": "root", "password": "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.mock.ExpectQuery("FROM admins").WithArgs("root").
		WillReturnRows(sqlmock.NewRows(adminCols).AddRow(adminID.String(), time.Now(), "root", "root@studio.dev", hash, true))
	rec = serve(AdminSignin, jsonRequest(t, http.MethodPost, "/api/admin/signin",
		map[string]string{"username": " root ", "password": "correct horse"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AdminSessionCookie, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	id, ok, err := services.ValidateAdminSession(withTimeout(t), token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, adminID, id)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAdminSigninInactive(t *testing.T) {
	env := setup(t)
	hash, err := utils.HashPassword("secret-pass")
	require.NoError(t, err)

	env.mock.ExpectQuery("FROM admins").
		WillReturnRows(sqlmock.NewRows(adminCols).AddRow(uuid.NewString(), time.Now(), "root", "root@studio.dev", hash, false))
	rec := serve(AdminSignin, jsonRequest(t, http.MethodPost, "/api/admin/signin",
		map[string]string{"username": "root", "password": "secret-pass"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClientSigninIssuesToken(t *testing.T) {
	env := setup(t)
	hash, err := utils.HashPassword("client-pass")
	require.NoError(t, err)
	clientID := uuid.New()

	now := time.Now()
	env.mock.ExpectQuery("FROM clients WHERE LOWER").WithArgs("ops@acme.io").
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow(clientID.String(), now, now, "Acme", "ops@acme.io", hash, "pro", "", "", true))

	rec := serve(ClientSignin, jsonRequest(t, http.MethodPost, "/api/client/signin",
		map[string]string{"email": "Ops@Acme.io", "password": "client-pass"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, _ := decode(t, rec)["token"].(string)
	got, err := clientTokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, got)
	assert.Equal(t, middleware.ClientTokenCookie, rec.Result().Cookies()[0].Name)
}

func TestCreateClientRequiresOwnerAndRepoTogether(t *testing.T) {
	setup(t)
	rec := serve(CreateClient, jsonRequest(t, http.MethodPost, "/api/admin/clients", map[string]string{
		"name": "Acme", "email": "ops@acme.io", "password": "long-enough", "tier": "pro", "github_owner": "acme",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "github_owner and github_repo must be set together", decode(t, rec)["message"])
}

func TestCurrentClientRejectsInactive(t *testing.T) {
	env := setup(t)
	clientID := uuid.New()
	now := time.Now()
	env.mock.ExpectQuery("FROM clients WHERE id").
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow(clientID.String(), now, now, "Acme", "ops@acme.io", "hash", "pro", "", "", false))

	rec := serve(ClientMe, asClient(jsonRequest(t, http.MethodGet, "/api/client/me", nil), clientID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(ClientMe, jsonRequest(t, http.MethodGet, "/api/client/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnblockIP(t *testing.T) {
	env := setup(t)
	key := middleware.BlockedIPKeyPrefix + "203.0.113.9"
	require.NoError(t, env.redis.Set(key, "1"))
	env.redis.SetTTL(key, time.Hour)

	rec := serve(GetBlockedIPs, jsonRequest(t, http.MethodGet, "/api/admin/blocked-ips", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	entry := body["blocked_ips"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "203.0.113.9", entry["ip_address"])

	rec = serve(UnblockIP, jsonRequest(t, http.MethodPut, "/api/admin/unblock-ip", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(UnblockIP, jsonRequest(t, http.MethodPut, "/api/admin/unblock-ip?ip=203.0.113.9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	blocked, err := middleware.IsIPBlocked(withTimeout(t), "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, blocked)
}
