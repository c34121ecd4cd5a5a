package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSessionLifecycle(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	adminID := uuid.New()

	token, err := CreateAdminSession(ctx, adminID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, AdminSessionDuration, mr.TTL(AdminSessionKeyPrefix+token))

	got, ok, err := ValidateAdminSession(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, adminID, got)

	require.NoError(t, InvalidateAdminSession(ctx, token))
	_, ok, _ = ValidateAdminSession(ctx, token)
	assert.False(t, ok)
	assert.False(t, mr.Exists(AdminToSessionKeyPrefix+adminID.String()))
}

func TestCreateAdminSessionReplacesPrevious(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()
	adminID := uuid.New()

	first, err := CreateAdminSession(ctx, adminID)
	require.NoError(t, err)
	second, err := CreateAdminSession(ctx, adminID)
	require.NoError(t, err)

	_, ok, _ := ValidateAdminSession(ctx, first)
	assert.False(t, ok, "first session must be invalidated")
	_, ok, _ = ValidateAdminSession(ctx, second)
	assert.True(t, ok)
}

func TestRefreshAdminSession(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	token, err := CreateAdminSession(ctx, uuid.New())
	require.NoError(t, err)

	mr.FastForward(AdminSessionDuration / 2)
	require.NoError(t, RefreshAdminSession(ctx, token))
	assert.Equal(t, AdminSessionDuration, mr.TTL(AdminSessionKeyPrefix+token))

	assert.Error(t, RefreshAdminSession(ctx, ""))
}

func TestValidateAdminSessionEmptyToken(t *testing.T) {
	id, ok, err := ValidateAdminSession(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
}

func TestRefreshAdminSessionUnknownToken(t *testing.T) {
	setupRedis(t)
	assert.Error(t, RefreshAdminSession(context.Background(), "missing"))
}

func TestValidateAdminSessionCorruptValue(t *testing.T) {
	mr := setupRedis(t)
	require.NoError(t, mr.Set(AdminSessionKeyPrefix+"tok", "not-a-uuid"))

	_, ok, err := ValidateAdminSession(context.Background(), "tok")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestInvalidateAdminSessionsWithoutSession(t *testing.T) {
	setupRedis(t)
	assert.NoError(t, InvalidateAdminSessions(context.Background(), uuid.New()))
	assert.NoError(t, InvalidateAdminSession(context.Background(), "never-issued"))
}
