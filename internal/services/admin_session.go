package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Admin sessions are opaque tokens kept in Redis under two keys:
// admin_session:<token> -> admin id, and admin_to_session:<admin id> -> token.
// The reverse key lets a new sign-in revoke the previous session.
const (
	AdminSessionDuration    = 7 * 24 * time.Hour
	AdminSessionKeyPrefix   = "admin_session:"
	AdminToSessionKeyPrefix = "admin_to_session:"

	sessionTokenBytes = 32
)

var errEmptySessionToken = errors.New("session token is empty")

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateAdminSession signs adminID in and returns the session token. Any
// session the admin already had stops working.
func CreateAdminSession(ctx context.Context, adminID uuid.UUID) (string, error) {
	if err := InvalidateAdminSessions(ctx, adminID); err != nil {
		return "", err
	}

	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	_, err = database.RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, AdminSessionKeyPrefix+token, adminID.String(), AdminSessionDuration)
		pipe.Set(ctx, AdminToSessionKeyPrefix+adminID.String(), token, AdminSessionDuration)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store admin session: %w", err)
	}
	return token, nil
}

// ValidateAdminSession resolves a token to its admin. Unknown and expired
// tokens report ok=false with a nil error.
func ValidateAdminSession(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	raw, err := database.RedisClient.Get(ctx, AdminSessionKeyPrefix+sessionToken).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("load admin session: %w", err)
	}

	adminID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt admin session: %w", err)
	}
	return adminID, true, nil
}

// RefreshAdminSession restarts the 7 day window on both session keys.
func RefreshAdminSession(ctx context.Context, sessionToken string) error {
	adminID, ok, err := ValidateAdminSession(ctx, sessionToken)
	switch {
	case sessionToken == "":
		return errEmptySessionToken
	case err != nil:
		return err
	case !ok:
		return redis.Nil
	}

	_, err = database.RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Expire(ctx, AdminSessionKeyPrefix+sessionToken, AdminSessionDuration)
		pipe.Expire(ctx, AdminToSessionKeyPrefix+adminID.String(), AdminSessionDuration)
		return nil
	})
	return err
}

// InvalidateAdminSession signs a single token out.
func InvalidateAdminSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	adminID, err := database.RedisClient.GetDel(ctx, AdminSessionKeyPrefix+sessionToken).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return database.RedisClient.Del(ctx, AdminToSessionKeyPrefix+adminID).Err()
}

// InvalidateAdminSessions signs an admin out everywhere.
func InvalidateAdminSessions(ctx context.Context, adminID uuid.UUID) error {
	token, err := database.RedisClient.GetDel(ctx, AdminToSessionKeyPrefix+adminID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return database.RedisClient.Del(ctx, AdminSessionKeyPrefix+token).Err()
}
