package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/google/uuid"
)

// CreateAdmin inserts a, filling in its ID and creation time.
func CreateAdmin(ctx context.Context, a *models.Admin) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	a.IsActive = true
	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO admins (id, created_at, updated_at, username, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.CreatedAt, a.CreatedAt, a.Username, a.Email, a.PasswordHash, a.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT id, created_at, username, email, password_hash, is_active
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.CreatedAt, &a.Username, &a.Email, &a.PasswordHash, &a.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

func GetAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var a models.Admin
	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT id, created_at, username, email, password_hash, is_active
		FROM admins
		WHERE id = $1
	`, id).Scan(&a.ID, &a.CreatedAt, &a.Username, &a.Email, &a.PasswordHash, &a.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}
