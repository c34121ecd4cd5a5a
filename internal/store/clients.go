package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/google/uuid"
)

const clientColumns = `id, created_at, updated_at, name, email, password_hash, tier,
	COALESCE(github_owner, ''), COALESCE(github_repo, ''), is_active`

func scanClient(row interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Email, &c.PasswordHash, &c.Tier,
		&c.GitHubOwner, &c.GitHubRepo, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient inserts c, filling in its ID and timestamps.
func CreateClient(ctx context.Context, c *models.Client) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.IsActive = true

	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO clients (id, created_at, updated_at, name, email, password_hash, tier, github_owner, github_repo, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.CreatedAt, c.UpdatedAt, c.Name, c.Email, c.PasswordHash, c.Tier,
		nullString(c.GitHubOwner), nullString(c.GitHubRepo), c.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	c, err := scanClient(database.PostgresDB.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	c, err := scanClient(database.PostgresDB.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE LOWER(email) = $1`, strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client by email: %w", err)
	}
	return c, nil
}

// ListClients returns every client, newest first.
func ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := database.PostgresDB.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// UpdateClientTier changes the client's subscription tier. Listings that
// resolve the current tier pick the change up immediately.
func UpdateClientTier(ctx context.Context, id uuid.UUID, tier string) error {
	res, err := database.PostgresDB.ExecContext(ctx,
		`UPDATE clients SET tier = $1, updated_at = $2 WHERE id = $3`, tier, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update client tier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
