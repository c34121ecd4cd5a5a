package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/google/uuid"
)

func CreateContact(ctx context.Context, c *models.ContactSubmission) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO contact_us (id, created_at, name, email, message, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.CreatedAt, c.Name, c.Email, c.Message, nullString(c.IPAddress))
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ListContacts returns all contact submissions, newest first.
func ListContacts(ctx context.Context) ([]models.ContactSubmission, error) {
	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT id, created_at, name, email, message, ip_address
		FROM contact_us
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.ContactSubmission{}
	for rows.Next() {
		var (
			c  models.ContactSubmission
			ip sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Email, &c.Message, &ip); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.IPAddress = ip.String
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func DeleteContact(ctx context.Context, id uuid.UUID) error {
	res, err := database.PostgresDB.ExecContext(ctx, `DELETE FROM contact_us WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
