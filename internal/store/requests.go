package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/google/uuid"
)

// TierSource selects which tier a request listing reports and ranks by.
type TierSource int

const (
	// TierCurrent joins the owning client and uses its tier at read time.
	TierCurrent TierSource = iota
	// TierSubmitted uses the tier stored on the request when it was filed.
	TierSubmitted
)

func (s TierSource) column() string {
	if s == TierSubmitted {
		return "fr.submitted_tier"
	}
	return "c.tier"
}

// RequestFilter narrows ListRequests. Zero values match everything.
type RequestFilter struct {
	ClientID uuid.UUID
	Status   string
}

func requestSelect(src TierSource) string {
	return `SELECT fr.id, fr.created_at, fr.updated_at, fr.client_id, c.name,
		fr.title, fr.description, fr.feedback_type, fr.priority, fr.submitted_tier, ` + src.column() + `,
		fr.status, fr.estimated_cost, fr.approved_cost, COALESCE(fr.admin_notes, '')
	FROM feature_requests fr
	JOIN clients c ON c.id = fr.client_id`
}

func scanRequest(row interface{ Scan(...interface{}) error }) (*models.FeatureRequest, error) {
	var (
		r                   models.FeatureRequest
		estimated, approved sql.NullFloat64
	)
	err := row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.ClientID, &r.ClientName,
		&r.Title, &r.Description, &r.FeedbackType, &r.Priority, &r.SubmittedTier, &r.Tier,
		&r.Status, &estimated, &approved, &r.AdminNotes)
	if err != nil {
		return nil, err
	}
	r.EstimatedCost = floatPtr(estimated)
	r.ApprovedCost = floatPtr(approved)
	return &r, nil
}

// CreateRequest stores a new pending request. r.SubmittedTier must already
// hold the client's tier; ID, status and timestamps are filled in here.
func CreateRequest(ctx context.Context, r *models.FeatureRequest) error {
	r.ID = uuid.New()
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	r.Status = models.StatusPending
	if r.Tier == "" {
		r.Tier = r.SubmittedTier
	}

	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO feature_requests (id, created_at, updated_at, client_id, title, description, feedback_type, priority, submitted_tier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.CreatedAt, r.UpdatedAt, r.ClientID, r.Title, r.Description, r.FeedbackType, r.Priority, r.SubmittedTier, r.Status)
	if err != nil {
		return fmt.Errorf("insert feature request: %w", err)
	}
	return nil
}

// GetRequest loads one request with its tier resolved from src.
func GetRequest(ctx context.Context, id uuid.UUID, src TierSource) (*models.FeatureRequest, error) {
	r, err := scanRequest(database.PostgresDB.QueryRowContext(ctx, requestSelect(src)+` WHERE fr.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get feature request: %w", err)
	}
	return r, nil
}

// ListRequests returns requests matching f, newest first. Callers apply a
// ranking policy on top of this order.
func ListRequests(ctx context.Context, f RequestFilter, src TierSource) ([]models.FeatureRequest, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.ClientID != uuid.Nil {
		args = append(args, f.ClientID)
		where = append(where, "fr.client_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "fr.status = $"+strconv.Itoa(len(args)))
	}

	query := requestSelect(src)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY fr.created_at DESC"

	rows, err := database.PostgresDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feature requests: %w", err)
	}
	defer rows.Close()

	requests := []models.FeatureRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feature request: %w", err)
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

// UpdateRequestStatus sets the status (and notes, when non-empty) and
// returns the previous status. Concurrent edits are last-write-wins.
func UpdateRequestStatus(ctx context.Context, id uuid.UUID, status, notes string) (string, error) {
	var previous string
	err := database.PostgresDB.QueryRowContext(ctx, `
		UPDATE feature_requests fr
		SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), fr.admin_notes), updated_at = $3
		FROM feature_requests old
		WHERE fr.id = $4 AND old.id = fr.id
		RETURNING old.status
	`, status, notes, time.Now().UTC(), id).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("update feature request status: %w", err)
	}
	return previous, nil
}

// SetEstimate records the admin's cost estimate on a feature request. Any
// earlier client approval is cleared because it referred to another amount.
func SetEstimate(ctx context.Context, id uuid.UUID, cost float64) error {
	res, err := database.PostgresDB.ExecContext(ctx, `
		UPDATE feature_requests
		SET estimated_cost = $1, approved_cost = NULL, updated_at = $2
		WHERE id = $3 AND feedback_type = $4
	`, cost, time.Now().UTC(), id, models.FeedbackFeature)
	if err != nil {
		return fmt.Errorf("set estimate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveEstimate copies the estimate into approved_cost for a request owned
// by clientID. It reports ErrNotFound when the request is not the client's or
// carries no estimate.
func ApproveEstimate(ctx context.Context, id, clientID uuid.UUID) (float64, error) {
	var approved float64
	err := database.PostgresDB.QueryRowContext(ctx, `
		UPDATE feature_requests
		SET approved_cost = estimated_cost, updated_at = $1
		WHERE id = $2 AND client_id = $3 AND estimated_cost IS NOT NULL
		RETURNING approved_cost
	`, time.Now().UTC(), id, clientID).Scan(&approved)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("approve estimate: %w", err)
	}
	return approved, nil
}
