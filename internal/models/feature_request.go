package models

import (
	"time"

	"github.com/AnshRaj112/studio-backend/internal/ranking"
	"github.com/google/uuid"
)

// Feedback types a client can submit. Only feature requests are estimated.
const (
	FeedbackEdit    = "edit"
	FeedbackFeature = "feature"
	FeedbackBug     = "bug"
	FeedbackComment = "comment"
)

// Request priorities declared by the client.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Request lifecycle states.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDeclined   = "declined"
)

var (
	FeedbackTypes = []string{FeedbackEdit, FeedbackFeature, FeedbackBug, FeedbackComment}
	Priorities    = []string{PriorityLow, PriorityMedium, PriorityHigh}
	Statuses      = []string{StatusPending, StatusInProgress, StatusCompleted, StatusDeclined}
)

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type FeatureRequest struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name,omitempty"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	FeedbackType string `json:"feedback_type"`
	Priority     string `json:"priority"`

	// SubmittedTier is the client's tier when the request was filed.
	// Tier is the tier used for ranking; depending on the query it is either
	// the client's current tier or SubmittedTier.
	SubmittedTier string `json:"submitted_tier"`
	Tier          string `json:"tier"`

	Status        string   `json:"status"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	ApprovedCost  *float64 `json:"approved_cost,omitempty"`
	AdminNotes    string   `json:"admin_notes,omitempty"`
}

// RankItem returns the attributes the ranking policies look at.
func (r *FeatureRequest) RankItem() ranking.Item {
	return ranking.Item{
		Tier:         r.Tier,
		Priority:     r.Priority,
		Status:       r.Status,
		FeedbackType: r.FeedbackType,
		CreatedAt:    r.CreatedAt,
	}
}

// IsEstimable reports whether the request can carry a cost estimate.
func (r *FeatureRequest) IsEstimable() bool {
	return r.FeedbackType == FeedbackFeature
}
