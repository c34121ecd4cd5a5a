package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tiers offered to clients.
const (
	TierStarter = "starter"
	TierPro     = "pro"
	TierElite   = "elite"
)

// Tiers lists every tier in ascending order of service level.
var Tiers = []string{TierStarter, TierPro, TierElite}

// IsValidTier reports whether tier is one of the subscription tiers.
func IsValidTier(tier string) bool {
	for _, t := range Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

type Client struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Tier         string    `json:"tier"`

	// Repository shown on the client's commit activity page
	GitHubOwner string `json:"github_owner,omitempty"`
	GitHubRepo  string `json:"github_repo,omitempty"`

	IsActive bool `json:"is_active"`
}

// HasRepository reports whether a GitHub repository is linked to the client.
func (c *Client) HasRepository() bool {
	return c.GitHubOwner != "" && c.GitHubRepo != ""
}
