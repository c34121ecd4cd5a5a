package models

import "github.com/google/uuid"

// ServicePackage is a priced offering shown on the marketing site.
type ServicePackage struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Tier        string    `json:"tier"`
	PriceCents  int64     `json:"price_cents"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
}
