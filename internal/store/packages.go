package store

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DefaultPackages are the packages inserted by `admin seed-packages`.
var DefaultPackages = []models.ServicePackage{
	{
		Slug: "starter", Name: "Starter", Tier: models.TierStarter, PriceCents: 49900, SortOrder: 1,
		Description: "A fast, polished marketing site for new businesses.",
		Features:    []string{"Up to 5 pages", "Mobile-first layout", "Contact form", "Monthly edit request"},
	},
	{
		Slug: "pro", Name: "Pro", Tier: models.TierPro, PriceCents: 149900, SortOrder: 2,
		Description: "A growing site with a CMS and ongoing improvements.",
		Features:    []string{"Up to 15 pages", "Headless CMS", "Analytics setup", "Priority edit requests"},
	},
	{
		Slug: "elite", Name: "Elite", Tier: models.TierElite, PriceCents: 399900, SortOrder: 3,
		Description: "A custom web application with a dedicated roadmap.",
		Features:    []string{"Custom features", "Client portal access", "GitHub activity reports", "Top triage priority"},
	},
}

// ListActivePackages returns active packages in display order.
func ListActivePackages(ctx context.Context) ([]models.ServicePackage, error) {
	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT id, slug, name, tier, price_cents, description, features, sort_order, is_active
		FROM service_packages
		WHERE is_active = TRUE
		ORDER BY sort_order ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	packages := []models.ServicePackage{}
	for rows.Next() {
		var p models.ServicePackage
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Tier, &p.PriceCents, &p.Description,
			pq.Array(&p.Features), &p.SortOrder, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

// UpsertPackage inserts p or updates the package with the same slug, and
// reactivates it.
func UpsertPackage(ctx context.Context, p *models.ServicePackage) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.IsActive = true
	err := database.PostgresDB.QueryRowContext(ctx, `
		INSERT INTO service_packages (id, slug, name, tier, price_cents, description, features, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			tier = EXCLUDED.tier,
			price_cents = EXCLUDED.price_cents,
			description = EXCLUDED.description,
			features = EXCLUDED.features,
			sort_order = EXCLUDED.sort_order,
			is_active = TRUE
		RETURNING id
	`, p.ID, p.Slug, p.Name, p.Tier, p.PriceCents, p.Description, pq.Array(p.Features), p.SortOrder).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert package: %w", err)
	}
	return nil
}

// DeactivatePackage hides a package from the public list.
func DeactivatePackage(ctx context.Context, slug string) error {
	res, err := database.PostgresDB.ExecContext(ctx,
		`UPDATE service_packages SET is_active = FALSE WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("deactivate package: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
