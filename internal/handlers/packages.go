package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/internal/store"
)

type PackagesResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	Packages []models.ServicePackage `json:"packages"`
}

type UpsertPackageRequest struct {
	Slug        string   `json:"slug" validate:"required,max=64,slug"`
	Name        string   `json:"name" validate:"notblank,max=120"`
	Tier        string   `json:"tier" validate:"tier"`
	PriceCents  int64    `json:"price_cents" validate:"gte=0"`
	Description string   `json:"description" validate:"max=2000"`
	Features    []string `json:"features" validate:"dive,notblank"`
	SortOrder   int      `json:"sort_order"`
}

// GetPackages returns the active service packages, served from Redis when cached.
func GetPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := services.Cached(r.Context(), services.Cache, services.PackagesCacheKey, store.ListActivePackages)
	if err != nil {
		log.Printf("list packages: %v", err)
		writeJSON(w, http.StatusInternalServerError, PackagesResponse{
			Success:  false,
			Message:  "Failed to fetch packages",
			Packages: []models.ServicePackage{},
		})
		return
	}
	writeJSON(w, http.StatusOK, PackagesResponse{Success: true, Packages: packages})
}

// UpsertPackage creates or updates a package by slug (admin only).
func UpsertPackage(w http.ResponseWriter, r *http.Request) {
	var req UpsertPackageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p := &models.ServicePackage{
		Slug:        req.Slug,
		Name:        strings.TrimSpace(req.Name),
		Tier:        req.Tier,
		PriceCents:  req.PriceCents,
		Description: req.Description,
		Features:    req.Features,
		SortOrder:   req.SortOrder,
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if err := store.UpsertPackage(r.Context(), p); err != nil {
		log.Printf("upsert package: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save package")
		return
	}
	invalidatePackagesCache(r)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Package saved",
		"package": p,
	})
}

// DeactivatePackage hides a package from the public list (admin only).
func DeactivatePackage(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Package slug is required")
		return
	}

	err := store.DeactivatePackage(r.Context(), strings.ToLower(slug))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Package not found")
		return
	}
	if err != nil {
		log.Printf("deactivate package: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to deactivate package")
		return
	}
	invalidatePackagesCache(r)

	writeMessage(w, http.StatusOK, "Package deactivated")
}

func invalidatePackagesCache(r *http.Request) {
	if err := services.Cache.Delete(r.Context(), services.PackagesCacheKey); err != nil {
		log.Printf("invalidate packages cache: %v", err)
	}
}
