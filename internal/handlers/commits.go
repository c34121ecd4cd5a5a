package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/internal/store"
)

type CommitsResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Repository string            `json:"repository,omitempty"`
	Commits    []services.Commit `json:"commits"`
}

// GetClientCommits lists recent commits of the signed-in client's repository.
func GetClientCommits(w http.ResponseWriter, r *http.Request) {
	c, ok := currentClient(w, r)
	if !ok {
		return
	}
	writeCommits(w, r, c)
}

// GetClientCommitsAdmin lists recent commits of any client's repository (admin only).
func GetClientCommitsAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Client")
	if !ok {
		return
	}
	c, err := store.GetClientByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	if err != nil {
		log.Printf("get client: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeCommits(w, r, c)
}

func writeCommits(w http.ResponseWriter, r *http.Request, c *models.Client) {
	if !c.HasRepository() {
		writeError(w, http.StatusNotFound, "No repository is linked to this client")
		return
	}
	if githubService == nil {
		writeError(w, http.StatusServiceUnavailable, "GitHub integration is not available")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > services.MaxCommitLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	commits, err := githubService.ListCommits(r.Context(), c.GitHubOwner, c.GitHubRepo, limit)
	if err != nil {
		log.Printf("list commits for %s/%s: %v", c.GitHubOwner, c.GitHubRepo, err)
		writeJSON(w, http.StatusBadGateway, CommitsResponse{
			Success: false,
			Message: "Failed to fetch commits from GitHub",
			Commits: []services.Commit{},
		})
		return
	}

	writeJSON(w, http.StatusOK, CommitsResponse{
		Success:    true,
		Repository: c.GitHubOwner + "/" + c.GitHubRepo,
		Commits:    commits,
	})
}
