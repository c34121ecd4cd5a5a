package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/internal/store"
	"github.com/AnshRaj112/studio-backend/pkg/utils"
)

type CreateClientRequest struct {
	Name        string `json:"name" validate:"notblank,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	Tier        string `json:"tier" validate:"tier"`
	GitHubOwner string `json:"github_owner" validate:"omitempty,max=100"`
	GitHubRepo  string `json:"github_repo" validate:"omitempty,max=100"`
}

type UpdateTierRequest struct {
	Tier string `json:"tier" validate:"tier"`
}

type ClientSigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ClientResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Client  *models.Client `json:"client,omitempty"`
	Token   string         `json:"token,omitempty"`
}

// CreateClient registers a client account (admin only).
func CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if (req.GitHubOwner == "") != (req.GitHubRepo == "") {
		writeError(w, http.StatusBadRequest, "github_owner and github_repo must be set together")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	c := &models.Client{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Tier:         req.Tier,
		GitHubOwner:  strings.TrimSpace(req.GitHubOwner),
		GitHubRepo:   strings.TrimSpace(req.GitHubRepo),
	}
	err = store.CreateClient(r.Context(), c)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "A client with this email already exists")
		return
	}
	if err != nil {
		log.Printf("create client: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}

	writeJSON(w, http.StatusCreated, ClientResponse{Success: true, Message: "Client created", Client: c})
}

// GetClients lists every client (admin only).
func GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := store.ListClients(r.Context())
	if err != nil {
		log.Printf("list clients: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"clients": clients,
		"count":   len(clients),
	})
}

// UpdateClientTier changes a client's tier (admin only). Rankings that use
// the current tier reflect the change on the next read.
func UpdateClientTier(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Client")
	if !ok {
		return
	}
	var req UpdateTierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := store.UpdateClientTier(r.Context(), id, req.Tier)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	if err != nil {
		log.Printf("update client tier: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update tier")
		return
	}
	writeMessage(w, http.StatusOK, "Tier updated")
}

// ClientSignin verifies credentials and issues a client token.
func ClientSignin(w http.ResponseWriter, r *http.Request) {
	var req ClientSigninRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := store.GetClientByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("client signin: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, c.PasswordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !c.IsActive {
		writeError(w, http.StatusForbidden, "Client account is inactive")
		return
	}

	token, err := clientTokens.Generate(c.ID, c.Tier)
	if err != nil {
		log.Printf("sign client token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	setAuthCookie(w, middleware.ClientTokenCookie, token, services.ClientTokenDuration)

	writeJSON(w, http.StatusOK, ClientResponse{
		Success: true,
		Message: "Signed in successfully",
		Client:  c,
		Token:   token,
	})
}

// ClientSignout clears the client cookie. Tokens are stateless and expire on
// their own.
func ClientSignout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, middleware.ClientTokenCookie)
	writeMessage(w, http.StatusOK, "Signed out")
}

// ClientMe returns the signed-in client.
func ClientMe(w http.ResponseWriter, r *http.Request) {
	c, ok := currentClient(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ClientResponse{Success: true, Client: c})
}

// currentClient loads the client set by RequireClient. Deactivated or
// deleted clients are rejected even with a valid token.
func currentClient(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	clientID, ok := middleware.ClientID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Client authentication required")
		return nil, false
	}
	c, err := store.GetClientByID(r.Context(), clientID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Client account no longer exists")
		return nil, false
	}
	if err != nil {
		log.Printf("get client: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	if !c.IsActive {
		writeError(w, http.StatusForbidden, "Client account is inactive")
		return nil, false
	}
	return c, true
}
