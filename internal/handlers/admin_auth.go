package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/internal/store"
	"github.com/AnshRaj112/studio-backend/pkg/utils"
)

// AdminSigninRequest represents the request to sign in as admin
type AdminSigninRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// AdminSigninResponse represents the response after admin signin
type AdminSigninResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Admin   *models.Admin `json:"admin,omitempty"`
	Token   string        `json:"token,omitempty"`
}

func setAuthCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// AdminSignin verifies credentials and opens a Redis-backed session.
// Admin accounts are created with `admin create-admin`; there is no signup.
func AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := store.GetAdminByUsername(r.Context(), utils.NormalizeUsername(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		log.Printf("admin signin: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !admin.IsActive {
		writeError(w, http.StatusForbidden, "Admin account is inactive")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := services.CreateAdminSession(r.Context(), admin.ID)
	if err != nil {
		log.Printf("create admin session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	setAuthCookie(w, middleware.AdminSessionCookie, token, services.AdminSessionDuration)

	writeJSON(w, http.StatusOK, AdminSigninResponse{
		Success: true,
		Message: "Admin signed in successfully",
		Admin:   admin,
		Token:   token,
	})
}

// AdminSignout invalidates the caller's session.
func AdminSignout(w http.ResponseWriter, r *http.Request) {
	if err := services.InvalidateAdminSession(r.Context(), middleware.AdminSessionToken(r)); err != nil {
		log.Printf("invalidate admin session: %v", err)
	}
	clearAuthCookie(w, middleware.AdminSessionCookie)
	writeMessage(w, http.StatusOK, "Signed out")
}

// UnblockIP lifts a rate-limit block (admin only).
func UnblockIP(w http.ResponseWriter, r *http.Request) {
	ip := strings.TrimSpace(r.URL.Query().Get("ip"))
	if ip == "" {
		writeError(w, http.StatusBadRequest, "IP address is required")
		return
	}
	if err := middleware.UnblockIP(r.Context(), ip); err != nil {
		log.Printf("unblock ip: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to unblock IP")
		return
	}
	writeMessage(w, http.StatusOK, "IP unblocked")
}

// GetBlockedIPs lists addresses blocked by the rate limiter (admin only).
func GetBlockedIPs(w http.ResponseWriter, r *http.Request) {
	blocked, err := middleware.ListBlockedIPs(r.Context())
	if err != nil {
		log.Printf("list blocked ips: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch blocked IPs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"blocked_ips": blocked,
		"count":       len(blocked),
	})
}

// AdminMe returns the signed-in admin and slides the session expiry forward.
func AdminMe(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.AdminID(r.Context())

	admin, err := store.GetAdminByID(r.Context(), adminID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Admin account no longer exists")
		return
	}
	if err != nil {
		log.Printf("get admin: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := services.RefreshAdminSession(r.Context(), middleware.AdminSessionToken(r)); err != nil {
		log.Printf("refresh admin session: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admin":   admin,
	})
}
