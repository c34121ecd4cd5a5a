package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
)

// Health reports whether PostgreSQL and Redis are reachable.
func Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	writeMessage(w, http.StatusOK, "OK")
}
