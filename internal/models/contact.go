package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactSubmission struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ip_address,omitempty"`
}
