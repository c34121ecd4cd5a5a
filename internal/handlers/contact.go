package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/internal/store"
	"github.com/AnshRaj112/studio-backend/pkg/clientip"
)

// SubmitContactRequest represents the request to submit contact form
type SubmitContactRequest struct {
	Name    string `json:"name" validate:"notblank,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// GetContactsResponse represents the response for getting contact submissions
type GetContactsResponse struct {
	Success  bool                       `json:"success"`
	Message  string                     `json:"message,omitempty"`
	Contacts []models.ContactSubmission `json:"contacts"`
	Total    int                        `json:"total"`
}

// SubmitContact stores a contact form submission and notifies the studio.
func SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c := &models.ContactSubmission{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Message:   strings.TrimSpace(req.Message),
		IPAddress: clientip.RealClientIP(r),
	}
	if err := store.CreateContact(r.Context(), c); err != nil {
		log.Printf("create contact: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit contact form")
		return
	}

	if notifyEmail != "" {
		services.SendEmails(mailer, &services.EmailMessage{
			To:           []mail.Address{{Address: notifyEmail}},
			Subject:      "New contact form submission from " + c.Name,
			TemplateName: services.EmailContact,
			TemplateData: c,
		})
	}

	writeMessage(w, http.StatusCreated, "Contact form submitted successfully. We'll get back to you soon!")
}

// GetContacts handles getting all contact submissions (admin only)
func GetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := store.ListContacts(r.Context())
	if err != nil {
		log.Printf("list contacts: %v", err)
		writeJSON(w, http.StatusInternalServerError, GetContactsResponse{
			Success:  false,
			Message:  "Failed to fetch contacts",
			Contacts: []models.ContactSubmission{},
		})
		return
	}

	writeJSON(w, http.StatusOK, GetContactsResponse{
		Success:  true,
		Contacts: contacts,
		Total:    len(contacts),
	})
}

// DeleteContact deletes a contact submission by ID (admin only)
func DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Contact")
	if !ok {
		return
	}

	err := store.DeleteContact(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		log.Printf("delete contact: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	writeMessage(w, http.StatusOK, "Contact deleted successfully")
}
