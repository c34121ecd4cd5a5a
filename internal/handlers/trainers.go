package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerApplyRequest struct {
	Name              string   `json:"name" validate:"notblank,max=120"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone" validate:"required,min=7,max=32"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0,lte=60"`
	Specialties       []string `json:"specialties" validate:"required,min=1,dive,notblank"`
	Bio               string   `json:"bio" validate:"max=4000"`
	PortfolioURL      string   `json:"portfolio_url" validate:"omitempty,url"`
	CertificateURL    string   `json:"certificate_url" validate:"omitempty,url"`
}

type TrainerListResponse struct {
	Success  bool                        `json:"success"`
	Message  string                      `json:"message,omitempty"`
	Trainers []models.TrainerApplication `json:"trainers"`
	Count    int                         `json:"count"`
}

// ApplyTrainer stores a new trainer application and emails the applicant.
func ApplyTrainer(w http.ResponseWriter, r *http.Request) {
	var req TrainerApplyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	app := &models.TrainerApplication{
		Name:              strings.TrimSpace(req.Name),
		Email:             req.Email,
		Phone:             strings.TrimSpace(req.Phone),
		YearsOfExperience: req.YearsOfExperience,
		Specialties:       req.Specialties,
		Bio:               req.Bio,
		PortfolioURL:      req.PortfolioURL,
		CertificateURL:    req.CertificateURL,
	}
	err := services.CreateTrainerApplication(ctx, app)
	if errors.Is(err, services.ErrTrainerExists) {
		writeError(w, http.StatusConflict, "An application with this email already exists")
		return
	}
	if err != nil {
		log.Printf("create trainer application: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	services.SendEmails(mailer, trainerEmail(app, "We received your application", services.EmailTrainerSubmitted))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Application submitted. We'll review it and get back to you by email.",
		"trainer": app,
	})
}

// CheckTrainerStatus reports the approval state for an applicant email.
func CheckTrainerStatus(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	app, err := services.GetTrainerByEmail(ctx, email)
	if errors.Is(err, services.ErrTrainerNotFound) {
		writeError(w, http.StatusNotFound, "No application found for this email")
		return
	}
	if err != nil {
		log.Printf("get trainer status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to check application status")
		return
	}

	message := "Your application is pending review"
	if app.IsApproved {
		message = "Your application has been approved"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     message,
		"is_approved": app.IsApproved,
		"name":        app.Name,
	})
}

// GetPendingTrainers returns all applications awaiting review (admin only).
func GetPendingTrainers(w http.ResponseWriter, r *http.Request) {
	listTrainers(w, r, false)
}

// GetApprovedTrainers returns all approved applications (admin only).
func GetApprovedTrainers(w http.ResponseWriter, r *http.Request) {
	listTrainers(w, r, true)
}

func listTrainers(w http.ResponseWriter, r *http.Request, approved bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	trainers, err := services.ListTrainers(ctx, approved)
	if err != nil {
		log.Printf("list trainers: %v", err)
		writeJSON(w, http.StatusInternalServerError, TrainerListResponse{
			Success:  false,
			Message:  "Failed to fetch trainers",
			Trainers: []models.TrainerApplication{},
		})
		return
	}
	writeJSON(w, http.StatusOK, TrainerListResponse{
		Success:  true,
		Trainers: trainers,
		Count:    len(trainers),
	})
}

func trainerObjectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Trainer ID is required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trainer ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ApproveTrainer approves an application and emails the applicant (admin only).
func ApproveTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := trainerObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	app, err := services.ApproveTrainer(ctx, id)
	if errors.Is(err, services.ErrTrainerNotFound) {
		writeError(w, http.StatusNotFound, "Trainer not found")
		return
	}
	if err != nil {
		log.Printf("approve trainer: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to approve trainer")
		return
	}

	services.SendEmails(mailer, trainerEmail(app, "Your application was approved", services.EmailTrainerApproved))
	writeMessage(w, http.StatusOK, "Trainer approved successfully")
}

// RejectTrainer deletes a pending application (admin only).
func RejectTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := trainerObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := services.RejectTrainer(ctx, id)
	if errors.Is(err, services.ErrTrainerNotFound) {
		writeError(w, http.StatusNotFound, "Trainer not found or already approved")
		return
	}
	if err != nil {
		log.Printf("reject trainer: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to reject trainer")
		return
	}
	writeMessage(w, http.StatusOK, "Trainer application rejected")
}

func trainerEmail(app *models.TrainerApplication, subject, template string) *services.EmailMessage {
	return &services.EmailMessage{
		To:           []mail.Address{{Name: app.Name, Address: app.Email}},
		Subject:      subject,
		TemplateName: template,
		TemplateData: app,
	}
}
