package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerApplication struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`

	// Professional background
	YearsOfExperience int      `bson:"years_of_experience" json:"years_of_experience"`
	Specialties       []string `bson:"specialties" json:"specialties"`
	Bio               string   `bson:"bio,omitempty" json:"bio,omitempty"`
	PortfolioURL      string   `bson:"portfolio_url,omitempty" json:"portfolio_url,omitempty"`

	// Uploaded through /api/upload
	CertificateURL string `bson:"certificate_url,omitempty" json:"certificate_url,omitempty"`

	IsApproved bool `bson:"is_approved" json:"is_approved"`
}
