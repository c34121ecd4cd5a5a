package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions recorded against a feature request.
const (
	ActivityCreated          = "created"
	ActivityStatusChanged    = "status_changed"
	ActivityEstimated        = "estimated"
	ActivityEstimateApproved = "estimate_approved"
)

// RequestActivity is one entry of a feature request's timeline.
type RequestActivity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	RequestID string             `bson:"request_id" json:"request_id"`
	ClientID  string             `bson:"client_id" json:"client_id"`
	Actor     string             `bson:"actor" json:"actor"` // "client:<id>" or "admin:<id>"
	Action    string             `bson:"action" json:"action"`
	From      string             `bson:"from,omitempty" json:"from,omitempty"`
	To        string             `bson:"to,omitempty" json:"to,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
}
