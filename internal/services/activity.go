package services

import (
	"context"
	"log"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollection = "request_activity"

// EnsureActivityIndexes configures indexes for the request_activity collection.
func EnsureActivityIndexes(ctx context.Context) error {
	col := database.DB.Collection(activityCollection)
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "request_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
		Options: options.Index().SetName("idx_request_created"),
	})
	return err
}

// RecordActivity stores one timeline entry, stamping CreatedAt when unset.
func RecordActivity(ctx context.Context, a *models.RequestActivity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := database.DB.Collection(activityCollection).InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// RecordActivityAsync persists a timeline entry without blocking the caller.
func RecordActivityAsync(a models.RequestActivity) {
	if database.DB == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := RecordActivity(ctx, &a); err != nil {
			log.Printf("failed to record %s activity for request %s: %v", a.Action, a.RequestID, err)
		}
	}()
}

// ListActivity returns the timeline of a request, oldest first.
func ListActivity(ctx context.Context, requestID string) ([]models.RequestActivity, error) {
	cursor, err := database.DB.Collection(activityCollection).Find(ctx,
		bson.M{"request_id": requestID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	activity := []models.RequestActivity{}
	if err := cursor.All(ctx, &activity); err != nil {
		return nil, err
	}
	return activity, nil
}
