package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainerCollection = "trainer_applications"

var (
	ErrTrainerNotFound = errors.New("trainer application not found")
	ErrTrainerExists   = errors.New("an application with this email already exists")
)

// EnsureTrainerIndexes makes email unique across applications.
func EnsureTrainerIndexes(ctx context.Context) error {
	col := database.DB.Collection(trainerCollection)
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email_unique").SetUnique(true),
	})
	return err
}

// CreateTrainerApplication stores a new, unapproved application.
func CreateTrainerApplication(ctx context.Context, app *models.TrainerApplication) error {
	col := database.DB.Collection(trainerCollection)
	app.Email = strings.ToLower(strings.TrimSpace(app.Email))

	count, err := col.CountDocuments(ctx, bson.M{"email": app.Email})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTrainerExists
	}

	now := time.Now().UTC()
	app.ID = primitive.NewObjectID()
	app.CreatedAt, app.UpdatedAt = now, now
	app.IsApproved = false

	if _, err := col.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTrainerExists
		}
		return err
	}
	return nil
}

func GetTrainerByEmail(ctx context.Context, email string) (*models.TrainerApplication, error) {
	var app models.TrainerApplication
	err := database.DB.Collection(trainerCollection).
		FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).
		Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListTrainers returns applications with the given approval state, newest first.
func ListTrainers(ctx context.Context, approved bool) ([]models.TrainerApplication, error) {
	cursor, err := database.DB.Collection(trainerCollection).Find(ctx,
		bson.M{"is_approved": approved},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	apps := []models.TrainerApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ApproveTrainer marks an application approved and returns it.
func ApproveTrainer(ctx context.Context, id primitive.ObjectID) (*models.TrainerApplication, error) {
	var app models.TrainerApplication
	err := database.DB.Collection(trainerCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_approved": true, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// RejectTrainer deletes a pending application. Approved ones are kept.
func RejectTrainer(ctx context.Context, id primitive.ObjectID) error {
	result, err := database.DB.Collection(trainerCollection).DeleteOne(ctx, bson.M{"_id": id, "is_approved": false})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrTrainerNotFound
	}
	return nil
}
