package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"challenge-service/internal/models"
)

// ProgressRepository stores one progress document per user (counters, streak,
// achievements).
type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("user_progress")}
}

// FetchProgress returns nil without an error when the user has no progress
// document yet.
func (r *ProgressRepository) FetchProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&progress)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) WriteProgress(ctx context.Context, userID string, progress *models.UserProgress) error {
	progress.UserID = userID
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": userID}, progress, options.Replace().SetUpsert(true))
	return err
}

func (r *ProgressRepository) Wipe(ctx context.Context, userID string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
