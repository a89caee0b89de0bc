package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"challenge-service/internal/best"
	"challenge-service/internal/models"
)

// BestRepository stores one personal-bests document per user. Writes are
// per-challenge field sets, so re-writing the same best is idempotent and
// last-write-wins per key.
type BestRepository struct {
	Col *mongo.Collection
}

func NewBestRepository(db *mongo.Database) *BestRepository {
	return &BestRepository{Col: db.Collection("personal_bests")}
}

type bestDocument struct {
	UserID    string                            `bson:"_id"`
	Bests     map[string]models.ChallengeResult `bson:"bests"`
	UpdatedAt time.Time                         `bson:"updated_at"`
}

// FetchPersonalBests reads the user's best map. A successful query that finds
// no document (or an empty one) reports SnapshotEmpty: the store was reached
// and the user verifiably has no data. Transport errors surface as errors so
// the caller can tell "empty" from "never read".
func (r *BestRepository) FetchPersonalBests(ctx context.Context, userID string) (best.Snapshot, error) {
	var doc bestDocument
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return best.Snapshot{State: best.SnapshotEmpty, Data: best.Map{}}, nil
	}
	if err != nil {
		return best.Snapshot{State: best.SnapshotNotFetched}, err
	}
	if len(doc.Bests) == 0 {
		return best.Snapshot{State: best.SnapshotEmpty, Data: best.Map{}}, nil
	}
	return best.Snapshot{State: best.SnapshotHasData, Data: best.Map(doc.Bests)}, nil
}

// WriteBestResult upserts a single challenge's best for the user.
func (r *BestRepository) WriteBestResult(ctx context.Context, userID string, res models.ChallengeResult) error {
	update := bson.M{
		"$set": bson.M{
			"bests." + res.ChallengeID: res,
			"updated_at":               time.Now(),
		},
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// Wipe removes the user's personal-bests document. Connected clients adopt
// the wipe on their next sync cycle.
func (r *BestRepository) Wipe(ctx context.Context, userID string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
