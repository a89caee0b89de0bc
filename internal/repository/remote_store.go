package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"challenge-service/internal/best"
	"challenge-service/internal/models"
)

// RemoteStore combines the per-collection repositories into the single
// remote-store contract the sync engine and progression service consume.
type RemoteStore struct {
	Bests    *BestRepository
	Progress *ProgressRepository
}

func NewRemoteStore(db *mongo.Database) *RemoteStore {
	return &RemoteStore{
		Bests:    NewBestRepository(db),
		Progress: NewProgressRepository(db),
	}
}

func (s *RemoteStore) FetchPersonalBests(ctx context.Context, userID string) (best.Snapshot, error) {
	return s.Bests.FetchPersonalBests(ctx, userID)
}

func (s *RemoteStore) WriteBestResult(ctx context.Context, userID string, res models.ChallengeResult) error {
	return s.Bests.WriteBestResult(ctx, userID, res)
}

func (s *RemoteStore) FetchProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	return s.Progress.FetchProgress(ctx, userID)
}

func (s *RemoteStore) WriteProgress(ctx context.Context, userID string, progress *models.UserProgress) error {
	return s.Progress.WriteProgress(ctx, userID, progress)
}

// WipeUser removes everything stored remotely for the user. The wipe is
// authoritative: clients discard their local state when they observe the
// empty remote.
func (s *RemoteStore) WipeUser(ctx context.Context, userID string) error {
	if err := s.Bests.Wipe(ctx, userID); err != nil {
		return err
	}
	return s.Progress.Wipe(ctx, userID)
}
