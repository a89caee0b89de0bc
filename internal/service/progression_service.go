package service

import (
	"context"
	"fmt"
	"log"

	"challenge-service/internal/achievement"
	"challenge-service/internal/models"
	"challenge-service/internal/streak"
	"challenge-service/internal/syncer"
)

// EventPublisher is the slice of the event bus the progression service needs.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// ProgressionService owns the per-user progress record: cumulative counters,
// the daily streak, and the achievement set. It mutates the record exactly
// once per completed challenge event.
type ProgressionService struct {
	remote    syncer.RemoteStore
	engine    *achievement.Engine
	publisher EventPublisher
}

func NewProgressionService(remote syncer.RemoteStore, engine *achievement.Engine, publisher EventPublisher) *ProgressionService {
	if engine == nil {
		engine = achievement.NewEngine(nil)
	}
	return &ProgressionService{remote: remote, engine: engine, publisher: publisher}
}

// Apply folds one completion event into the user's progress record and
// persists it. Returns the achievements newly unlocked by this event.
func (s *ProgressionService) Apply(ctx context.Context, userID string, event achievement.ProgressEvent) ([]models.Achievement, error) {
	progress, err := s.remote.FetchProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progression: fetch for user %s: %w", userID, err)
	}
	if progress == nil {
		progress = &models.UserProgress{UserID: userID, Achievements: s.engine.Seed()}
	}

	progress.Counters.TotalQuestionsAnswered += event.QuestionsAnswered
	progress.Counters.TotalCorrectAnswers += event.CorrectAnswers
	if event.IsPerfectScore {
		progress.Counters.PerfectScores++
	}

	progress.Streak = streak.Advance(progress.Streak, event.OccurredAt)
	progress.Counters.CurrentStreak = progress.Streak.CurrentStreak
	progress.Counters.LongestStreak = progress.Streak.LongestStreak

	evaluated := s.engine.Evaluate(progress.Counters, progress.Achievements, event)
	progress.Achievements = evaluated.Achievements
	progress.UpdatedAt = event.OccurredAt

	if err := s.remote.WriteProgress(ctx, userID, progress); err != nil {
		return nil, fmt.Errorf("progression: write for user %s: %w", userID, err)
	}

	if s.publisher != nil {
		for _, a := range evaluated.NewlyUnlocked {
			payload := map[string]interface{}{
				"user_id":        userID,
				"achievement_id": a.ID,
				"rarity":         a.Rarity,
				"unlocked_at":    a.UnlockedAt,
			}
			if err := s.publisher.Publish("achievement.unlocked", payload); err != nil {
				log.Printf("progression: publish unlock %s for user %s: %v", a.ID, userID, err)
			}
		}
	}

	return evaluated.NewlyUnlocked, nil
}

// Get returns the user's progress record, seeding a fresh one for users who
// have never completed a challenge.
func (s *ProgressionService) Get(ctx context.Context, userID string) (*models.UserProgress, error) {
	progress, err := s.remote.FetchProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progression: fetch for user %s: %w", userID, err)
	}
	if progress == nil {
		progress = &models.UserProgress{UserID: userID, Achievements: s.engine.Seed()}
	}
	return progress, nil
}
