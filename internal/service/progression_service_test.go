package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"challenge-service/internal/achievement"
	"challenge-service/internal/best"
	"challenge-service/internal/models"
)

type fakeRemote struct {
	progress map[string]*models.UserProgress
	fetchErr error
	writeErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{progress: make(map[string]*models.UserProgress)}
}

func (f *fakeRemote) FetchPersonalBests(ctx context.Context, userID string) (best.Snapshot, error) {
	return best.Snapshot{State: best.SnapshotEmpty}, nil
}

func (f *fakeRemote) WriteBestResult(ctx context.Context, userID string, res models.ChallengeResult) error {
	return nil
}

func (f *fakeRemote) FetchProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.progress[userID], nil
}

func (f *fakeRemote) WriteProgress(ctx context.Context, userID string, p *models.UserProgress) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.progress[userID] = p
	return nil
}

type capturedEvent struct {
	eventType string
	payload   interface{}
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(eventType string, payload interface{}) error {
	f.events = append(f.events, capturedEvent{eventType, payload})
	return nil
}

func completionEvent(day int) achievement.ProgressEvent {
	return achievement.ProgressEvent{
		QuestionsAnswered: 15,
		CorrectAnswers:    15,
		IsPerfectScore:    true,
		IsTimedQuiz:       true,
		IsTimedPerfect:    true,
		OccurredAt:        time.Date(2024, 3, 4+day, 12, 0, 0, 0, time.UTC),
	}
}

func TestApplySeedsNewUser(t *testing.T) {
	remote := newFakeRemote()
	pub := &fakePublisher{}
	svc := NewProgressionService(remote, nil, pub)

	unlocked, err := svc.Apply(context.Background(), "u1", completionEvent(0))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	stored := remote.progress["u1"]
	if stored == nil {
		t.Fatal("Progress not persisted")
	}
	if stored.Counters.TotalQuestionsAnswered != 15 || stored.Counters.TotalCorrectAnswers != 15 {
		t.Errorf("Counters wrong: %+v", stored.Counters)
	}
	if stored.Counters.PerfectScores != 1 {
		t.Errorf("Expected 1 perfect score, got %d", stored.Counters.PerfectScores)
	}
	if stored.Streak.CurrentStreak != 1 {
		t.Errorf("Expected streak 1, got %d", stored.Streak.CurrentStreak)
	}
	if len(unlocked) == 0 {
		t.Error("A perfect timed first challenge should unlock something")
	}
	if len(pub.events) != len(unlocked) {
		t.Errorf("Expected %d unlock events published, got %d", len(unlocked), len(pub.events))
	}
	for _, e := range pub.events {
		if e.eventType != "achievement.unlocked" {
			t.Errorf("Unexpected event type %s", e.eventType)
		}
	}
}

func TestApplyAccumulatesAcrossDays(t *testing.T) {
	remote := newFakeRemote()
	svc := NewProgressionService(remote, nil, nil)

	for dayOffset := 0; dayOffset < 3; dayOffset++ {
		if _, err := svc.Apply(context.Background(), "u1", completionEvent(dayOffset)); err != nil {
			t.Fatalf("Apply day %d failed: %v", dayOffset, err)
		}
	}

	stored := remote.progress["u1"]
	if stored.Counters.TotalQuestionsAnswered != 45 {
		t.Errorf("Expected 45 questions, got %d", stored.Counters.TotalQuestionsAnswered)
	}
	if stored.Streak.CurrentStreak != 3 || stored.Streak.LongestStreak != 3 {
		t.Errorf("Expected 3-day streak, got %+v", stored.Streak)
	}

	var onARoll models.Achievement
	for _, a := range stored.Achievements {
		if a.ID == "on-a-roll" {
			onARoll = a
		}
	}
	if !onARoll.IsUnlocked {
		t.Error("on-a-roll should unlock after a 3-day streak")
	}
}

func TestApplyFetchErrorSurfaces(t *testing.T) {
	remote := newFakeRemote()
	remote.fetchErr = errors.New("network down")
	svc := NewProgressionService(remote, nil, nil)

	if _, err := svc.Apply(context.Background(), "u1", completionEvent(0)); err == nil {
		t.Error("Expected fetch error to surface")
	}
}

func TestGetSeedsWithoutPersisting(t *testing.T) {
	remote := newFakeRemote()
	svc := NewProgressionService(remote, nil, nil)

	progress, err := svc.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(progress.Achievements) == 0 {
		t.Error("Expected seeded achievement set")
	}
	if remote.progress["fresh"] != nil {
		t.Error("Get must not persist anything")
	}
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog(DefaultChallenges())

	def, err := catalog.Get("blitz-15")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if def.TimeLimitSeconds != 180 || def.Multiplier != 2.0 {
		t.Errorf("Unexpected blitz-15 definition: %+v", def)
	}
	if _, err := catalog.Get("missing"); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("Expected ErrChallengeNotFound, got %v", err)
	}
	if len(catalog.List()) != len(DefaultChallenges()) {
		t.Error("List does not cover all definitions")
	}
}
