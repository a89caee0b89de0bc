package achievement

import (
	"testing"
	"time"

	"challenge-service/internal/models"
)

var weekdayNoon = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // a Wednesday

func findAchievement(t *testing.T, list []models.Achievement, id string) models.Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("Achievement %q not in list", id)
	return models.Achievement{}
}

func TestCumulativeThresholdUnlock(t *testing.T) {
	engine := NewEngine(nil)
	achievements := engine.Seed()

	counters := models.UserProgressCounters{TotalQuestionsAnswered: 99}
	res := engine.Evaluate(counters, achievements, ProgressEvent{OccurredAt: weekdayNoon})

	century := findAchievement(t, res.Achievements, "question-century")
	if century.IsUnlocked {
		t.Error("question-century unlocked at 99 answers")
	}
	if century.Progress != 99 {
		t.Errorf("Expected progress 99, got %d", century.Progress)
	}

	counters.TotalQuestionsAnswered = 100
	res = engine.Evaluate(counters, res.Achievements, ProgressEvent{OccurredAt: weekdayNoon})
	century = findAchievement(t, res.Achievements, "question-century")
	if !century.IsUnlocked {
		t.Error("question-century still locked at 100 answers")
	}
	if century.UnlockedAt == nil || !century.UnlockedAt.Equal(weekdayNoon) {
		t.Errorf("Expected UnlockedAt %v, got %v", weekdayNoon, century.UnlockedAt)
	}

	found := false
	for _, a := range res.NewlyUnlocked {
		if a.ID == "question-century" {
			found = true
		}
	}
	if !found {
		t.Error("question-century missing from NewlyUnlocked")
	}
}

func TestOneShotEventRules(t *testing.T) {
	engine := NewEngine(nil)
	achievements := engine.Seed()

	event := ProgressEvent{
		IsTimedQuiz:    true,
		IsTimedPerfect: true,
		OccurredAt:     time.Date(2024, 3, 9, 2, 30, 0, 0, time.UTC), // Saturday, early morning
	}
	res := engine.Evaluate(models.UserProgressCounters{}, achievements, event)

	if a := findAchievement(t, res.Achievements, "speed-demon"); !a.IsUnlocked {
		t.Error("speed-demon should unlock on a timed perfect")
	}
	if a := findAchievement(t, res.Achievements, "early-bird"); !a.IsUnlocked {
		t.Error("early-bird should unlock at 02:30")
	}
	if a := findAchievement(t, res.Achievements, "weekend-warrior"); a.IsUnlocked || a.Progress != 1 {
		t.Errorf("weekend-warrior expected progress 1 and locked, got progress %d unlocked=%v", a.Progress, a.IsUnlocked)
	}
	if a := findAchievement(t, res.Achievements, "against-the-clock"); a.Progress != 1 {
		t.Errorf("against-the-clock expected progress 1, got %d", a.Progress)
	}
	if a := findAchievement(t, res.Achievements, "night-owl"); a.Progress != 0 {
		t.Errorf("night-owl expected no progress at 02:30, got %d", a.Progress)
	}
}

func TestUnlockedNeverReEvaluated(t *testing.T) {
	engine := NewEngine(nil)
	achievements := engine.Seed()

	first := engine.Evaluate(models.UserProgressCounters{TotalQuestionsAnswered: 10}, achievements, ProgressEvent{OccurredAt: weekdayNoon})
	steps := findAchievement(t, first.Achievements, "first-steps")
	if !steps.IsUnlocked {
		t.Fatal("first-steps should unlock after any answered question")
	}
	unlockedAt := *steps.UnlockedAt

	later := weekdayNoon.Add(48 * time.Hour)
	second := engine.Evaluate(models.UserProgressCounters{TotalQuestionsAnswered: 200}, first.Achievements, ProgressEvent{OccurredAt: later})
	steps = findAchievement(t, second.Achievements, "first-steps")
	if !steps.IsUnlocked {
		t.Error("first-steps regressed to locked")
	}
	if !steps.UnlockedAt.Equal(unlockedAt) {
		t.Errorf("UnlockedAt changed on re-evaluation: %v vs %v", steps.UnlockedAt, unlockedAt)
	}
	for _, a := range second.NewlyUnlocked {
		if a.ID == "first-steps" {
			t.Error("first-steps reported newly unlocked twice")
		}
	}
}

func TestProgressMonotonicWhileLocked(t *testing.T) {
	engine := NewEngine(nil)
	achievements := engine.Seed()

	// Streak at 5, then a broken streak drops the counter back to 1.
	res := engine.Evaluate(models.UserProgressCounters{CurrentStreak: 5}, achievements, ProgressEvent{OccurredAt: weekdayNoon})
	warrior := findAchievement(t, res.Achievements, "week-warrior")
	if warrior.Progress != 5 {
		t.Fatalf("Expected progress 5, got %d", warrior.Progress)
	}

	res = engine.Evaluate(models.UserProgressCounters{CurrentStreak: 1}, res.Achievements, ProgressEvent{OccurredAt: weekdayNoon})
	warrior = findAchievement(t, res.Achievements, "week-warrior")
	if warrior.Progress != 5 {
		t.Errorf("Progress regressed while locked: expected 5, got %d", warrior.Progress)
	}
}

func TestProgressClampedToRequirement(t *testing.T) {
	engine := NewEngine(nil)
	achievements := engine.Seed()

	res := engine.Evaluate(models.UserProgressCounters{TotalQuestionsAnswered: 5000}, achievements, ProgressEvent{OccurredAt: weekdayNoon})
	for _, a := range res.Achievements {
		if a.Progress > a.Requirement {
			t.Errorf("%s progress %d exceeds requirement %d", a.ID, a.Progress, a.Requirement)
		}
	}
}

func TestUnknownAchievementPassedThrough(t *testing.T) {
	engine := NewEngine(nil)
	unknown := models.Achievement{ID: "legacy-badge", Requirement: 10, Progress: 4}

	res := engine.Evaluate(models.UserProgressCounters{TotalQuestionsAnswered: 100}, []models.Achievement{unknown}, ProgressEvent{OccurredAt: weekdayNoon})
	got := findAchievement(t, res.Achievements, "legacy-badge")
	if got != unknown {
		t.Errorf("Unknown achievement changed: %+v vs %+v", got, unknown)
	}
	if len(res.NewlyUnlocked) != 0 {
		t.Errorf("Expected no unlocks, got %d", len(res.NewlyUnlocked))
	}
}

func TestSeedIsLocked(t *testing.T) {
	engine := NewEngine(nil)
	for _, a := range engine.Seed() {
		if a.IsUnlocked || a.Progress != 0 || a.UnlockedAt != nil {
			t.Errorf("Seeded achievement %s is not pristine: %+v", a.ID, a)
		}
		if a.Requirement <= 0 {
			t.Errorf("Seeded achievement %s has non-positive requirement", a.ID)
		}
	}
}
