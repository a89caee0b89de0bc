package achievement

import (
	"time"

	"challenge-service/internal/models"
)

// ProgressEvent carries everything one completed quiz/challenge contributes to
// achievement evaluation. Temporal flags derive from OccurredAt.
type ProgressEvent struct {
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	IsPerfectScore    bool      `json:"is_perfect_score"`
	QuizTopic         string    `json:"quiz_topic"`
	IsTimedQuiz       bool      `json:"is_timed_quiz"`
	IsTimedPerfect    bool      `json:"is_timed_perfect"`
	OccurredAt        time.Time `json:"occurred_at"`
}

func (e ProgressEvent) IsEarlyMorning() bool {
	return e.OccurredAt.Hour() < 6
}

func (e ProgressEvent) IsLateNight() bool {
	return e.OccurredAt.Hour() >= 23
}

func (e ProgressEvent) IsWeekend() bool {
	wd := e.OccurredAt.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Rule defines how one achievement accumulates progress. Progress returns the
// new progress value given the cumulative counters, the event, and the current
// progress; the engine clamps it and decides unlocking. Cumulative rules
// mirror a counter, one-shot rules increment on their triggering event.
type Rule struct {
	ID          string
	Category    string
	Rarity      models.Rarity
	Requirement int
	Progress    func(c models.UserProgressCounters, e ProgressEvent, current int) int
}

func fromCounter(pick func(models.UserProgressCounters) int) func(models.UserProgressCounters, ProgressEvent, int) int {
	return func(c models.UserProgressCounters, _ ProgressEvent, _ int) int {
		return pick(c)
	}
}

func onEvent(trigger func(ProgressEvent) bool) func(models.UserProgressCounters, ProgressEvent, int) int {
	return func(_ models.UserProgressCounters, e ProgressEvent, current int) int {
		if trigger(e) {
			return current + 1
		}
		return current
	}
}

// DefaultRules is the static rule table. New achievements are new entries
// here, not new branches in the engine.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID: "first-steps", Category: "volume", Rarity: models.RarityCommon, Requirement: 1,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.TotalQuestionsAnswered }),
		},
		{
			ID: "question-century", Category: "volume", Rarity: models.RarityRare, Requirement: 100,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.TotalQuestionsAnswered }),
		},
		{
			ID: "scholar", Category: "volume", Rarity: models.RarityEpic, Requirement: 500,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.TotalQuestionsAnswered }),
		},
		{
			ID: "sharp-shooter", Category: "accuracy", Rarity: models.RarityRare, Requirement: 100,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.TotalCorrectAnswers }),
		},
		{
			ID: "perfectionist", Category: "accuracy", Rarity: models.RarityRare, Requirement: 1,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.PerfectScores }),
		},
		{
			ID: "flawless-five", Category: "accuracy", Rarity: models.RarityEpic, Requirement: 5,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.PerfectScores }),
		},
		{
			ID: "on-a-roll", Category: "streak", Rarity: models.RarityCommon, Requirement: 3,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.CurrentStreak }),
		},
		{
			ID: "week-warrior", Category: "streak", Rarity: models.RarityRare, Requirement: 7,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.CurrentStreak }),
		},
		{
			ID: "monthly-devotion", Category: "streak", Rarity: models.RarityLegendary, Requirement: 30,
			Progress: fromCounter(func(c models.UserProgressCounters) int { return c.CurrentStreak }),
		},
		{
			ID: "early-bird", Category: "temporal", Rarity: models.RarityCommon, Requirement: 1,
			Progress: onEvent(ProgressEvent.IsEarlyMorning),
		},
		{
			ID: "night-owl", Category: "temporal", Rarity: models.RarityCommon, Requirement: 1,
			Progress: onEvent(ProgressEvent.IsLateNight),
		},
		{
			ID: "weekend-warrior", Category: "temporal", Rarity: models.RarityRare, Requirement: 5,
			Progress: onEvent(ProgressEvent.IsWeekend),
		},
		{
			ID: "against-the-clock", Category: "timed", Rarity: models.RarityRare, Requirement: 10,
			Progress: onEvent(func(e ProgressEvent) bool { return e.IsTimedQuiz }),
		},
		{
			ID: "speed-demon", Category: "timed", Rarity: models.RarityLegendary, Requirement: 1,
			Progress: onEvent(func(e ProgressEvent) bool { return e.IsTimedPerfect }),
		},
	}
}
