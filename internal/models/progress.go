package models

import "time"

// UserProgressCounters are cumulative and only grow, except on an
// administrative reset. They are updated exactly once per completed challenge.
type UserProgressCounters struct {
	TotalQuestionsAnswered int `bson:"total_questions_answered" json:"total_questions_answered"`
	TotalCorrectAnswers    int `bson:"total_correct_answers" json:"total_correct_answers"`
	PerfectScores          int `bson:"perfect_scores" json:"perfect_scores"`
	CurrentStreak          int `bson:"current_streak" json:"current_streak"`
	LongestStreak          int `bson:"longest_streak" json:"longest_streak"`
}

// DailyStreakRecord tracks consecutive active days. StreakHistory holds the
// most recent active dates, oldest evicted beyond 365 entries.
type DailyStreakRecord struct {
	CurrentStreak  int         `bson:"current_streak" json:"current_streak"`
	LongestStreak  int         `bson:"longest_streak" json:"longest_streak"`
	LastActiveDate time.Time   `bson:"last_active_date" json:"last_active_date"`
	StreakHistory  []time.Time `bson:"streak_history" json:"streak_history"`
}

// UserProgress is the per-user progress document stored remotely.
type UserProgress struct {
	UserID       string               `bson:"_id" json:"user_id"`
	Counters     UserProgressCounters `bson:"counters" json:"counters"`
	Streak       DailyStreakRecord    `bson:"streak" json:"streak"`
	Achievements []Achievement        `bson:"achievements" json:"achievements"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}
