package models

import "time"

type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Rank orders grades for tie-breaking, S highest. Unknown grades rank below D.
func (g Grade) Rank() int {
	switch g {
	case GradeS:
		return 5
	case GradeA:
		return 4
	case GradeB:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	}
	return 0
}

// ChallengeResult records one completed challenge attempt. It is immutable
// after creation; the personal-best map keeps the highest-scoring one per
// challenge.
type ChallengeResult struct {
	ChallengeID      string    `bson:"challenge_id" json:"challenge_id"`
	Score            int       `bson:"score" json:"score"`
	Grade            Grade     `bson:"grade" json:"grade"`
	CorrectAnswers   int       `bson:"correct_answers" json:"correct_answers"`
	TotalQuestions   int       `bson:"total_questions" json:"total_questions"`
	TimeSpentSeconds int       `bson:"time_spent_seconds" json:"time_spent_seconds"`
	Accuracy         int       `bson:"accuracy" json:"accuracy"`
	CompletedAt      time.Time `bson:"completed_at" json:"completed_at"`
}
