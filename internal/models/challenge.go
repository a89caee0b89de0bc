package models

// ChallengeDefinition describes a timed challenge. Definitions are loaded once
// at startup and never mutated.
type ChallengeDefinition struct {
	ID               string  `bson:"_id" json:"id"`
	Name             string  `bson:"name" json:"name"`
	TimeLimitSeconds int     `bson:"time_limit_seconds" json:"time_limit_seconds"`
	QuestionCount    int     `bson:"question_count" json:"question_count"`
	Multiplier       float64 `bson:"multiplier" json:"multiplier"`
	Difficulty       string  `bson:"difficulty" json:"difficulty"`
	Topic            string  `bson:"topic" json:"topic"`
}
