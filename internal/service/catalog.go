package service

import (
	"errors"

	"challenge-service/internal/models"
)

var ErrChallengeNotFound = errors.New("service: challenge not found")

// Catalog holds the immutable challenge definitions, loaded once at startup.
type Catalog struct {
	defs  map[string]models.ChallengeDefinition
	order []string
}

func NewCatalog(defs []models.ChallengeDefinition) *Catalog {
	c := &Catalog{defs: make(map[string]models.ChallengeDefinition, len(defs))}
	for _, def := range defs {
		c.defs[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	return c
}

func (c *Catalog) Get(id string) (models.ChallengeDefinition, error) {
	def, ok := c.defs[id]
	if !ok {
		return models.ChallengeDefinition{}, ErrChallengeNotFound
	}
	return def, nil
}

func (c *Catalog) List() []models.ChallengeDefinition {
	out := make([]models.ChallengeDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// DefaultChallenges is the built-in challenge set.
func DefaultChallenges() []models.ChallengeDefinition {
	return []models.ChallengeDefinition{
		{ID: "blitz-15", Name: "Blitz 15", TimeLimitSeconds: 180, QuestionCount: 15, Multiplier: 2.0, Difficulty: "hard", Topic: "general"},
		{ID: "rapid-10", Name: "Rapid 10", TimeLimitSeconds: 150, QuestionCount: 10, Multiplier: 1.5, Difficulty: "medium", Topic: "general"},
		{ID: "warmup-5", Name: "Warm-Up 5", TimeLimitSeconds: 120, QuestionCount: 5, Multiplier: 1.0, Difficulty: "easy", Topic: "general"},
		{ID: "science-sprint", Name: "Science Sprint", TimeLimitSeconds: 240, QuestionCount: 20, Multiplier: 1.8, Difficulty: "hard", Topic: "science"},
		{ID: "history-dash", Name: "History Dash", TimeLimitSeconds: 200, QuestionCount: 12, Multiplier: 1.4, Difficulty: "medium", Topic: "history"},
	}
}
