package achievement

import (
	"challenge-service/internal/models"
)

// Engine evaluates the rule table against a user's achievement set. It holds
// no per-user state and never panics; an achievement whose id has no rule is
// passed through unchanged.
type Engine struct {
	rules map[string]Rule
	order []string
}

// NewEngine creates an engine from a rule table. A nil table uses
// DefaultRules.
func NewEngine(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	e := &Engine{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		e.rules[r.ID] = r
		e.order = append(e.order, r.ID)
	}
	return e
}

// EvalResult is the outcome of one evaluation pass.
type EvalResult struct {
	Achievements  []models.Achievement `json:"achievements"`
	NewlyUnlocked []models.Achievement `json:"newly_unlocked"`
}

// Evaluate applies the event to every still-locked achievement and returns
// the full updated set plus the entries that transitioned locked to unlocked
// in this call. Already-unlocked achievements are never re-evaluated, progress
// never regresses while locked, and UnlockedAt is set exactly once.
func (e *Engine) Evaluate(counters models.UserProgressCounters, achievements []models.Achievement, event ProgressEvent) EvalResult {
	updated := make([]models.Achievement, 0, len(achievements))
	var newlyUnlocked []models.Achievement

	for _, a := range achievements {
		if a.IsUnlocked {
			updated = append(updated, a)
			continue
		}
		rule, ok := e.rules[a.ID]
		if !ok || rule.Progress == nil {
			updated = append(updated, a)
			continue
		}

		progress := rule.Progress(counters, event, a.Progress)
		if progress < a.Progress {
			progress = a.Progress
		}
		if progress > a.Requirement {
			progress = a.Requirement
		}
		a.Progress = progress

		if a.Progress >= a.Requirement {
			a.IsUnlocked = true
			at := event.OccurredAt
			a.UnlockedAt = &at
			newlyUnlocked = append(newlyUnlocked, a)
		}
		updated = append(updated, a)
	}

	return EvalResult{Achievements: updated, NewlyUnlocked: newlyUnlocked}
}

// Seed returns a fresh, fully-locked achievement set for a new user, in rule
// table order.
func (e *Engine) Seed() []models.Achievement {
	seeded := make([]models.Achievement, 0, len(e.order))
	for _, id := range e.order {
		r := e.rules[id]
		seeded = append(seeded, models.Achievement{
			ID:          r.ID,
			Category:    r.Category,
			Requirement: r.Requirement,
			Rarity:      r.Rarity,
		})
	}
	return seeded
}
