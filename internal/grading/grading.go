package grading

import (
	"fmt"
	"math"

	"challenge-service/internal/models"
)

// Grade thresholds (inclusive lower bounds).
const (
	ThresholdS = 180
	ThresholdA = 150
	ThresholdB = 120
	ThresholdC = 90
)

// Result is the output of scoring one completed attempt.
type Result struct {
	Score int          `json:"score"`
	Grade models.Grade `json:"grade"`
}

// Grade computes the score and letter grade for a completed attempt.
//
// accuracy contributes up to 100 points, the speed bonus up to 25
// (half the unused time fraction, scaled by 50), and the challenge
// multiplier scales the total. Time spent beyond the limit is clamped so
// a timer overrun never produces a negative bonus.
func Grade(correct, total int, timeSpentSeconds, timeLimitSeconds float64, multiplier float64) (Result, error) {
	if total <= 0 {
		return Result{}, fmt.Errorf("grading: total questions must be positive, got %d", total)
	}
	if correct < 0 || correct > total {
		return Result{}, fmt.Errorf("grading: correct answers %d out of range [0,%d]", correct, total)
	}
	if timeLimitSeconds <= 0 {
		return Result{}, fmt.Errorf("grading: time limit must be positive, got %v", timeLimitSeconds)
	}
	if multiplier <= 0 {
		return Result{}, fmt.Errorf("grading: multiplier must be positive, got %v", multiplier)
	}

	accuracy := float64(correct) / float64(total)
	timeBonusFraction := (timeLimitSeconds - timeSpentSeconds) / timeLimitSeconds
	if timeBonusFraction < 0 {
		timeBonusFraction = 0
	}
	speedBonus := timeBonusFraction * 0.5

	score := int(math.Round((accuracy*100 + speedBonus*50) * multiplier))
	return Result{Score: score, Grade: ForScore(score)}, nil
}

// ForScore classifies a score into a letter grade. It is exposed separately
// from Grade because stored scores are re-classified without access to the
// original attempt inputs.
func ForScore(score int) models.Grade {
	switch {
	case score >= ThresholdS:
		return models.GradeS
	case score >= ThresholdA:
		return models.GradeA
	case score >= ThresholdB:
		return models.GradeB
	case score >= ThresholdC:
		return models.GradeC
	}
	return models.GradeD
}

// AccuracyPercent is the 0-100 integer accuracy stored on a result.
func AccuracyPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
