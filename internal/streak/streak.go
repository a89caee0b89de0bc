package streak

import (
	"time"

	"challenge-service/internal/models"
)

// MaxHistory caps the streak history; the oldest entries are evicted first.
const MaxHistory = 365

// Advance applies one "user was active today" event to a streak record and
// returns the new record. The input is never mutated.
//
// Dates are compared at calendar-day granularity in UTC. A lastActiveDate in
// the future (clock skew across devices) is treated as a gap and resets the
// streak to 1 rather than being left undefined.
func Advance(rec models.DailyStreakRecord, now time.Time) models.DailyStreakRecord {
	today := truncateToDay(now)

	if !rec.LastActiveDate.IsZero() {
		last := truncateToDay(rec.LastActiveDate)
		switch daysBetween(last, today) {
		case 0:
			// Already counted today.
			return rec
		case 1:
			next := clone(rec)
			next.CurrentStreak++
			if next.CurrentStreak > next.LongestStreak {
				next.LongestStreak = next.CurrentStreak
			}
			next.LastActiveDate = today
			next.StreakHistory = appendCapped(next.StreakHistory, today)
			return next
		}
	}

	// Gap, clock skew, or first ever activity.
	next := clone(rec)
	next.CurrentStreak = 1
	if next.LongestStreak < 1 {
		next.LongestStreak = 1
	}
	next.LastActiveDate = today
	next.StreakHistory = appendCapped(next.StreakHistory, today)
	return next
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the signed number of calendar days from a to b. Both
// arguments must already be day-truncated. Negative means a is in the future.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func clone(rec models.DailyStreakRecord) models.DailyStreakRecord {
	next := rec
	next.StreakHistory = make([]time.Time, len(rec.StreakHistory), len(rec.StreakHistory)+1)
	copy(next.StreakHistory, rec.StreakHistory)
	return next
}

func appendCapped(history []time.Time, day time.Time) []time.Time {
	history = append(history, day)
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}
	return history
}
