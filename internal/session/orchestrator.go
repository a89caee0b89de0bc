package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"challenge-service/internal/achievement"
	"challenge-service/internal/best"
	"challenge-service/internal/grading"
	"challenge-service/internal/models"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrSessionComplete = errors.New("session: already complete")
	ErrSessionInactive = errors.New("session: not active")
)

// completedRetention is how long a finished session stays retrievable before
// the sweeper drops it. Timer-zero completions happen server-side, so clients
// fetch those results within this window.
const completedRetention = 5 * time.Minute

// Answer is one entry in the append-only answer log.
type Answer struct {
	QuestionIndex int       `json:"question_index"`
	ChosenOption  int       `json:"chosen_option"`
	Correct       bool      `json:"correct"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// Session is one challenge run. UserID is empty for guests. Practice sessions
// never touch achievements, streaks, or the remote store.
type Session struct {
	ID                 string                     `json:"id"`
	UserID             string                     `json:"user_id,omitempty"`
	Challenge          models.ChallengeDefinition `json:"challenge"`
	Practice           bool                       `json:"practice"`
	Status             Status                     `json:"status"`
	StartedAt          time.Time                  `json:"started_at"`
	RemainingSeconds   int                        `json:"remaining_seconds"`
	Answers            []Answer                   `json:"answers"`
	ConsecutiveCorrect int                        `json:"consecutive_correct"`
	Result             *models.ChallengeResult    `json:"result,omitempty"`
}

func (s *Session) correctCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

func (s *Session) answered(questionIndex int) bool {
	for _, a := range s.Answers {
		if a.QuestionIndex == questionIndex {
			return true
		}
	}
	return false
}

// Completion is returned once per session when it transitions to Completed.
// Both completion paths (all answered, timer zero) produce this same shape;
// unanswered questions simply count as incorrect.
type Completion struct {
	Result        models.ChallengeResult `json:"result"`
	NewBest       bool                   `json:"new_best"`
	NewlyUnlocked []models.Achievement   `json:"newly_unlocked,omitempty"`
}

// Progression applies the achievement rules and streak update for one
// completion event and returns the newly unlocked achievements.
type Progression interface {
	Apply(ctx context.Context, userID string, event achievement.ProgressEvent) ([]models.Achievement, error)
}

// BestWriter pushes a fresh personal best toward the remote store.
type BestWriter interface {
	WriteBack(ctx context.Context, userID string, res models.ChallengeResult) error
}

// Orchestrator drives active challenge sessions: countdown, answer capture,
// and the completion pipeline (grade, personal best, progression, write-back).
type Orchestrator struct {
	bests       *best.Store
	progression Progression
	writer      BestWriter
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewOrchestrator(bests *best.Store, progression Progression, writer BestWriter) *Orchestrator {
	return &Orchestrator{
		bests:       bests,
		progression: progression,
		writer:      writer,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Start begins a session for the given challenge, transitioning it straight
// to Active with a full countdown.
func (o *Orchestrator) Start(def models.ChallengeDefinition, userID string, practice bool) (*Session, error) {
	if def.QuestionCount <= 0 || def.TimeLimitSeconds <= 0 || def.Multiplier <= 0 {
		return nil, fmt.Errorf("session: invalid challenge definition %q", def.ID)
	}

	s := &Session{
		ID:               uuid.NewString(),
		UserID:           userID,
		Challenge:        def,
		Practice:         practice,
		Status:           StatusActive,
		StartedAt:        o.now(),
		RemainingSeconds: def.TimeLimitSeconds,
	}

	o.mu.Lock()
	o.sessions[s.ID] = s
	o.mu.Unlock()

	return snapshot(s), nil
}

// Get returns a copy of the session's current state.
func (o *Orchestrator) Get(id string) (*Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(s), nil
}

// Answer appends one answer to the log. When the last question is answered
// the session completes and the Completion is returned; otherwise the
// completion is nil.
func (o *Orchestrator) Answer(ctx context.Context, id string, questionIndex, chosenOption int, correct bool) (*Completion, error) {
	o.mu.Lock()
	s, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.Status == StatusCompleted {
		o.mu.Unlock()
		return nil, ErrSessionComplete
	}
	if s.Status != StatusActive {
		o.mu.Unlock()
		return nil, ErrSessionInactive
	}
	if questionIndex < 0 || questionIndex >= s.Challenge.QuestionCount {
		o.mu.Unlock()
		return nil, fmt.Errorf("session: question index %d out of range [0,%d)", questionIndex, s.Challenge.QuestionCount)
	}
	if s.answered(questionIndex) {
		o.mu.Unlock()
		return nil, fmt.Errorf("session: question %d already answered", questionIndex)
	}

	s.Answers = append(s.Answers, Answer{
		QuestionIndex: questionIndex,
		ChosenOption:  chosenOption,
		Correct:       correct,
		AnsweredAt:    o.now(),
	})
	if correct {
		s.ConsecutiveCorrect++
	} else {
		s.ConsecutiveCorrect = 0
	}

	var finished *Session
	if len(s.Answers) >= s.Challenge.QuestionCount {
		if err := o.finalizeLocked(s); err != nil {
			o.mu.Unlock()
			return nil, err
		}
		finished = snapshot(s)
	}
	o.mu.Unlock()

	if finished == nil {
		return nil, nil
	}
	return o.afterCompletion(ctx, finished), nil
}

// Tick advances the countdown by one second. The countdown never goes
// negative; reaching zero completes the session with whatever answers were
// captured so far.
func (o *Orchestrator) Tick(ctx context.Context, id string) (*Completion, error) {
	o.mu.Lock()
	s, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.Status != StatusActive {
		o.mu.Unlock()
		return nil, ErrSessionInactive
	}

	if s.RemainingSeconds > 0 {
		s.RemainingSeconds--
	}
	var finished *Session
	if s.RemainingSeconds == 0 {
		if err := o.finalizeLocked(s); err != nil {
			o.mu.Unlock()
			return nil, err
		}
		finished = snapshot(s)
	}
	o.mu.Unlock()

	if finished == nil {
		return nil, nil
	}
	return o.afterCompletion(ctx, finished), nil
}

// Run drives the countdown in real time until the session leaves the Active
// state or ctx is cancelled. Callers start it right after Start.
func (o *Orchestrator) Run(ctx context.Context, id string) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			done, err := o.Tick(ctx, id)
			if err != nil || done != nil {
				return
			}
		}
	}
}

// Quit cancels an active session, discarding the timer and answer log without
// completing or syncing anything.
func (o *Orchestrator) Quit(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Status != StatusActive {
		return ErrSessionInactive
	}
	s.Status = StatusCancelled
	s.Answers = nil
	delete(o.sessions, id)
	return nil
}

// finalizeLocked grades the session and moves it to Completed. Caller holds
// o.mu; no side effects beyond the session itself happen here.
func (o *Orchestrator) finalizeLocked(s *Session) error {
	correct := s.correctCount()
	total := s.Challenge.QuestionCount
	timeSpent := s.Challenge.TimeLimitSeconds - s.RemainingSeconds

	graded, err := grading.Grade(correct, total, float64(timeSpent), float64(s.Challenge.TimeLimitSeconds), s.Challenge.Multiplier)
	if err != nil {
		return err
	}

	s.Status = StatusCompleted
	s.Result = &models.ChallengeResult{
		ChallengeID:      s.Challenge.ID,
		Score:            graded.Score,
		Grade:            graded.Grade,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		TimeSpentSeconds: timeSpent,
		Accuracy:         grading.AccuracyPercent(correct, total),
		CompletedAt:      o.now(),
	}
	return nil
}

// afterCompletion runs the post-completion pipeline outside the orchestrator
// lock: record the personal best, then for authenticated non-practice
// sessions apply progression and push the improvement remoteward.
func (o *Orchestrator) afterCompletion(ctx context.Context, s *Session) *Completion {
	result := *s.Result
	completion := &Completion{Result: result}

	if s.UserID == "" {
		// Guest results stay local to the session and are discarded with it,
		// session record included.
		if !s.Practice {
			guestKey := "guest:" + s.ID
			completion.NewBest = o.bests.Record(guestKey, result)
			o.bests.Drop(guestKey)
		}
		o.dropSession(s.ID)
		return completion
	}

	if s.Practice {
		return completion
	}

	completion.NewBest = o.bests.Record(s.UserID, result)

	event := achievement.ProgressEvent{
		QuestionsAnswered: result.TotalQuestions,
		CorrectAnswers:    result.CorrectAnswers,
		IsPerfectScore:    result.CorrectAnswers == result.TotalQuestions,
		QuizTopic:         s.Challenge.Topic,
		IsTimedQuiz:       true,
		IsTimedPerfect:    result.CorrectAnswers == result.TotalQuestions,
		OccurredAt:        result.CompletedAt,
	}
	if o.progression != nil {
		unlocked, err := o.progression.Apply(ctx, s.UserID, event)
		if err != nil {
			log.Printf("session: progression update failed for user %s: %v", s.UserID, err)
		} else {
			completion.NewlyUnlocked = unlocked
		}
	}
	if o.writer != nil && completion.NewBest {
		if err := o.writer.WriteBack(ctx, s.UserID, result); err != nil {
			log.Printf("session: best write-back failed for user %s: %v", s.UserID, err)
		}
	}

	return completion
}

// Sweep drops completed sessions past the retention window and reports how
// many were removed. Active sessions are never touched.
func (o *Orchestrator) Sweep() int {
	now := o.now()
	o.mu.Lock()
	defer o.mu.Unlock()

	removed := 0
	for id, s := range o.sessions {
		if s.Status == StatusCompleted && now.Sub(s.Result.CompletedAt) >= completedRetention {
			delete(o.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps expired sessions on the given interval until ctx is
// cancelled.
func (o *Orchestrator) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Sweep()
		}
	}
}

func (o *Orchestrator) dropSession(id string) {
	o.mu.Lock()
	delete(o.sessions, id)
	o.mu.Unlock()
}

func snapshot(s *Session) *Session {
	copied := *s
	copied.Answers = append([]Answer(nil), s.Answers...)
	if s.Result != nil {
		r := *s.Result
		copied.Result = &r
	}
	return &copied
}
