package best

import (
	"sync"

	"challenge-service/internal/models"
)

// Store holds the in-memory personal-best maps, one per user. It replaces the
// module-level singleton of earlier designs: construct one, pass it around.
// Maps handed in or out are always copies, keeping Merge pure and callers
// race-free.
type Store struct {
	mu    sync.Mutex
	users map[string]Map
}

func NewStore() *Store {
	return &Store{users: make(map[string]Map)}
}

// Current returns a copy of the user's best map.
func (s *Store) Current(userID string) Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].Clone()
}

// Record offers a completed result as a candidate personal best and reports
// whether it improved (or created) the stored entry.
func (s *Store) Record(userID string, res models.ChallengeResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.users[userID]
	if existing, ok := cur[res.ChallengeID]; ok && !localWins(res, existing) {
		return false
	}
	next := cur.Clone()
	next[res.ChallengeID] = res
	s.users[userID] = next
	return true
}

// Replace swaps in a freshly merged map for the user.
func (s *Store) Replace(userID string, m Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = m.Clone()
}

// Drop discards all local state for the user (guest session end, wipe).
func (s *Store) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}
