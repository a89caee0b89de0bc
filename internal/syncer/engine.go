package syncer

import (
	"context"
	"errors"
	"log"
	"sync"

	"challenge-service/internal/best"
	"challenge-service/internal/models"
)

// State of a sync cycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateMerging  State = "merging"
	StateWriting  State = "writing"
	StateFailed   State = "failed"
)

var (
	// ErrSyncInFlight means a cycle is already running for the user; the
	// trigger is a no-op.
	ErrSyncInFlight = errors.New("syncer: sync already in flight for user")
	// ErrGuestSession means the caller asked to sync a guest; guests never
	// touch the remote store.
	ErrGuestSession = errors.New("syncer: guest sessions are never synced")
)

// RemoteStore is the contract the engine needs from the hosted document
// store: per-key reads and last-write-wins single-document writes, nothing
// more.
type RemoteStore interface {
	FetchPersonalBests(ctx context.Context, userID string) (best.Snapshot, error)
	WriteBestResult(ctx context.Context, userID string, res models.ChallengeResult) error
	FetchProgress(ctx context.Context, userID string) (*models.UserProgress, error)
	WriteProgress(ctx context.Context, userID string, progress *models.UserProgress) error
}

// LocalCache is the durable device-local cache of the best map.
type LocalCache interface {
	Load(ctx context.Context, userID string) (best.Map, error)
	Save(ctx context.Context, userID string, m best.Map) error
}

// Report summarizes one sync cycle.
type Report struct {
	State        State `json:"state"`
	RemoteRead   bool  `json:"remote_read"`
	Wiped        bool  `json:"wiped"`
	Written      int   `json:"written"`
	WriteErrors  int   `json:"write_errors"`
	SkippedStale int   `json:"skipped_stale"`
}

// Engine reconciles the in-memory best store with the local cache and the
// remote store. One cycle runs per user at a time; a concurrent trigger
// returns ErrSyncInFlight.
type Engine struct {
	remote RemoteStore
	cache  LocalCache
	store  *best.Store

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewEngine(remote RemoteStore, cache LocalCache, store *best.Store) *Engine {
	return &Engine{
		remote:   remote,
		cache:    cache,
		store:    store,
		inFlight: make(map[string]bool),
	}
}

// SyncUser runs one full cycle: Fetching -> Merging -> Writing -> Idle, or
// Failed on a fetch error. A failed fetch falls back to local-only state for
// the session; failed writes are logged and dropped for this cycle (the
// result stays in the local cache and is re-offered next cycle).
func (e *Engine) SyncUser(ctx context.Context, userID string) (*Report, error) {
	if userID == "" {
		return nil, ErrGuestSession
	}
	if !e.acquire(userID) {
		return nil, ErrSyncInFlight
	}
	defer e.release(userID)

	report := &Report{State: StateFetching}

	snapshot, err := e.remote.FetchPersonalBests(ctx, userID)
	if err != nil {
		log.Printf("syncer: fetch failed for user %s, staying local-only: %v", userID, err)
		e.hydrateFromCache(ctx, userID)
		report.State = StateFailed
		return report, nil
	}
	report.RemoteRead = true

	report.State = StateMerging
	local := e.localState(ctx, userID)
	out := best.Reconcile(local, snapshot)
	report.Wiped = out.Wiped

	adopted := out.Merged
	if !out.Wiped {
		// Fold in anything recorded since the merge input was taken, so
		// adopting the merge output cannot drop a fresher local result.
		adopted = best.Merge(e.store.Current(userID), out.Merged).Merged
	}
	e.store.Replace(userID, adopted)
	if err := e.cache.Save(ctx, userID, adopted); err != nil {
		log.Printf("syncer: cache save failed for user %s: %v", userID, err)
	}

	report.State = StateWriting
	for _, res := range out.LocalImprovements {
		// Re-check against the latest local state right before the write:
		// the user may have completed another challenge while this cycle
		// was in flight, and a stale merge must never clobber it.
		if !e.store.Current(userID).Improves(res) {
			report.SkippedStale++
			continue
		}
		if err := e.remote.WriteBestResult(ctx, userID, res); err != nil {
			log.Printf("syncer: write failed for user %s challenge %s: %v", userID, res.ChallengeID, err)
			report.WriteErrors++
			continue
		}
		report.Written++
	}

	report.State = StateIdle
	return report, nil
}

// WriteBack pushes a single fresh result to the remote store, re-checking it
// is still the current best first. Used by the session orchestrator after a
// completion, outside a full cycle.
func (e *Engine) WriteBack(ctx context.Context, userID string, res models.ChallengeResult) error {
	if userID == "" {
		return ErrGuestSession
	}
	if !e.store.Current(userID).Improves(res) {
		return nil
	}
	if err := e.cache.Save(ctx, userID, e.store.Current(userID)); err != nil {
		log.Printf("syncer: cache save failed for user %s: %v", userID, err)
	}
	return e.remote.WriteBestResult(ctx, userID, res)
}

// localState combines the cached map with the live in-memory one; both are
// local truth, and the in-memory side may be ahead of the cache.
func (e *Engine) localState(ctx context.Context, userID string) best.Map {
	cached, err := e.cache.Load(ctx, userID)
	if err != nil {
		log.Printf("syncer: cache load failed for user %s: %v", userID, err)
		cached = best.Map{}
	}
	return best.Merge(e.store.Current(userID), cached).Merged
}

// hydrateFromCache fills the in-memory store from the local cache when the
// remote is unreachable.
func (e *Engine) hydrateFromCache(ctx context.Context, userID string) {
	local := e.localState(ctx, userID)
	if len(local) > 0 {
		e.store.Replace(userID, local)
	}
}

func (e *Engine) acquire(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight[userID] {
		return false
	}
	e.inFlight[userID] = true
	return true
}

func (e *Engine) release(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, userID)
}
