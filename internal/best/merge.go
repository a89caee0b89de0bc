package best

import (
	"challenge-service/internal/models"
)

// Map holds one personal-best result per challenge. It is treated as
// copy-on-write everywhere: operations return new maps and never mutate
// their inputs.
type Map map[string]models.ChallengeResult

func (m Map) Clone() Map {
	out := make(Map, len(m))
	for id, res := range m {
		out[id] = res
	}
	return out
}

// SnapshotState distinguishes a remote read that never happened from one that
// confirmed the user has no data. Inferring a wipe from a bare empty map would
// make a failed fetch indistinguishable from an administrative reset.
type SnapshotState string

const (
	SnapshotNotFetched SnapshotState = "not_fetched"
	SnapshotEmpty      SnapshotState = "empty"
	SnapshotHasData    SnapshotState = "has_data"
)

// Snapshot is the result of querying the remote store for a user's bests.
type Snapshot struct {
	State SnapshotState
	Data  Map
}

// Outcome is the result of merging local state against remote state.
type Outcome struct {
	Merged Map
	// LocalImprovements are the entries where local won over (or was absent
	// from) the remote side; they are the writes owed to the remote store.
	LocalImprovements []models.ChallengeResult
	// Wiped reports that a confirmed-empty remote overrode non-empty local
	// state (administrative reset).
	Wiped bool
}

// Merge combines two best maps deterministically. Per challenge: the higher
// score wins; on a score tie the higher grade wins; on a full tie the remote
// entry wins, since remote is the last-synced truth. Merge is pure and
// idempotent; repeated application with the same inputs is stable.
func Merge(local, remote Map) Outcome {
	merged := remote.Clone()
	var improvements []models.ChallengeResult

	for id, l := range local {
		r, ok := merged[id]
		if !ok || localWins(l, r) {
			merged[id] = l
			improvements = append(improvements, l)
		}
	}

	return Outcome{Merged: merged, LocalImprovements: improvements}
}

// localWins reports whether the local entry strictly beats the remote one.
// Ties fall to remote.
func localWins(local, remote models.ChallengeResult) bool {
	if local.Score != remote.Score {
		return local.Score > remote.Score
	}
	return local.Grade.Rank() > remote.Grade.Rank()
}

// Reconcile merges local state against a remote snapshot, honoring the
// snapshot state:
//
//   - NotFetched: the remote was never read (fetch failed); local state is
//     kept as-is and nothing is owed to the remote.
//   - Empty with non-empty local: administrative reset; local state is
//     discarded entirely rather than re-uploaded.
//   - HasData (or Empty with empty local): plain merge.
func Reconcile(local Map, remote Snapshot) Outcome {
	switch remote.State {
	case SnapshotNotFetched:
		return Outcome{Merged: local.Clone()}
	case SnapshotEmpty:
		if len(local) > 0 {
			return Outcome{Merged: Map{}, Wiped: true}
		}
		return Outcome{Merged: Map{}}
	}
	return Merge(local, remote.Data)
}

// Improves reports whether writing res for its challenge is still warranted
// given the current map: true unless the map already holds a strictly better
// entry. Re-writing an equal best is harmless and idempotent. The sync engine
// re-checks this immediately before every remote write so a stale merge never
// clobbers a newer result.
func (m Map) Improves(res models.ChallengeResult) bool {
	cur, ok := m[res.ChallengeID]
	if !ok {
		return true
	}
	return !localWins(cur, res)
}
