package best

import (
	"reflect"
	"testing"
	"time"

	"challenge-service/internal/models"
)

func result(challengeID string, score int, grade models.Grade) models.ChallengeResult {
	return models.ChallengeResult{
		ChallengeID: challengeID,
		Score:       score,
		Grade:       grade,
		CompletedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMergeHigherScoreWins(t *testing.T) {
	local := Map{"blitz-15": result("blitz-15", 120, models.GradeB)}
	remote := Map{"blitz-15": result("blitz-15", 150, models.GradeA)}

	out := Merge(local, remote)
	if out.Merged["blitz-15"].Score != 150 {
		t.Errorf("Expected remote 150 to win, got %d", out.Merged["blitz-15"].Score)
	}
	if len(out.LocalImprovements) != 0 {
		t.Errorf("Expected no local improvements, got %v", out.LocalImprovements)
	}
}

func TestMergeLocalImprovementReported(t *testing.T) {
	local := Map{
		"blitz-15":  result("blitz-15", 233, models.GradeS),
		"topic-run": result("topic-run", 95, models.GradeC),
	}
	remote := Map{"blitz-15": result("blitz-15", 150, models.GradeA)}

	out := Merge(local, remote)
	if out.Merged["blitz-15"].Score != 233 {
		t.Errorf("Expected local 233 to win, got %d", out.Merged["blitz-15"].Score)
	}
	if len(out.LocalImprovements) != 2 {
		t.Fatalf("Expected 2 improvements (win + local-only), got %d", len(out.LocalImprovements))
	}
}

func TestMergeScoreTieGradeBreaks(t *testing.T) {
	local := Map{"c1": result("c1", 150, models.GradeS)}
	remote := Map{"c1": result("c1", 150, models.GradeA)}

	out := Merge(local, remote)
	if out.Merged["c1"].Grade != models.GradeS {
		t.Errorf("Expected higher grade to win the tie, got %s", out.Merged["c1"].Grade)
	}
}

func TestMergeFullTiePrefersRemote(t *testing.T) {
	localRes := result("c1", 150, models.GradeA)
	remoteRes := result("c1", 150, models.GradeA)
	remoteRes.TimeSpentSeconds = 77 // marker to tell the entries apart

	out := Merge(Map{"c1": localRes}, Map{"c1": remoteRes})
	if out.Merged["c1"].TimeSpentSeconds != 77 {
		t.Error("Expected remote entry to win a full tie")
	}
	if len(out.LocalImprovements) != 0 {
		t.Errorf("Full tie must not report an improvement, got %v", out.LocalImprovements)
	}
}

func TestMergeIdempotentCommutativeAssociative(t *testing.T) {
	a := Map{
		"c1": result("c1", 100, models.GradeC),
		"c2": result("c2", 200, models.GradeS),
	}
	b := Map{
		"c2": result("c2", 180, models.GradeS),
		"c3": result("c3", 90, models.GradeC),
	}
	c := Map{"c1": result("c1", 130, models.GradeB)}

	if got := Merge(a, a).Merged; !reflect.DeepEqual(got, a) {
		t.Errorf("merge(A, A) != A: %v", got)
	}
	ab := Merge(a, b).Merged
	ba := Merge(b, a).Merged
	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("merge not commutative: %v vs %v", ab, ba)
	}
	leftFirst := Merge(ab, c).Merged
	rightFirst := Merge(a, Merge(b, c).Merged).Merged
	if !reflect.DeepEqual(leftFirst, rightFirst) {
		t.Errorf("merge not associative: %v vs %v", leftFirst, rightFirst)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	local := Map{"c1": result("c1", 200, models.GradeS)}
	remote := Map{"c1": result("c1", 100, models.GradeC)}

	_ = Merge(local, remote)
	if remote["c1"].Score != 100 {
		t.Error("Merge mutated the remote map")
	}
	if local["c1"].Score != 200 {
		t.Error("Merge mutated the local map")
	}
}

func TestReconcileConfirmedEmptyDiscardsLocal(t *testing.T) {
	local := Map{"c1": result("c1", 200, models.GradeS)}

	out := Reconcile(local, Snapshot{State: SnapshotEmpty})
	if !out.Wiped {
		t.Error("Expected wipe on confirmed-empty remote with non-empty local")
	}
	if len(out.Merged) != 0 {
		t.Errorf("Wiped merge must be empty, got %v", out.Merged)
	}
	if len(out.LocalImprovements) != 0 {
		t.Error("Wiped local data must not be re-uploaded")
	}
}

func TestReconcileEmptyBothSides(t *testing.T) {
	out := Reconcile(Map{}, Snapshot{State: SnapshotEmpty})
	if out.Wiped {
		t.Error("Empty local against empty remote is not a wipe")
	}
}

func TestReconcileNotFetchedKeepsLocal(t *testing.T) {
	local := Map{"c1": result("c1", 200, models.GradeS)}

	out := Reconcile(local, Snapshot{State: SnapshotNotFetched})
	if !reflect.DeepEqual(out.Merged, local) {
		t.Errorf("Expected local state kept, got %v", out.Merged)
	}
	if len(out.LocalImprovements) != 0 {
		t.Error("Nothing is owed to a remote that was never read")
	}
}

func TestImproves(t *testing.T) {
	m := Map{"c1": result("c1", 150, models.GradeA)}

	if !m.Improves(result("c2", 10, models.GradeD)) {
		t.Error("Missing entry should always be an improvement")
	}
	if !m.Improves(result("c1", 151, models.GradeA)) {
		t.Error("Higher score should improve")
	}
	if m.Improves(result("c1", 149, models.GradeA)) {
		t.Error("Lower score must not improve")
	}
	if !m.Improves(result("c1", 150, models.GradeA)) {
		t.Error("Re-writing the identical best is harmless and allowed")
	}
}

func TestStoreRecordKeepsMaximum(t *testing.T) {
	store := NewStore()

	if !store.Record("u1", result("c1", 100, models.GradeC)) {
		t.Error("First result should be recorded")
	}
	if store.Record("u1", result("c1", 90, models.GradeC)) {
		t.Error("Worse result must not replace the best")
	}
	if !store.Record("u1", result("c1", 120, models.GradeB)) {
		t.Error("Better result should replace the best")
	}
	if got := store.Current("u1")["c1"].Score; got != 120 {
		t.Errorf("Expected stored best 120, got %d", got)
	}
}

func TestStoreCurrentIsACopy(t *testing.T) {
	store := NewStore()
	store.Record("u1", result("c1", 100, models.GradeC))

	m := store.Current("u1")
	m["c1"] = result("c1", 1, models.GradeD)
	if store.Current("u1")["c1"].Score != 100 {
		t.Error("Mutating the returned map leaked into the store")
	}
}

func TestStoreDrop(t *testing.T) {
	store := NewStore()
	store.Record("guest", result("c1", 100, models.GradeC))
	store.Drop("guest")
	if len(store.Current("guest")) != 0 {
		t.Error("Drop left state behind")
	}
}
