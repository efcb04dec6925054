package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/turn"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "adrift.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testState(t *testing.T, gameID string) *turn.GameState {
	t.Helper()
	g, err := turn.NewGame(gameID, []turn.PlayerSpec{
		{ID: "p1", Name: "Avery", Captain: crew.CaptainCommander},
		{ID: "p2", Name: "Sam", Captain: crew.CaptainExplorer},
	})
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	return g
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open(blank) error = nil, want error")
	}
}

func TestSaveAndLoadLatestRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := testState(t, "g1")

	if err := store.SaveSnapshot(ctx, g); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	loaded, err := store.LoadLatest(ctx, "g1")
	if err != nil {
		t.Fatalf("LoadLatest() error = %v", err)
	}

	want, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal original: %v", err)
	}
	got, err := json.Marshal(loaded)
	if err != nil {
		t.Fatalf("marshal loaded: %v", err)
	}
	if string(got) != string(want) {
		t.Error("loaded state differs from saved state")
	}
}

func TestLoadLatestNotFound(t *testing.T) {
	store := openStore(t)
	if _, err := store.LoadLatest(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadLatest(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLoadLatestCorruptState(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.SaveSnapshot(ctx, testState(t, "g1")); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if _, err := store.sqlDB.ExecContext(ctx,
		`UPDATE game_snapshots SET state = ? WHERE game_id = ?`,
		[]byte("{not json"), "g1"); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err := store.LoadLatest(ctx, "g1")
	if !errors.Is(err, xerrors.New(xerrors.CodeCorruptState, "")) {
		t.Fatalf("LoadLatest() error = %v, want %s", err, xerrors.CodeCorruptState)
	}
}

func TestSaveSnapshotUpsertsSamePhase(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := testState(t, "g1")

	if err := store.SaveSnapshot(ctx, g); err != nil {
		t.Fatalf("first SaveSnapshot() error = %v", err)
	}
	g.Status = turn.StatusEnded
	if err := store.SaveSnapshot(ctx, g); err != nil {
		t.Fatalf("second SaveSnapshot() error = %v", err)
	}

	infos, err := store.ListSnapshots(ctx, "g1")
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("len(infos) = %d, want 1", len(infos))
	}
	if infos[0].Status != turn.StatusEnded {
		t.Errorf("Status = %q, want %q", infos[0].Status, turn.StatusEnded)
	}
}

func TestLoadSnapshotExactPhase(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := testState(t, "g1")

	if err := store.SaveSnapshot(ctx, g); err != nil {
		t.Fatalf("SaveSnapshot(event) error = %v", err)
	}
	g.Phase = turn.PhasePlanning
	if err := store.SaveSnapshot(ctx, g); err != nil {
		t.Fatalf("SaveSnapshot(planning) error = %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx, "g1", g.CurrentTurn, turn.PhaseEvent)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if loaded.Phase != turn.PhaseEvent {
		t.Errorf("Phase = %q, want %q", loaded.Phase, turn.PhaseEvent)
	}

	if _, err := store.LoadSnapshot(ctx, "g1", 99, turn.PhaseEvent); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadSnapshot(turn 99) error = %v, want ErrNotFound", err)
	}
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := testState(t, "g1")

	phases := []turn.Phase{turn.PhaseEvent, turn.PhasePlanning, turn.PhaseExecution}
	for _, phase := range phases {
		g.Phase = phase
		if err := store.SaveSnapshot(ctx, g); err != nil {
			t.Fatalf("SaveSnapshot(%s) error = %v", phase, err)
		}
	}

	infos, err := store.ListSnapshots(ctx, "g1")
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(infos) != len(phases) {
		t.Fatalf("len(infos) = %d, want %d", len(infos), len(phases))
	}
	for i := range infos[:len(infos)-1] {
		if infos[i].CreatedAt.Before(infos[i+1].CreatedAt) {
			t.Fatalf("infos[%d] older than infos[%d]", i, i+1)
		}
	}
}

func TestListGames(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"g2", "g1"} {
		if err := store.SaveSnapshot(ctx, testState(t, id)); err != nil {
			t.Fatalf("SaveSnapshot(%s) error = %v", id, err)
		}
	}

	ids, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "g1" || ids[1] != "g2" {
		t.Fatalf("ListGames() = %v, want [g1 g2]", ids)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := testState(t, "g1")

	for turnNum := 1; turnNum <= 4; turnNum++ {
		g.CurrentTurn = turnNum
		if err := store.SaveSnapshot(ctx, g); err != nil {
			t.Fatalf("SaveSnapshot(turn %d) error = %v", turnNum, err)
		}
	}
	if err := store.Prune(ctx, "g1", 2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	infos, err := store.ListSnapshots(ctx, "g1")
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	if infos[0].Turn != 4 || infos[1].Turn != 3 {
		t.Fatalf("kept turns = [%d %d], want [4 3]", infos[0].Turn, infos[1].Turn)
	}
}

func TestNilStoreIsRejected(t *testing.T) {
	var store *Store
	if err := store.SaveSnapshot(context.Background(), testState(t, "g1")); err == nil {
		t.Fatal("SaveSnapshot on nil store error = nil, want error")
	}
}
