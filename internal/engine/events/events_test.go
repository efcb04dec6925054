package events

import (
	"testing"

	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/turn"
)

func testGame(t *testing.T) *turn.GameState {
	t.Helper()
	g, err := turn.NewGame("game-1", []turn.PlayerSpec{
		{ID: "p1", Name: "Vasquez", Captain: crew.CaptainCommander},
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestScriptedCyclesByTurn(t *testing.T) {
	table := NewScripted()
	g := testGame(t)

	first := table.Resolve(g)
	if first.Name != "calm_drift" || first.Turn != 1 {
		t.Fatalf("turn 1 event = %s/%d, want calm_drift/1", first.Name, first.Turn)
	}
	g.CurrentTurn = 2
	if got := table.Resolve(g); got.Name != "solar_flare" {
		t.Fatalf("turn 2 event = %s, want solar_flare", got.Name)
	}
	g.CurrentTurn = 2 + len(table.events)
	if got := table.Resolve(g); got.Name != "solar_flare" {
		t.Fatalf("event table did not cycle: got %s", got.Name)
	}
}

func TestSolarFlareBurnsShields(t *testing.T) {
	table := NewScripted()
	g := testGame(t)
	g.CurrentTurn = 2
	g.Players[0].Ship.Shields = 2

	table.Resolve(g)
	if got := g.Players[0].Ship.Shields; got != 1 {
		t.Fatalf("shields = %d, want 1", got)
	}
}

func TestSupplyCacheGrantsMinerals(t *testing.T) {
	table := NewScripted()
	g := testGame(t)
	g.CurrentTurn = 4

	table.Resolve(g)
	if got := g.Players[0].Resources[player.ResourceMinerals]; got != 1 {
		t.Fatalf("minerals = %d, want 1", got)
	}
}

func TestEventsAreDeterministic(t *testing.T) {
	table := NewScripted()
	for turnNum := 1; turnNum <= 12; turnNum++ {
		a, b := testGame(t), testGame(t)
		a.CurrentTurn, b.CurrentTurn = turnNum, turnNum
		if ra, rb := table.Resolve(a), table.Resolve(b); ra.Name != rb.Name {
			t.Fatalf("turn %d resolved %s then %s", turnNum, ra.Name, rb.Name)
		}
	}
}
