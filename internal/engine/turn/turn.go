// Package turn owns the game-level state and the phase state machine. All
// mutation flows through ProcessTurn, which operates on a deep clone of the
// prior snapshot and either returns the advanced state or an error with the
// prior state untouched. That makes every snapshot immutable in practice and
// lets callers compute speculative previews from any state they hold.
package turn

import (
	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/resolve"
)

// Status is the game lifecycle state.
type Status string

const (
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusEnded      Status = "ended"
)

// Phase is one step of the turn cycle. A new game opens with a single
// event phase; after that the cycle is action_planning, action_execution,
// environment, resolution. Resolution rolls the turn counter, fires the
// next turn's event and lands back on planning, so four advances bring a
// game from planning to planning.
type Phase string

const (
	PhaseEvent       Phase = "event"
	PhasePlanning    Phase = "action_planning"
	PhaseExecution   Phase = "action_execution"
	PhaseEnvironment Phase = "environment"
	PhaseResolution  Phase = "resolution"
)

// EventRecord describes the event resolved at the top of a turn.
type EventRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Turn        int    `json:"turn"`
}

// Table resolves the event phase. Implementations mutate the passed state
// directly and must be pure functions of it, so replays stay deterministic.
type Table interface {
	Resolve(g *GameState) *EventRecord
}

// TurnActions is the full action set for one phase, keyed by player id.
// Order across players follows the Players slice, not map order.
type TurnActions map[string][]action.Action

// GameState is one immutable snapshot of a game. Every field serializes
// losslessly to JSON; the ship edge maps round-trip through their
// string-keyed views, restored by Restore after unmarshalling.
type GameState struct {
	ID          string                    `json:"id"`
	Status      Status                    `json:"status"`
	CurrentTurn int                       `json:"current_turn"`
	Phase       Phase                     `json:"phase"`
	Board       *board.Board              `json:"board"`
	Players     []*player.State           `json:"players"` // slice order = turn order
	LastEvent   *EventRecord              `json:"last_event,omitempty"`
	EdgeLoad    map[string]map[string]int `json:"edge_load,omitempty"` // player id -> edge -> power moved
}

// PlayerByID finds a player in the snapshot.
func (g *GameState) PlayerByID(id string) *player.State {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot.
func (g *GameState) Clone() *GameState {
	out := &GameState{
		ID:          g.ID,
		Status:      g.Status,
		CurrentTurn: g.CurrentTurn,
		Phase:       g.Phase,
	}
	if g.Board != nil {
		out.Board = g.Board.Clone()
	}
	out.Players = make([]*player.State, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p.Clone()
	}
	if g.LastEvent != nil {
		event := *g.LastEvent
		out.LastEvent = &event
	}
	if g.EdgeLoad != nil {
		out.EdgeLoad = make(map[string]map[string]int, len(g.EdgeLoad))
		for id, loads := range g.EdgeLoad {
			inner := make(map[string]int, len(loads))
			for k, v := range loads {
				inner[k] = v
			}
			out.EdgeLoad[id] = inner
		}
	}
	return out
}

// Restore rebuilds the derived in-memory structures after a JSON round trip.
func (g *GameState) Restore() error {
	for _, p := range g.Players {
		if p.Ship == nil {
			continue
		}
		if err := p.Ship.RestoreEdges(); err != nil {
			return err
		}
	}
	return nil
}

// RejectedAction attributes one rejected action to its reason.
type RejectedAction struct {
	Kind      action.Type       `json:"kind"`
	PlayerID  string            `json:"player_id"`
	CrewID    string            `json:"crew_id"`
	Rejection resolve.Rejection `json:"rejection"`
}

// EnvironmentReport summarizes the environment phase.
type EnvironmentReport struct {
	RingRotations   []int          `json:"ring_rotations"`
	HullDamage      map[string]int `json:"hull_damage,omitempty"`       // player id -> total
	LifeSupportLoss map[string]int `json:"life_support_loss,omitempty"` // player id -> total
}

// ResolutionReport summarizes the end-of-turn bookkeeping.
type ResolutionReport struct {
	OverloadedEdges map[string][]string `json:"overloaded_edges,omitempty"` // player id -> edges damaged
	KnockedOut      map[string][]string `json:"knocked_out,omitempty"`      // player id -> crew ids
	Eliminated      []string            `json:"eliminated,omitempty"`
	GameEnded       bool                `json:"game_ended,omitempty"`
}

// Report describes exactly what one ProcessTurn call did.
type Report struct {
	Phase       Phase              `json:"phase"` // the phase that was processed
	Turn        int                `json:"turn"`
	Event       *EventRecord       `json:"event,omitempty"`
	Applied     []resolve.Applied  `json:"applied,omitempty"`
	Rejected    []RejectedAction   `json:"rejected,omitempty"`
	Environment *EnvironmentReport `json:"environment,omitempty"`
	Resolution  *ResolutionReport  `json:"resolution,omitempty"`
}
