// Package resolve implements the per-action resolvers. Each resolver is a
// pure transform: it checks every precondition against the working state
// before touching it, so a rejected action leaves the state byte-identical,
// and applying the same rejection twice yields the same state again.
//
// Callers (the turn orchestrator and the preview paths) pass a Context
// wrapping the working copies they are willing to have mutated.
package resolve

import (
	"fmt"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Context carries the working state one resolver call may mutate, plus the
// per-turn accumulators shared by all of a player's actions.
type Context struct {
	Player  *player.State
	Board   *board.Board
	Tables  *content.Tables
	Catalog upgrade.Catalog
	Turn    int

	// Ledger accumulates power moved across conduit edges this turn. Every
	// restore allocation, upgrade charge, and route transfer sums here before
	// the overload check at resolution.
	Ledger ship.PowerLedger

	// ManeuversUsed counts maneuver actions already resolved for this player
	// this turn.
	ManeuversUsed int

	// MedLabCommits counts med-lab power committed to revive bonuses this
	// turn. The bonus needs uncommitted power beyond the section requirement.
	MedLabCommits int
}

// Rejection reports why an action was not applied. State is untouched when a
// resolver returns one.
type Rejection struct {
	Code    xerrors.Code      `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Applied summarizes an applied action for the turn report. Only the fields
// relevant to the action kind are set.
type Applied struct {
	Kind     action.Type `json:"kind"`
	PlayerID string      `json:"player_id"`
	CrewID   string      `json:"crew_id"`

	PowerGenerated  int              `json:"power_generated,omitempty"`
	PowerMoved      int              `json:"power_moved,omitempty"`
	PowerVented     int              `json:"power_vented,omitempty"`
	RepairAmount    int              `json:"repair_amount,omitempty"`
	ReviveProgress  int              `json:"revive_progress,omitempty"`
	ReviveCompleted bool             `json:"revive_completed,omitempty"`
	Acceleration    int              `json:"acceleration,omitempty"`
	MovedTo         *board.Position  `json:"moved_to,omitempty"`
	Discovery       *board.Discovery `json:"discovery,omitempty"`
	HazardRemoved   bool             `json:"hazard_removed,omitempty"`
	DamageDealt     int              `json:"damage_dealt,omitempty"`
	TargetDestroyed bool             `json:"target_destroyed,omitempty"`
	ItemCompleted   bool             `json:"item_completed,omitempty"`
	UpgradeID       upgrade.ID       `json:"upgrade_id,omitempty"`
}

// Resolve dispatches an action to its resolver.
func Resolve(ctx *Context, act action.Action) (*Applied, *Rejection) {
	switch a := act.(type) {
	case action.Restore:
		return Restore(ctx, a)
	case action.Route:
		return Route(ctx, a)
	case action.Repair:
		return Repair(ctx, a)
	case action.Revive:
		return Revive(ctx, a)
	case action.Maneuver:
		return Maneuver(ctx, a)
	case action.Scan:
		return Scan(ctx, a)
	case action.Acquire:
		return Acquire(ctx, a)
	case action.Attack:
		return Attack(ctx, a)
	case action.Launch:
		return Launch(ctx, a)
	case action.Assemble:
		return Assemble(ctx, a)
	case action.Integrate:
		return Integrate(ctx, a)
	default:
		return nil, reject(xerrors.CodeActionTypeUnsupported, string(act.Type()), map[string]string{
			"action": string(act.Type()),
		})
	}
}

func reject(code xerrors.Code, message string, meta map[string]string) *Rejection {
	return &Rejection{Code: code, Message: message, Meta: meta}
}

func rejectAction(code xerrors.Code, act action.Action, message string, extra map[string]string) *Rejection {
	meta := map[string]string{
		"action":    string(act.Type()),
		"player_id": act.Player(),
		"crew_id":   act.Crew(),
	}
	for k, v := range extra {
		meta[k] = v
	}
	return reject(code, message, meta)
}

// performer resolves the acting crew member and their section. A missing
// member is a fatal rejection; an inactive or unlocated one is an ordinary
// precondition failure.
func performer(ctx *Context, act action.Action) (*crew.Member, ship.Section, *Rejection) {
	m := ctx.Player.CrewByID(act.Crew())
	if m == nil {
		return nil, 0, rejectAction(xerrors.CodeCrewNotFound, act,
			fmt.Sprintf("crew %s not found", act.Crew()), nil)
	}
	if !m.Active() {
		return nil, 0, rejectAction(xerrors.CodeCrewNotActive, act,
			fmt.Sprintf("crew %s is %s", m.ID, m.Status), nil)
	}
	if m.Location == "" {
		return nil, 0, rejectAction(xerrors.CodeCrewNotLocated, act,
			fmt.Sprintf("crew %s has no location", m.ID), nil)
	}
	sec, err := ship.ParseSection(m.Location)
	if err != nil {
		return nil, 0, rejectAction(xerrors.CodeCrewNotLocated, act,
			fmt.Sprintf("crew %s location %q is not a section", m.ID, m.Location), nil)
	}
	return m, sec, nil
}

func applied(act action.Action) *Applied {
	return &Applied{
		Kind:     act.Type(),
		PlayerID: act.Player(),
		CrewID:   act.Crew(),
	}
}
