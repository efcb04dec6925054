package turn

import (
	"fmt"
	"sort"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/resolve"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// ApplyPlayerActions speculatively resolves one player's actions against a
// clone of the snapshot. The input state is untouched; callers use the
// returned clone to preview what execution would do.
func ApplyPlayerActions(g *GameState, playerID string, acts []action.Action) (*GameState, []resolve.Applied, []RejectedAction, error) {
	clone := g.Clone()
	p := clone.PlayerByID(playerID)
	if p == nil {
		return nil, nil, nil, xerrors.New(xerrors.CodePlayerNotFound,
			fmt.Sprintf("player %s not in game %s", playerID, g.ID))
	}

	tables := content.Default()
	catalog, err := upgrade.LoadCatalog(tables)
	if err != nil {
		return nil, nil, nil, err
	}

	ordered := append([]action.Action(nil), acts...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ActionSlot() != ordered[j].ActionSlot() {
			return ordered[i].ActionSlot() == action.SlotPrimary
		}
		return ordered[i].Crew() < ordered[j].Crew()
	})

	ctx := &resolve.Context{
		Player:  p,
		Board:   clone.Board,
		Tables:  tables,
		Catalog: catalog,
		Turn:    clone.CurrentTurn,
		Ledger:  ship.PowerLedger{},
	}
	var applied []resolve.Applied
	var rejected []RejectedAction
	for _, act := range ordered {
		if err := act.Validate(); err != nil {
			return nil, nil, nil, err
		}
		out, rej := resolve.Resolve(ctx, act)
		if rej != nil {
			if rej.Code.Fatal() {
				return nil, nil, nil, xerrors.WithMetadata(rej.Code, rej.Message, rej.Meta)
			}
			rejected = append(rejected, RejectedAction{
				Kind:      act.Type(),
				PlayerID:  act.Player(),
				CrewID:    act.Crew(),
				Rejection: *rej,
			})
			continue
		}
		applied = append(applied, *out)
	}
	if load := ctx.Ledger.ToSerializable(); load != nil {
		if clone.EdgeLoad == nil {
			clone.EdgeLoad = make(map[string]map[string]int)
		}
		clone.EdgeLoad[playerID] = load
	}
	return clone, applied, rejected, nil
}

// PreviewManeuver computes where a maneuver would leave the ship and at what
// acceleration, without touching the snapshot.
func PreviewManeuver(g *GameState, act action.Maneuver) (*resolve.Applied, *resolve.Rejection, error) {
	if err := act.Validate(); err != nil {
		return nil, nil, err
	}
	clone := g.Clone()
	p := clone.PlayerByID(act.PlayerID)
	if p == nil {
		return nil, nil, xerrors.New(xerrors.CodePlayerNotFound,
			fmt.Sprintf("player %s not in game %s", act.PlayerID, g.ID))
	}
	tables := content.Default()
	catalog, err := upgrade.LoadCatalog(tables)
	if err != nil {
		return nil, nil, err
	}
	ctx := &resolve.Context{
		Player:  p,
		Board:   clone.Board,
		Tables:  tables,
		Catalog: catalog,
		Turn:    clone.CurrentTurn,
		Ledger:  ship.PowerLedger{},
	}
	out, rej := resolve.Maneuver(ctx, act)
	if rej != nil && rej.Code.Fatal() {
		return nil, nil, xerrors.WithMetadata(rej.Code, rej.Message, rej.Meta)
	}
	return out, rej, nil
}
