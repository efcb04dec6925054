package resolve

import (
	"fmt"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/power"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Repair restores one unit of hull, one intact conduit, or a severed
// corridor. The target only has to be addressable by the hull blueprint, not
// currently traversable, so crews can patch their way back into cut-off
// sections.
func Repair(ctx *Context, a action.Repair) (*Applied, *Rejection) {
	_, sec, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	s := ctx.Player.Ship

	switch a.Kind {
	case action.RepairHull:
		if sec != a.Target && !s.LayoutAdjacent(sec, a.Target) {
			return nil, rejectAction(xerrors.CodeSectionNotAdjacent, a,
				fmt.Sprintf("%s is not adjacent to %s", sec, a.Target),
				map[string]string{"performer_section": sec.String(), "target": a.Target.String()})
		}
		state := s.SectionState(a.Target)
		hullMax := ctx.Tables.Sections[a.Target.String()].HullMax
		if state.Hull >= hullMax {
			return nil, rejectAction(xerrors.CodeRepairAlreadyIntact, a,
				fmt.Sprintf("section %s hull is already at maximum", a.Target), nil)
		}
		amount := 1
		if power.InstalledPowered(ctx.Player, upgrade.RepairDroids, ctx.Tables) {
			amount *= 2
		}
		if power.InstalledPowered(ctx.Player, upgrade.DroidStation, ctx.Tables) {
			amount *= 2
		}
		if state.Hull+amount > hullMax {
			amount = hullMax - state.Hull
		}
		state.Hull += amount
		out := applied(a)
		out.RepairAmount = amount
		return out, nil

	case action.RepairConduit:
		edge, rej := repairEdge(ctx, a, sec)
		if rej != nil {
			return nil, rej
		}
		if edge.Conduits >= edge.ConduitMax {
			return nil, rejectAction(xerrors.CodeRepairAlreadyIntact, a,
				fmt.Sprintf("all conduits between %s and %s are intact", a.Target, a.Toward), nil)
		}
		edge.Conduits++
		out := applied(a)
		out.RepairAmount = 1
		return out, nil

	case action.RepairCorridor:
		edge, rej := repairEdge(ctx, a, sec)
		if rej != nil {
			return nil, rej
		}
		if !edge.Corridor {
			return nil, rejectAction(xerrors.CodeSectionNotAdjacent, a,
				fmt.Sprintf("no corridor exists between %s and %s", a.Target, a.Toward), nil)
		}
		if edge.CorridorIntact {
			return nil, rejectAction(xerrors.CodeRepairAlreadyIntact, a,
				fmt.Sprintf("corridor between %s and %s is intact", a.Target, a.Toward), nil)
		}
		edge.CorridorIntact = true
		out := applied(a)
		out.RepairAmount = 1
		return out, nil
	}

	return nil, rejectAction(xerrors.CodeActionTypeUnsupported, a,
		fmt.Sprintf("unknown repair kind %q", a.Kind), nil)
}

// repairEdge resolves the blueprint edge for a conduit or corridor repair and
// checks the performer stands at one of its ends.
func repairEdge(ctx *Context, a action.Repair, sec ship.Section) (*ship.EdgeState, *Rejection) {
	if sec != a.Target && sec != a.Toward {
		return nil, rejectAction(xerrors.CodeSectionNotAdjacent, a,
			fmt.Sprintf("edge repairs require standing in %s or %s", a.Target, a.Toward),
			map[string]string{"performer_section": sec.String()})
	}
	edge := ctx.Player.Ship.EdgeBetween(a.Target, a.Toward)
	if edge == nil {
		return nil, rejectAction(xerrors.CodeSectionNotAdjacent, a,
			fmt.Sprintf("no connection between %s and %s in the hull layout", a.Target, a.Toward), nil)
	}
	return edge, nil
}
