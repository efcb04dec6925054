package resolve

import (
	"fmt"
	"strconv"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/power"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// hubBonus is the extra power generated when restoring from a fully powered
// engineering section.
const hubBonus = 2

// Restore generates power in the performer's section and distributes the
// generated budget across explicit section allocations and upgrade charges.
// Whatever is left deposits in the performer's section; overflow beyond the
// section's storage cap vents.
func Restore(ctx *Context, a action.Restore) (*Applied, *Rejection) {
	performer, sec, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	s := ctx.Player.Ship
	state := s.SectionState(sec)
	if state == nil || state.Hull <= 0 {
		return nil, rejectAction(xerrors.CodeSectionDestroyed, a,
			fmt.Sprintf("cannot generate power in destroyed section %s", sec), nil)
	}
	if !generationAllowed(ctx, performer, sec) {
		return nil, rejectAction(xerrors.CodeRestoreSectionDisallowed, a,
			fmt.Sprintf("section %s cannot generate power", sec),
			map[string]string{"section": sec.String()})
	}

	generated := 1 + crew.RestoreBonus(performer.Role)
	if sec == ship.SectionEngineering {
		if power.IsFullyPowered(s, ship.SectionEngineering, ctx.Tables) {
			generated += hubBonus
		}
		if power.InstalledPowered(ctx.Player, upgrade.Coolant, ctx.Tables) {
			generated++
		}
	}

	spent := 0
	for _, alloc := range a.Allocations {
		spent += alloc.Amount
	}
	for _, charge := range a.Charges {
		spent += charge.Amount
	}
	if spent > generated {
		return nil, rejectAction(xerrors.CodeRestoreBudgetExceeded, a,
			fmt.Sprintf("allocated %d power but only %d generated", spent, generated),
			map[string]string{
				"generated": strconv.Itoa(generated),
				"allocated": strconv.Itoa(spent),
			})
	}

	// Validate every transfer before mutating anything, so a bad allocation
	// rejects the whole action with state untouched.
	maxPerConduit := ctx.Tables.Power.MaxPerConduit
	allocPaths := make([][]ship.Section, len(a.Allocations))
	for i, alloc := range a.Allocations {
		path := s.FindRoutingPath(sec, alloc.Target)
		if path == nil {
			return nil, rejectAction(xerrors.CodeRouteDisconnected, a,
				fmt.Sprintf("no conduit path from %s to %s", sec, alloc.Target),
				map[string]string{"from": sec.String(), "to": alloc.Target.String()})
		}
		if capacity := s.BottleneckCapacity(path, maxPerConduit); capacity >= 0 && alloc.Amount > capacity {
			return nil, rejectAction(xerrors.CodeRestoreBudgetExceeded, a,
				fmt.Sprintf("allocation of %d to %s exceeds path capacity %d", alloc.Amount, alloc.Target, capacity),
				map[string]string{
					"target":   alloc.Target.String(),
					"amount":   strconv.Itoa(alloc.Amount),
					"capacity": strconv.Itoa(capacity),
				})
		}
		allocPaths[i] = path
	}
	chargePaths := make([][]ship.Section, len(a.Charges))
	for i, charge := range a.Charges {
		inst := ctx.Player.InstalledByID(charge.Upgrade)
		if inst == nil {
			return nil, rejectAction(xerrors.CodeTargetNotFound, a,
				fmt.Sprintf("upgrade %s is not installed", charge.Upgrade),
				map[string]string{"upgrade": string(charge.Upgrade)})
		}
		if charge.Amount > maxPerConduit {
			return nil, rejectAction(xerrors.CodeActionAmountInvalid, a,
				fmt.Sprintf("upgrade charge of %d exceeds per-action limit %d", charge.Amount, maxPerConduit),
				map[string]string{"upgrade": string(charge.Upgrade)})
		}
		host := inst.Card.Host
		if inst.Card.AnySection {
			host = ship.SectionEngineering
		}
		path := s.FindRoutingPath(sec, host)
		if path == nil {
			return nil, rejectAction(xerrors.CodeRouteDisconnected, a,
				fmt.Sprintf("no conduit path from %s to %s", sec, host),
				map[string]string{"from": sec.String(), "to": host.String()})
		}
		chargePaths[i] = path
	}

	for i, alloc := range a.Allocations {
		target := s.SectionState(alloc.Target)
		target.AddPower(alloc.Amount, ctx.Tables.Sections[alloc.Target.String()].StorageMax)
		ctx.Ledger.AddPath(allocPaths[i], alloc.Amount)
	}
	for i, charge := range a.Charges {
		inst := ctx.Player.InstalledByID(charge.Upgrade)
		inst.StoredPower += charge.Amount
		ctx.Ledger.AddPath(chargePaths[i], charge.Amount)
	}

	leftover := generated - spent
	deposited := state.AddPower(leftover, ctx.Tables.Sections[sec.String()].StorageMax)

	out := applied(a)
	out.PowerGenerated = generated
	out.PowerMoved = spent
	out.PowerVented = leftover - deposited
	return out, nil
}

// generationAllowed reports whether the performer's section can generate
// power this turn. Engineering always can. The auxiliary generator rooms
// (bridge, sci-lab, defense) come online only as a fallback when engineering
// is out of action, or when an engineer is there to coax them.
func generationAllowed(ctx *Context, m *crew.Member, sec ship.Section) bool {
	switch sec {
	case ship.SectionEngineering:
		return true
	case ship.SectionBridge, ship.SectionSciLab, ship.SectionDefense:
		if m.Role == crew.RoleEngineer {
			return true
		}
		eng := ctx.Player.Ship.SectionState(ship.SectionEngineering)
		return eng == nil || eng.Hull <= 0
	default:
		return false
	}
}
