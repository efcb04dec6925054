package resolve

import (
	"fmt"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/ship"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Route moves stored power between two sections, or between a section and
// the life-support pool, along the conduit graph. The transfer may exceed the
// path's safe capacity; the excess shows up as edge load in the turn ledger
// and is punished at resolution, not here.
//
// The life-support pool taps the grid at engineering, so pool transfers are
// ledgered along the path to or from engineering.
func Route(ctx *Context, a action.Route) (*Applied, *Rejection) {
	if _, _, rej := performer(ctx, a); rej != nil {
		return nil, rej
	}
	s := ctx.Player.Ship

	fromSec, toSec := a.From.Section, a.To.Section
	if a.From.LifeSupport {
		fromSec = ship.SectionEngineering
	}
	if a.To.LifeSupport {
		toSec = ship.SectionEngineering
	}

	if !a.From.LifeSupport {
		state := s.SectionState(fromSec)
		if state == nil || state.Hull <= 0 {
			return nil, rejectAction(xerrors.CodeSectionDestroyed, a,
				fmt.Sprintf("source section %s is destroyed", fromSec), nil)
		}
		if state.StoredPower() == 0 {
			return nil, rejectAction(xerrors.CodeRouteSourceEmpty, a,
				fmt.Sprintf("source section %s holds no power", fromSec), nil)
		}
	} else if s.LifeSupportPower == 0 {
		return nil, rejectAction(xerrors.CodeRouteSourceEmpty, a,
			"life-support pool holds no power", nil)
	}
	if !a.To.LifeSupport {
		state := s.SectionState(toSec)
		if state == nil || state.Hull <= 0 {
			return nil, rejectAction(xerrors.CodeSectionDestroyed, a,
				fmt.Sprintf("target section %s is destroyed", toSec), nil)
		}
	}

	path := s.FindRoutingPath(fromSec, toSec)
	if path == nil {
		return nil, rejectAction(xerrors.CodeRouteDisconnected, a,
			fmt.Sprintf("no conduit path from %s to %s", fromSec, toSec),
			map[string]string{"from": fromSec.String(), "to": toSec.String()})
	}

	var drained int
	switch {
	case a.From.LifeSupport:
		drained = a.Amount
		if drained > s.LifeSupportPower {
			drained = s.LifeSupportPower
		}
		s.LifeSupportPower -= drained
	default:
		drained = s.SectionState(fromSec).DrainPower(a.Amount)
	}

	var moved int
	switch {
	case a.To.LifeSupport:
		s.LifeSupportPower += drained
		moved = drained
	default:
		moved = s.SectionState(toSec).AddPower(drained, ctx.Tables.Sections[toSec.String()].StorageMax)
	}

	ctx.Ledger.AddPath(path, drained)

	out := applied(a)
	out.PowerMoved = moved
	out.PowerVented = drained - moved
	return out, nil
}
