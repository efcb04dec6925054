package resolve

import (
	"fmt"
	"strconv"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/power"
	"github.com/adriftworks/adrift/internal/engine/ship"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Maneuver spends drive power to move the ship. Acceleration is the power
// spent plus the bridge and crew bonuses; the ship may move up to that many
// steps in one direction. Forward and backward travel along the current
// ring; inward and outward change rings, each inward ring gated on its speed
// requirement.
func Maneuver(ctx *Context, a action.Maneuver) (*Applied, *Rejection) {
	m, _, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	if ctx.ManeuversUsed > 0 {
		return nil, rejectAction(xerrors.CodeManeuverAlreadyUsed, a,
			"only one maneuver per player per turn", nil)
	}
	s := ctx.Player.Ship
	drives := s.SectionState(ship.SectionDrives)
	if drives == nil || drives.Hull <= 0 {
		return nil, rejectAction(xerrors.CodeSectionDestroyed, a,
			"drives are destroyed", nil)
	}
	if a.PowerSpent > drives.StoredPower() {
		return nil, rejectAction(xerrors.CodeManeuverPowerExceeded, a,
			fmt.Sprintf("drives hold %d power, %d requested", drives.StoredPower(), a.PowerSpent),
			map[string]string{
				"stored":    strconv.Itoa(drives.StoredPower()),
				"requested": strconv.Itoa(a.PowerSpent),
			})
	}

	accel := a.PowerSpent + crew.AccelBonus(m.Role)
	if power.IsFullyPowered(s, ship.SectionBridge, ctx.Tables) {
		accel++
	}
	if ctx.Player.Captain != nil && ctx.Player.Captain.Active() {
		accel += crew.CaptainAccelBonus(ctx.Player.Captain.CaptainType)
	}
	if a.Distance > accel {
		return nil, rejectAction(xerrors.CodeManeuverOutOfRange, a,
			fmt.Sprintf("distance %d exceeds acceleration %d", a.Distance, accel),
			map[string]string{
				"distance":     strconv.Itoa(a.Distance),
				"acceleration": strconv.Itoa(accel),
			})
	}

	pos := s.Position
	switch a.Direction {
	case action.DirectionForward, action.DirectionBackward:
		step := a.Distance
		if a.Direction == action.DirectionBackward {
			step = -step
		}
		pos.Space += step
		pos = ctx.Board.Normalize(pos)
	case action.DirectionInward, action.DirectionOutward:
		step := -1
		if a.Direction == action.DirectionOutward {
			step = 1
		}
		target := pos.Ring + step*a.Distance
		if target < board.InnermostRing || target > board.OutermostRing {
			return nil, rejectAction(xerrors.CodeManeuverOutOfRange, a,
				fmt.Sprintf("ring %d is off the board", target), nil)
		}
		if a.Direction == action.DirectionInward {
			// Every ring crossed inward demands the speed to hold against
			// the gravity well.
			for ring := pos.Ring - 1; ring >= target; ring-- {
				if required := ctx.Board.Ring(ring).SpeedRequirement; accel < required {
					return nil, rejectAction(xerrors.CodeManeuverSpeedTooLow, a,
						fmt.Sprintf("ring %d requires speed %d, acceleration is %d", ring, required, accel),
						map[string]string{
							"ring":         strconv.Itoa(ring),
							"required":     strconv.Itoa(required),
							"acceleration": strconv.Itoa(accel),
						})
				}
			}
		}
		pos.Ring = target
		pos = ctx.Board.Normalize(pos)
	}

	drives.DrainPower(a.PowerSpent)
	s.Position = pos
	s.Speed = accel
	ctx.ManeuversUsed++

	out := applied(a)
	out.Acceleration = accel
	moved := pos
	out.MovedTo = &moved
	return out, nil
}
