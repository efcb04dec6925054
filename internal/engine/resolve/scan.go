package resolve

import (
	"fmt"
	"strconv"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/power"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// longRangeSensorBonus is the scan range extension from powered long-range
// sensors.
const longRangeSensorBonus = 2

// Scan reveals a discovery at an object within sensor range, or, with a
// powered tachyon beam operated from the sci lab, clears an adjacent hazard.
func Scan(ctx *Context, a action.Scan) (*Applied, *Rejection) {
	m, sec, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	obj, dist, rej := targetObject(ctx, a, a.Object)
	if rej != nil {
		return nil, rej
	}

	if a.RemoveHazard {
		return removeHazard(ctx, a, sec, obj, dist)
	}

	if dist > scanRange(ctx, m) {
		return nil, rejectAction(xerrors.CodeTargetOutOfRange, a,
			fmt.Sprintf("%s is %d away, sensor range is %d", obj.ID, dist, scanRange(ctx, m)),
			map[string]string{"object": obj.ID, "distance": strconv.Itoa(dist)})
	}

	idx := discoveryIndex(obj, ctx.Turn)
	if idx < 0 {
		return nil, rejectAction(xerrors.CodeDiscoveryExhausted, a,
			fmt.Sprintf("nothing left to discover at %s", obj.ID),
			map[string]string{"object": obj.ID})
	}
	d := obj.Discoveries[idx]
	ctx.Player.RecordScan(obj.ID, d)
	if obj.Hostile {
		ctx.Player.MarkHostileScanned(obj.ID, ctx.Turn)
	}

	out := applied(a)
	found := d
	out.Discovery = &found
	return out, nil
}

// Acquire consumes a discovery the player has already revealed at an object,
// converting it into resources or a pending upgrade.
func Acquire(ctx *Context, a action.Acquire) (*Applied, *Rejection) {
	m, _, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	obj, dist, rej := targetObject(ctx, a, a.Object)
	if rej != nil {
		return nil, rej
	}
	if dist > scanRange(ctx, m) {
		return nil, rejectAction(xerrors.CodeTargetOutOfRange, a,
			fmt.Sprintf("%s is %d away, sensor range is %d", obj.ID, dist, scanRange(ctx, m)),
			map[string]string{"object": obj.ID, "distance": strconv.Itoa(dist)})
	}
	if len(ctx.Player.ScanDiscoveries[obj.ID]) == 0 && len(ctx.Player.ProbeScanLogs[obj.ID]) == 0 {
		return nil, rejectAction(xerrors.CodeDiscoveryExhausted, a,
			fmt.Sprintf("%s has not been scanned", obj.ID),
			map[string]string{"object": obj.ID})
	}

	idx := discoveryIndex(obj, ctx.Turn)
	if idx < 0 {
		return nil, rejectAction(xerrors.CodeDiscoveryExhausted, a,
			fmt.Sprintf("every discovery at %s has been claimed", obj.ID),
			map[string]string{"object": obj.ID})
	}
	d := obj.Discoveries[idx]
	if obj.Acquired == nil {
		obj.Acquired = make(map[int]bool)
	}
	obj.Acquired[idx] = true
	grantDiscovery(ctx.Player, d)

	out := applied(a)
	found := d
	out.Discovery = &found
	return out, nil
}

// scanRange is the sensor reach in board distance: base 1, plus the sci lab
// when fully powered, plus the performer's range bonus, plus powered
// long-range sensors.
func scanRange(ctx *Context, m *crew.Member) int {
	r := 1 + crew.RangeBonus(m.Role)
	if power.IsFullyPowered(ctx.Player.Ship, ship.SectionSciLab, ctx.Tables) {
		r++
	}
	if power.InstalledPowered(ctx.Player, upgrade.LongRangeSensors, ctx.Tables) {
		r += longRangeSensorBonus
	}
	return r
}

func targetObject(ctx *Context, act action.Action, id string) (*board.Object, int, *Rejection) {
	obj := ctx.Board.ObjectByID(id)
	if obj == nil {
		return nil, 0, rejectAction(xerrors.CodeTargetNotFound, act,
			fmt.Sprintf("object %s not found", id),
			map[string]string{"object": id})
	}
	return obj, ctx.Board.Distance(ctx.Player.Ship.Position, obj.Position), nil
}

func removeHazard(ctx *Context, a action.Scan, sec ship.Section, obj *board.Object, dist int) (*Applied, *Rejection) {
	if sec != ship.SectionSciLab {
		return nil, rejectAction(xerrors.CodeRestoreSectionDisallowed, a,
			"hazard removal is operated from the sci lab",
			map[string]string{"performer_section": sec.String()})
	}
	if !power.InstalledPowered(ctx.Player, upgrade.TachyonBeam, ctx.Tables) {
		return nil, rejectAction(xerrors.CodeAttackNotEquipped, a,
			"hazard removal requires a powered tachyon beam", nil)
	}
	if obj.Kind != board.KindHazard {
		return nil, rejectAction(xerrors.CodeTargetNotFound, a,
			fmt.Sprintf("%s is not a hazard", obj.ID),
			map[string]string{"object": obj.ID})
	}
	if dist > 1 {
		return nil, rejectAction(xerrors.CodeTargetOutOfRange, a,
			fmt.Sprintf("%s is %d away, tachyon beam reaches 1", obj.ID, dist),
			map[string]string{"object": obj.ID, "distance": strconv.Itoa(dist)})
	}
	ctx.Board.RemoveObject(obj.ID)
	out := applied(a)
	out.HazardRemoved = true
	return out, nil
}

// grantDiscovery converts a consumed discovery into player assets.
func grantDiscovery(p *player.State, d board.Discovery) {
	if d.Resource != "" {
		amount := d.Amount
		if amount == 0 {
			amount = 1
		}
		p.AddResource(player.ResourceType(d.Resource), amount)
	}
	if d.Upgrade != "" {
		p.Pending = append(p.Pending, upgrade.ID(d.Upgrade))
	}
}
