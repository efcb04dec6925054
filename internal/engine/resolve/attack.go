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

// Attack fires the ship's weapons at an object in range. Damage is the fixed
// dice total plus the firing section's full-power bonus, the performer's
// damage bonuses, and the intel bonus against previously scanned hostiles.
func Attack(ctx *Context, a action.Attack) (*Applied, *Rejection) {
	m, sec, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	s := ctx.Player.Ship
	if state := s.SectionState(sec); state == nil || state.Hull <= 0 {
		return nil, rejectAction(xerrors.CodeSectionDestroyed, a,
			fmt.Sprintf("cannot fire weapons from destroyed section %s", sec), nil)
	}
	switch sec {
	case ship.SectionDefense:
	case ship.SectionBridge:
		if !power.InstalledPowered(ctx.Player, upgrade.TacticalBridge, ctx.Tables) {
			return nil, rejectAction(xerrors.CodeAttackNotEquipped, a,
				"firing from the bridge requires a powered tactical bridge", nil)
		}
	default:
		return nil, rejectAction(xerrors.CodeAttackNotEquipped, a,
			fmt.Sprintf("cannot fire weapons from %s", sec),
			map[string]string{"performer_section": sec.String()})
	}

	obj, dist, rej := targetObject(ctx, a, a.Object)
	if rej != nil {
		return nil, rej
	}
	if dist > ctx.Tables.Combat.AttackRange {
		return nil, rejectAction(xerrors.CodeTargetOutOfRange, a,
			fmt.Sprintf("%s is %d away, weapons reach %d", obj.ID, dist, ctx.Tables.Combat.AttackRange),
			map[string]string{"object": obj.ID, "distance": strconv.Itoa(dist)})
	}

	damage := ctx.Tables.AttackDiceTotal() + crew.DamageBonus(m.Role)
	if m.Kind == crew.KindCaptain {
		damage += crew.CaptainDamageBonus(m.CaptainType)
	}
	if power.IsFullyPowered(s, sec, ctx.Tables) {
		damage += ctx.Tables.Combat.SectionFullBonus
	}
	if ctx.Player.HasScannedHostile(obj.ID) {
		damage += ctx.Tables.Combat.ScannedBonus
	}

	obj.Hull -= damage
	out := applied(a)
	out.DamageDealt = damage
	if obj.Hull <= 0 {
		ctx.Board.RemoveObject(obj.ID)
		out.TargetDestroyed = true
	}
	return out, nil
}
