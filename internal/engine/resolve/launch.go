package resolve

import (
	"fmt"
	"strconv"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Launch fires a torpedo at an object or sends a probe to it, spending one
// unit of the matching resource. Torpedoes deal fixed damage within their
// range; probes travel any distance and log a discovery without consuming it.
func Launch(ctx *Context, a action.Launch) (*Applied, *Rejection) {
	if _, _, rej := performer(ctx, a); rej != nil {
		return nil, rej
	}
	obj, dist, rej := targetObject(ctx, a, a.Object)
	if rej != nil {
		return nil, rej
	}

	switch a.Payload {
	case crew.ItemTorpedo:
		if dist > ctx.Tables.Combat.TorpedoRange {
			return nil, rejectAction(xerrors.CodeTargetOutOfRange, a,
				fmt.Sprintf("%s is %d away, torpedoes reach %d", obj.ID, dist, ctx.Tables.Combat.TorpedoRange),
				map[string]string{"object": obj.ID, "distance": strconv.Itoa(dist)})
		}
		if !ctx.Player.SpendResource(player.ResourceTorpedoes) {
			return nil, rejectAction(xerrors.CodeResourceExhausted, a,
				"no torpedoes left", nil)
		}
		damage := ctx.Tables.Combat.TorpedoDamage
		obj.Hull -= damage
		out := applied(a)
		out.DamageDealt = damage
		if obj.Hull <= 0 {
			ctx.Board.RemoveObject(obj.ID)
			out.TargetDestroyed = true
		}
		return out, nil

	case crew.ItemProbe:
		idx := discoveryIndex(obj, ctx.Turn)
		if idx < 0 {
			return nil, rejectAction(xerrors.CodeDiscoveryExhausted, a,
				fmt.Sprintf("nothing left to discover at %s", obj.ID),
				map[string]string{"object": obj.ID})
		}
		if !ctx.Player.SpendResource(player.ResourceProbes) {
			return nil, rejectAction(xerrors.CodeResourceExhausted, a,
				"no probes left", nil)
		}
		d := obj.Discoveries[idx]
		ctx.Player.RecordProbeScan(obj.ID, d)
		if obj.Hostile {
			ctx.Player.MarkHostileScanned(obj.ID, ctx.Turn)
		}
		out := applied(a)
		found := d
		out.Discovery = &found
		return out, nil
	}

	return nil, rejectAction(xerrors.CodeActionTypeUnsupported, a,
		fmt.Sprintf("unknown payload %q", a.Payload), nil)
}
