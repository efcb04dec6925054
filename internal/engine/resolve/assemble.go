package resolve

import (
	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
)

// Assemble progresses crafting of a torpedo or probe. Points per action are
// fixed by the performer's role and the item; when accumulated progress
// reaches the item's threshold the crafted unit lands in the player's
// resources and the remainder carries over.
func Assemble(ctx *Context, a action.Assemble) (*Applied, *Rejection) {
	m, _, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}

	points := crew.AssembleRoll(m.Role, a.Item) + crew.AssembleBonus(m.Role, a.Item)
	if m.AssembleProgress == nil {
		m.AssembleProgress = make(map[crew.ItemType]int)
	}
	m.AssembleProgress[a.Item] += points

	out := applied(a)
	threshold := ctx.Tables.Thresholds.Assemble[string(a.Item)]
	if threshold > 0 && m.AssembleProgress[a.Item] >= threshold {
		m.AssembleProgress[a.Item] -= threshold
		switch a.Item {
		case crew.ItemTorpedo:
			ctx.Player.AddResource(player.ResourceTorpedoes, 1)
		case crew.ItemProbe:
			ctx.Player.AddResource(player.ResourceProbes, 1)
		}
		out.ItemCompleted = true
	}
	return out, nil
}
