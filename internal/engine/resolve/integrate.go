package resolve

import (
	"fmt"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Integrate mounts a pending upgrade. The performer has to be in the
// upgrade's host section unless the card mounts anywhere; the new upgrade
// starts uncharged.
func Integrate(ctx *Context, a action.Integrate) (*Applied, *Rejection) {
	_, sec, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	idx := ctx.Player.PendingIndex(a.Upgrade)
	if idx < 0 {
		return nil, rejectAction(xerrors.CodeUpgradeNotPending, a,
			fmt.Sprintf("upgrade %s is not pending", a.Upgrade),
			map[string]string{"upgrade": string(a.Upgrade)})
	}
	if ctx.Player.HasInstalled(a.Upgrade) {
		return nil, rejectAction(xerrors.CodeUpgradeNotPending, a,
			fmt.Sprintf("upgrade %s is already installed", a.Upgrade),
			map[string]string{"upgrade": string(a.Upgrade)})
	}
	card, ok := ctx.Catalog.Card(a.Upgrade)
	if !ok {
		return nil, rejectAction(xerrors.CodeTargetNotFound, a,
			fmt.Sprintf("upgrade %s is not in the catalog", a.Upgrade),
			map[string]string{"upgrade": string(a.Upgrade)})
	}
	if !card.AnySection && sec != card.Host {
		return nil, rejectAction(xerrors.CodeUpgradeWrongLocale, a,
			fmt.Sprintf("upgrade %s installs in %s, performer is in %s", a.Upgrade, card.Host, sec),
			map[string]string{
				"upgrade":           string(a.Upgrade),
				"host":              card.Host.String(),
				"performer_section": sec.String(),
			})
	}

	ctx.Player.Pending = append(ctx.Player.Pending[:idx], ctx.Player.Pending[idx+1:]...)
	ctx.Player.Installed = append(ctx.Player.Installed, &upgrade.Installed{Card: card})

	out := applied(a)
	out.UpgradeID = a.Upgrade
	return out, nil
}
