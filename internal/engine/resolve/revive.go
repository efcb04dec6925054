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

// medLabReviveBonus is the extra revive progress from a powered med lab.
const medLabReviveBonus = 2

// Revive adds progress toward waking an unconscious crew member. The roll is
// fixed by the performer's role, the med lab adds its bonus once per unit of
// uncommitted power, and nano-bots double the whole contribution. The target
// wakes when progress reaches the threshold.
func Revive(ctx *Context, a action.Revive) (*Applied, *Rejection) {
	m, _, rej := performer(ctx, a)
	if rej != nil {
		return nil, rej
	}
	target := ctx.Player.CrewByID(a.Target)
	if target == nil {
		return nil, rejectAction(xerrors.CodeCrewNotFound, a,
			fmt.Sprintf("revive target %s not found", a.Target),
			map[string]string{"target": a.Target})
	}
	if target.Status != crew.StatusUnconscious {
		return nil, rejectAction(xerrors.CodeCrewNotUnconscious, a,
			fmt.Sprintf("revive target %s is %s", target.ID, target.Status),
			map[string]string{"target": target.ID})
	}
	capacity := power.Capacity(ctx.Player, ctx.Tables)
	if projected := power.ProjectedLoad(ctx.Player, []string{target.ID}); projected > capacity {
		return nil, rejectAction(xerrors.CodeReviveCapacityExceeded, a,
			fmt.Sprintf("reviving %s would load life support %d over capacity %d", target.ID, projected, capacity),
			map[string]string{
				"target":   target.ID,
				"load":     strconv.Itoa(projected),
				"capacity": strconv.Itoa(capacity),
			})
	}

	points := crew.ReviveRoll(m) + crew.ReviveBonus(m.Role)
	if medLabHasUncommittedPower(ctx) {
		points += medLabReviveBonus
		ctx.MedLabCommits++
	}
	if power.InstalledPowered(ctx.Player, upgrade.NanoBots, ctx.Tables) {
		points *= 2
	}

	target.ReviveProgress += points
	out := applied(a)
	out.ReviveProgress = points
	if target.ReviveProgress >= ctx.Tables.Thresholds.Revive {
		target.Status = crew.StatusActive
		target.ReviveProgress = 0
		out.ReviveCompleted = true
	}
	return out, nil
}

// medLabHasUncommittedPower reports whether the med lab is fully powered and
// still holds power beyond its requirement that no revive has committed this
// turn.
func medLabHasUncommittedPower(ctx *Context) bool {
	if !power.IsFullyPowered(ctx.Player.Ship, ship.SectionMedLab, ctx.Tables) {
		return false
	}
	state := ctx.Player.Ship.SectionState(ship.SectionMedLab)
	requirement := ctx.Tables.Sections[ship.SectionMedLab.String()].PowerRequirement
	return state.StoredPower()-requirement-ctx.MedLabCommits > 0
}
