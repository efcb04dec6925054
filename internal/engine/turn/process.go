package turn

import (
	"fmt"
	"sort"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/power"
	"github.com/adriftworks/adrift/internal/engine/resolve"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// ProcessTurn advances the game by exactly one phase and returns the new
// snapshot plus a report of what happened. The input state is never touched:
// on any fatal error the caller keeps the prior snapshot and gets the error.
//
// Actions matter in two phases. Planning validates them and refuses to
// advance while any is structurally broken or plans a revive past
// life-support capacity. Execution applies them; precondition failures
// reject individual actions without blocking the rest.
func ProcessTurn(g *GameState, actions TurnActions, table Table) (*GameState, *Report, error) {
	if g.Status != StatusInProgress {
		return nil, nil, xerrors.New(xerrors.CodeGameNotRunning,
			fmt.Sprintf("game %s is %s", g.ID, g.Status))
	}

	clone := g.Clone()
	rep := &Report{Phase: clone.Phase, Turn: clone.CurrentTurn}

	switch clone.Phase {
	case PhaseEvent:
		if table != nil {
			rep.Event = table.Resolve(clone)
			clone.LastEvent = rep.Event
		}
		clone.Phase = PhasePlanning

	case PhasePlanning:
		if err := validatePlanning(clone, actions); err != nil {
			return nil, nil, err
		}
		clone.Phase = PhaseExecution

	case PhaseExecution:
		if err := executeActions(clone, actions, rep); err != nil {
			return nil, nil, err
		}
		clone.Phase = PhaseEnvironment

	case PhaseEnvironment:
		rep.Environment = runEnvironment(clone)
		clone.Phase = PhaseResolution

	case PhaseResolution:
		// Resolution closes the turn: after upkeep the counter advances,
		// the next turn's event fires, and play returns to planning. Only
		// a brand-new game ever sits in the standalone event phase above.
		rep.Resolution = runResolution(clone)
		clone.CurrentTurn++
		if clone.Status == StatusInProgress && table != nil {
			rep.Event = table.Resolve(clone)
			clone.LastEvent = rep.Event
		}
		clone.Phase = PhasePlanning

	default:
		return nil, nil, xerrors.New(xerrors.CodeWrongPhase,
			fmt.Sprintf("unknown phase %q", clone.Phase))
	}

	return clone, rep, nil
}

// validatePlanning checks every queued action structurally and enforces the
// planning-boundary rules that must hold across the whole action set, like
// the projected life-support load of all planned revives.
func validatePlanning(g *GameState, actions TurnActions) error {
	for playerID, acts := range actions {
		p := g.PlayerByID(playerID)
		if p == nil {
			return xerrors.New(xerrors.CodePlayerNotFound,
				fmt.Sprintf("player %s not in game %s", playerID, g.ID))
		}
		var reviveTargets []string
		for _, act := range acts {
			if err := act.Validate(); err != nil {
				return err
			}
			if p.CrewByID(act.Crew()) == nil {
				return xerrors.WithMetadata(xerrors.CodeCrewNotFound,
					fmt.Sprintf("crew %s not found for player %s", act.Crew(), playerID),
					map[string]string{"player_id": playerID, "crew_id": act.Crew()})
			}
			if rev, ok := act.(action.Revive); ok {
				reviveTargets = append(reviveTargets, rev.Target)
			}
		}
		tables := content.Default()
		capacity := power.Capacity(p, tables)
		if projected := power.ProjectedLoad(p, reviveTargets); projected > capacity {
			return xerrors.WithMetadata(xerrors.CodeReviveCapacityExceeded,
				fmt.Sprintf("planned revives load life support %d over capacity %d", projected, capacity),
				map[string]string{"player_id": playerID})
		}
	}
	return nil
}

// executeActions resolves every player's queued actions. Players resolve in
// turn order; within a player, primary actions run before bonus actions and
// ties break on crew id, so the same action set always resolves the same way.
func executeActions(g *GameState, actions TurnActions, rep *Report) error {
	for playerID := range actions {
		if g.PlayerByID(playerID) == nil {
			return xerrors.New(xerrors.CodePlayerNotFound,
				fmt.Sprintf("player %s not in game %s", playerID, g.ID))
		}
	}

	tables := content.Default()
	catalog, err := upgrade.LoadCatalog(tables)
	if err != nil {
		return err
	}
	if g.EdgeLoad == nil {
		g.EdgeLoad = make(map[string]map[string]int)
	}

	for _, p := range g.Players {
		if p.Status != player.StatusActive {
			continue
		}
		acts := append([]action.Action(nil), actions[p.ID]...)
		sort.SliceStable(acts, func(i, j int) bool {
			if acts[i].ActionSlot() != acts[j].ActionSlot() {
				return acts[i].ActionSlot() == action.SlotPrimary
			}
			return acts[i].Crew() < acts[j].Crew()
		})

		ctx := &resolve.Context{
			Player:  p,
			Board:   g.Board,
			Tables:  tables,
			Catalog: catalog,
			Turn:    g.CurrentTurn,
			Ledger:  ship.PowerLedger{},
		}
		for _, act := range acts {
			applied, rej := resolve.Resolve(ctx, act)
			if rej != nil {
				if rej.Code.Fatal() {
					return xerrors.WithMetadata(rej.Code, rej.Message, rej.Meta)
				}
				rep.Rejected = append(rep.Rejected, RejectedAction{
					Kind:      act.Type(),
					PlayerID:  act.Player(),
					CrewID:    act.Crew(),
					Rejection: *rej,
				})
				continue
			}
			rep.Applied = append(rep.Applied, *applied)
		}
		if load := ctx.Ledger.ToSerializable(); load != nil {
			g.EdgeLoad[p.ID] = load
		}
	}
	return nil
}

// runEnvironment rotates the board and applies hazard damage to everything
// on it.
func runEnvironment(g *GameState) *EnvironmentReport {
	tables := content.Default()
	rep := &EnvironmentReport{
		RingRotations:   g.Board.RotateRings(),
		HullDamage:      make(map[string]int),
		LifeSupportLoss: make(map[string]int),
	}

	// Objects ride their rings automatically; ships have to be carried too.
	for _, p := range g.Players {
		pos := p.Ship.Position
		if ring := g.Board.Ring(pos.Ring); ring != nil {
			pos.Space += rep.RingRotations[pos.Ring-1]
			p.Ship.Position = g.Board.Normalize(pos)
		}
	}

	for _, p := range g.Players {
		if p.Status != player.StatusActive {
			continue
		}
		hull, lifeSupport := environmentDamage(g, p, tables)
		if hull > 0 {
			applyHullDamage(p, hull, tables)
			rep.HullDamage[p.ID] = hull
		}
		if lifeSupport > 0 {
			p.Ship.LifeSupportPower -= lifeSupport
			if p.Ship.LifeSupportPower < 0 {
				p.Ship.LifeSupportPower = 0
			}
			rep.LifeSupportLoss[p.ID] = lifeSupport
		}
	}

	// Unshielded objects weather the same zones.
	remaining := g.Board.Objects[:0]
	for _, obj := range g.Board.Objects {
		if obj.Hull > 0 {
			obj.Hull -= zoneDamage(obj.Position.Ring, tables)
			if obj.Hull <= 0 {
				continue
			}
		}
		remaining = append(remaining, obj)
	}
	g.Board.Objects = remaining
	return rep
}

func zoneDamage(ring int, tables *content.Tables) int {
	return tables.Hazard.ZoneDamage[string(board.ZoneColor(ring))]
}

// environmentDamage totals a ship's hull and life-support losses for the
// phase: its ring's zone damage plus radiation from every radioactive object
// in range. Plating halves hull damage, rounded up.
func environmentDamage(g *GameState, p *player.State, tables *content.Tables) (hull, lifeSupport int) {
	hull = zoneDamage(p.Ship.Position.Ring, tables)
	if hull > 0 {
		lifeSupport += tables.Hazard.LifeSupportLoss
	}
	for _, obj := range g.Board.Objects {
		if !obj.Radioactive {
			continue
		}
		if g.Board.Distance(p.Ship.Position, obj.Position) <= tables.Hazard.RadiationRange {
			hull += tables.Hazard.RadiationHullDamage
			lifeSupport += tables.Hazard.RadiationLifeSupportLoss
		}
	}
	if hull > 0 && power.InstalledPowered(p, upgrade.HighDensityPlating, tables) {
		hull = (hull + 1) / 2
	}
	return hull, lifeSupport
}

// applyHullDamage spends shields first, then spreads the remainder one point
// at a time across standing sections in canonical order.
func applyHullDamage(p *player.State, amount int, tables *content.Tables) {
	if absorbed := p.Ship.Shields; absorbed > 0 {
		if absorbed > amount {
			absorbed = amount
		}
		p.Ship.Shields -= absorbed
		amount -= absorbed
	}
	for amount > 0 {
		hit := false
		for _, sec := range ship.AllSections() {
			if amount == 0 {
				break
			}
			state := p.Ship.SectionState(sec)
			if state == nil || state.Hull <= 0 {
				continue
			}
			state.Hull--
			amount--
			hit = true
		}
		if !hit {
			return // nothing left to damage
		}
	}
}

// runResolution does the end-of-turn bookkeeping: conduit overload damage,
// life-support overflow, power decay and regeneration, and eliminations.
func runResolution(g *GameState) *ResolutionReport {
	tables := content.Default()
	rep := &ResolutionReport{
		OverloadedEdges: make(map[string][]string),
		KnockedOut:      make(map[string][]string),
	}

	for _, p := range g.Players {
		if p.Status != player.StatusActive {
			continue
		}
		damageOverloadedEdges(g, p, tables, rep)
		knockOutOverflow(p, tables, rep)
		decayAndRegen(p, tables)
		if eliminated(p) {
			p.Status = player.StatusEliminated
			rep.Eliminated = append(rep.Eliminated, p.ID)
		}
	}
	g.EdgeLoad = nil

	allOut := true
	for _, p := range g.Players {
		if p.Status == player.StatusActive {
			allOut = false
			break
		}
	}
	if allOut {
		g.Status = StatusEnded
		rep.GameEnded = true
	}
	return rep
}

// damageOverloadedEdges burns one conduit on every edge whose accumulated
// load this turn exceeded its safe capacity.
func damageOverloadedEdges(g *GameState, p *player.State, tables *content.Tables, rep *ResolutionReport) {
	raw := g.EdgeLoad[p.ID]
	if len(raw) == 0 {
		return
	}
	ledger, err := ship.LedgerFromSerializable(raw)
	if err != nil {
		return
	}
	for _, key := range ledger.Overloaded(p.Ship, tables.Power.MaxPerConduit) {
		edge := p.Ship.Edges[key]
		if edge.Conduits > 0 {
			edge.Conduits--
		}
		rep.OverloadedEdges[p.ID] = append(rep.OverloadedEdges[p.ID], key.String())
	}
}

// knockOutOverflow drops crew unconscious while load exceeds life-support
// capacity. Basic crew go first, then officers, then the captain; androids
// never draw on the pool and are skipped.
func knockOutOverflow(p *player.State, tables *content.Tables, rep *ResolutionReport) {
	excess := power.Load(p) - power.Capacity(p, tables)
	for i := len(p.Crew) - 1; i >= 0 && excess > 0; i-- {
		m := p.Crew[i]
		if !m.NeedsLifeSupport() {
			continue
		}
		m.Status = crew.StatusUnconscious
		rep.KnockedOut[p.ID] = append(rep.KnockedOut[p.ID], m.ID)
		excess--
	}
	if excess > 0 && p.Captain != nil && p.Captain.NeedsLifeSupport() {
		p.Captain.Status = crew.StatusUnconscious
		rep.KnockedOut[p.ID] = append(rep.KnockedOut[p.ID], p.Captain.ID)
	}
}

// decayAndRegen drains a point of power from every destroyed section and
// feeds one back into a standing engineering core.
func decayAndRegen(p *player.State, tables *content.Tables) {
	for _, sec := range ship.AllSections() {
		state := p.Ship.SectionState(sec)
		if state == nil {
			continue
		}
		if state.Hull <= 0 {
			state.DrainPower(1)
		}
	}
	eng := p.Ship.SectionState(ship.SectionEngineering)
	if eng != nil && eng.Hull > 0 {
		eng.AddPower(1, tables.Sections[ship.SectionEngineering.String()].StorageMax)
	}
}

// eliminated reports whether the player is out of the game: the whole ship
// gone, or nobody left who could ever act again.
func eliminated(p *player.State) bool {
	hullGone := true
	for _, sec := range ship.AllSections() {
		if state := p.Ship.SectionState(sec); state != nil && state.Hull > 0 {
			hullGone = false
			break
		}
	}
	if hullGone {
		return true
	}
	for _, m := range p.Roster() {
		if m.Status != crew.StatusDead {
			return false
		}
	}
	return true
}
