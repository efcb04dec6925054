package turn

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/ship"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// stubTable is an inert event table for tests that exercise other phases.
type stubTable struct{}

func (stubTable) Resolve(g *GameState) *EventRecord {
	return &EventRecord{Name: "calm", Turn: g.CurrentTurn}
}

func testGame(t *testing.T) *GameState {
	t.Helper()
	g, err := NewGame("game-1", []PlayerSpec{
		{ID: "p1", Name: "Vasquez", Captain: crew.CaptainCommander},
		{ID: "p2", Name: "Osei", Captain: crew.CaptainExplorer},
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func crewByRole(t *testing.T, p *player.State, role crew.Role) *crew.Member {
	t.Helper()
	for _, m := range p.Crew {
		if m.Role == role {
			return m
		}
	}
	t.Fatalf("player %s has no %s", p.ID, role)
	return nil
}

func advanceTo(t *testing.T, g *GameState, phase Phase) *GameState {
	t.Helper()
	for i := 0; g.Phase != phase; i++ {
		if i > 5 {
			t.Fatalf("never reached phase %s", phase)
		}
		next, _, err := ProcessTurn(g, nil, stubTable{})
		if err != nil {
			t.Fatalf("advance to %s: %v", phase, err)
		}
		g = next
	}
	return g
}

func TestNewGameInitialState(t *testing.T) {
	g := testGame(t)
	if g.Status != StatusInProgress || g.Phase != PhaseEvent || g.CurrentTurn != 1 {
		t.Fatalf("initial state = %s/%s/turn %d", g.Status, g.Phase, g.CurrentTurn)
	}
	for _, p := range g.Players {
		if got := len(p.Roster()); got != 7 {
			t.Fatalf("player %s roster = %d, want 7", p.ID, got)
		}
		if p.Ship.Position.Ring != 8 {
			t.Fatalf("player %s starts on ring %d, want 8", p.ID, p.Ship.Position.Ring)
		}
	}
	if g.Players[1].ExplorerRepairKit != true {
		t.Fatalf("explorer captain missing repair kit")
	}
	if len(g.Board.Objects) == 0 {
		t.Fatalf("board seeded with no objects")
	}
}

func TestPhaseCycleReturnsToPlanning(t *testing.T) {
	g := advanceTo(t, testGame(t), PhasePlanning)
	startTurn := g.CurrentTurn

	var last *Report
	for i := 0; i < 4; i++ {
		next, rep, err := ProcessTurn(g, nil, stubTable{})
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		g, last = next, rep
	}
	if g.Phase != PhasePlanning {
		t.Fatalf("phase = %s, want %s", g.Phase, PhasePlanning)
	}
	if g.CurrentTurn != startTurn+1 {
		t.Fatalf("turn = %d, want %d", g.CurrentTurn, startTurn+1)
	}
	if last.Event == nil || last.Event.Turn != startTurn+1 {
		t.Fatalf("resolution report event = %+v, want one for turn %d", last.Event, startTurn+1)
	}
	if g.LastEvent == nil || g.LastEvent.Turn != startTurn+1 {
		t.Fatalf("last event = %+v, want one for turn %d", g.LastEvent, startTurn+1)
	}
}

func TestProcessTurnIsDeterministic(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseExecution)
	eng := crewByRole(t, g.Players[0], crew.RoleEngineer)
	actions := TurnActions{
		"p1": {action.Restore{Base: action.Base{PlayerID: "p1", CrewID: eng.ID}}},
	}

	a, _, err := ProcessTurn(g, actions, stubTable{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, _, err := ProcessTurn(g, actions, stubTable{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	if string(aJSON) != string(bJSON) {
		t.Fatalf("identical inputs diverged:\n%s\n%s", aJSON, bJSON)
	}
}

func TestProcessTurnDoesNotMutateInput(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseExecution)
	before, _ := json.Marshal(g)

	eng := crewByRole(t, g.Players[0], crew.RoleEngineer)
	if _, _, err := ProcessTurn(g, TurnActions{
		"p1": {action.Restore{Base: action.Base{PlayerID: "p1", CrewID: eng.ID}}},
	}, stubTable{}); err != nil {
		t.Fatalf("process: %v", err)
	}
	after, _ := json.Marshal(g)
	if string(before) != string(after) {
		t.Fatalf("input snapshot mutated")
	}
}

func TestProcessTurnEndedGameRejected(t *testing.T) {
	g := testGame(t)
	g.Status = StatusEnded
	_, _, err := ProcessTurn(g, nil, stubTable{})
	var xerr *xerrors.Error
	if err == nil {
		t.Fatalf("expected error for ended game")
	}
	if !asEngineError(err, &xerr) || xerr.Code != xerrors.CodeGameNotRunning {
		t.Fatalf("error = %v, want %s", err, xerrors.CodeGameNotRunning)
	}
}

func TestPlanningRejectsUnknownCrew(t *testing.T) {
	g := advanceTo(t, testGame(t), PhasePlanning)
	_, _, err := ProcessTurn(g, TurnActions{
		"p1": {action.Restore{Base: action.Base{PlayerID: "p1", CrewID: "ghost"}}},
	}, stubTable{})
	var xerr *xerrors.Error
	if err == nil || !asEngineError(err, &xerr) || xerr.Code != xerrors.CodeCrewNotFound {
		t.Fatalf("error = %v, want %s", err, xerrors.CodeCrewNotFound)
	}
	if g.Phase != PhasePlanning {
		t.Fatalf("failed planning advanced the phase")
	}
}

func TestPlanningRejectsOverCapacityRevives(t *testing.T) {
	g := advanceTo(t, testGame(t), PhasePlanning)
	p := g.Players[0]
	p.Ship.LifeSupportPower = 0 // capacity 0: everyone is already overflow
	doc := crewByRole(t, p, crew.RoleDoctor)
	doc.Status = crew.StatusUnconscious

	_, _, err := ProcessTurn(g, TurnActions{
		"p1": {action.Revive{Base: action.Base{PlayerID: "p1", CrewID: p.Captain.ID}, Target: doc.ID}},
	}, stubTable{})
	var xerr *xerrors.Error
	if err == nil || !asEngineError(err, &xerr) || xerr.Code != xerrors.CodeReviveCapacityExceeded {
		t.Fatalf("error = %v, want %s", err, xerrors.CodeReviveCapacityExceeded)
	}
}

func TestExecutionCollectsRejectionsWithoutBlocking(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseExecution)
	p := g.Players[0]
	eng := crewByRole(t, p, crew.RoleEngineer)
	doc := crewByRole(t, p, crew.RoleDoctor)

	next, rep, err := ProcessTurn(g, TurnActions{
		"p1": {
			action.Restore{Base: action.Base{PlayerID: "p1", CrewID: eng.ID}},
			// Doctor is in the med lab, which cannot generate power.
			action.Restore{Base: action.Base{PlayerID: "p1", CrewID: doc.ID}},
		},
	}, stubTable{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(rep.Applied) != 1 || len(rep.Rejected) != 1 {
		t.Fatalf("applied %d rejected %d, want 1 and 1", len(rep.Applied), len(rep.Rejected))
	}
	if rep.Rejected[0].Rejection.Code != xerrors.CodeRestoreSectionDisallowed {
		t.Fatalf("rejection code = %s", rep.Rejected[0].Rejection.Code)
	}
	if next.Phase != PhaseEnvironment {
		t.Fatalf("phase = %s, want %s", next.Phase, PhaseEnvironment)
	}
}

func TestExecutionOrdersPrimaryBeforeBonus(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseExecution)
	p := g.Players[0]
	eng := crewByRole(t, p, crew.RoleEngineer)
	pilot := crewByRole(t, p, crew.RolePilot)

	_, rep, err := ProcessTurn(g, TurnActions{
		"p1": {
			action.Maneuver{
				Base:      action.Base{PlayerID: "p1", CrewID: pilot.ID, Slot: action.SlotBonus},
				Direction: action.DirectionForward, Distance: 1, PowerSpent: 0,
			},
			action.Restore{Base: action.Base{PlayerID: "p1", CrewID: eng.ID}},
		},
	}, stubTable{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(rep.Applied) != 2 {
		t.Fatalf("applied %d actions, want 2: %+v", len(rep.Applied), rep.Rejected)
	}
	if rep.Applied[0].Kind != action.TypeRestore || rep.Applied[1].Kind != action.TypeManeuver {
		t.Fatalf("order = %s, %s; want restore then maneuver", rep.Applied[0].Kind, rep.Applied[1].Kind)
	}
}

func TestOverloadedRouteDamagesConduitAtResolution(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseExecution)
	p := g.Players[0]
	eng := crewByRole(t, p, crew.RoleEngineer)
	max := content.Default().Sections["engineering"].StorageMax
	p.Ship.SectionState(ship.SectionEngineering).AddPower(3, max)

	next, _, err := ProcessTurn(g, TurnActions{
		"p1": {action.Route{
			Base:   action.Base{PlayerID: "p1", CrewID: eng.ID},
			From:   action.Endpoint{Section: ship.SectionEngineering},
			To:     action.Endpoint{Section: ship.SectionBridge},
			Amount: 5,
		}},
	}, stubTable{})
	if err != nil {
		t.Fatalf("execution: %v", err)
	}
	if len(next.EdgeLoad["p1"]) == 0 {
		t.Fatalf("edge load not recorded")
	}

	next = advanceTo(t, next, PhaseResolution)
	resolved, rep, err := ProcessTurn(next, nil, stubTable{})
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}
	if len(rep.Resolution.OverloadedEdges["p1"]) == 0 {
		t.Fatalf("no overloaded edges reported")
	}
	edge := resolved.Players[0].Ship.EdgeBetween(ship.SectionEngineering, ship.SectionMedLab)
	if edge.Conduits != 0 {
		t.Fatalf("overloaded conduit count = %d, want 0", edge.Conduits)
	}
	if resolved.EdgeLoad != nil {
		t.Fatalf("edge load not cleared after resolution")
	}
}

func TestEnvironmentCarriesShipsWithRings(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseEnvironment)
	p := g.Players[0]
	p.Ship.Position = board.Position{Ring: 5, Space: 11}

	next, rep, err := ProcessTurn(g, nil, stubTable{})
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	step := rep.Environment.RingRotations[4] // ring 5 rotates by 1
	want := (11 + step) % 16
	if got := next.Players[0].Ship.Position.Space; got != want {
		t.Fatalf("space = %d, want %d", got, want)
	}
}

func TestEnvironmentHazardZoneDamage(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseEnvironment)
	p := g.Players[0]
	p.Ship.Position.Ring = 2 // orange zone, damage 2
	p.Ship.Position.Space = 0
	p.Ship.Shields = 1
	before := p.Ship.SectionState(ship.SectionMedLab).Hull

	next, rep, err := ProcessTurn(g, nil, stubTable{})
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	if rep.Environment.HullDamage["p1"] < 2 {
		t.Fatalf("hull damage = %d, want at least 2", rep.Environment.HullDamage["p1"])
	}
	np := next.Players[0]
	if np.Ship.Shields != 0 {
		t.Fatalf("shields = %d, want 0", np.Ship.Shields)
	}
	if got := np.Ship.SectionState(ship.SectionMedLab).Hull; got >= before {
		t.Fatalf("med lab hull = %d, want below %d", got, before)
	}
	if np.Ship.LifeSupportPower >= startingLifeSupport {
		t.Fatalf("life support did not drop in hazard zone")
	}
}

func TestResolutionKnocksOutOverflowCrew(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseResolution)
	p := g.Players[0]
	p.Ship.LifeSupportPower = 8 // capacity 4, load 6

	next, rep, err := ProcessTurn(g, nil, stubTable{})
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}
	if got := len(rep.Resolution.KnockedOut["p1"]); got != 2 {
		t.Fatalf("knocked out %d crew, want 2", got)
	}
	np := next.Players[0]
	// The scientist and pilot sit at the end of the roster; the android
	// before them never draws on the pool.
	sci := crewByRole(t, np, crew.RoleScientist)
	pilot := crewByRole(t, np, crew.RolePilot)
	android := crewByRole(t, np, crew.RoleAndroid)
	if sci.Status != crew.StatusUnconscious || pilot.Status != crew.StatusUnconscious {
		t.Fatalf("overflow crew still active: sci=%s pilot=%s", sci.Status, pilot.Status)
	}
	if android.Status != crew.StatusActive {
		t.Fatalf("android knocked out despite not drawing life support")
	}
}

func TestResolutionRegeneratesEngineering(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseResolution)
	p := g.Players[0]
	before := p.Ship.SectionState(ship.SectionEngineering).StoredPower()

	next, _, err := ProcessTurn(g, nil, stubTable{})
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}
	if got := next.Players[0].Ship.SectionState(ship.SectionEngineering).StoredPower(); got != before+1 {
		t.Fatalf("engineering power = %d, want %d", got, before+1)
	}
}

func TestResolutionEliminatesAndEndsGame(t *testing.T) {
	g := advanceTo(t, testGame(t), PhaseResolution)
	for _, p := range g.Players {
		for _, sec := range ship.AllSections() {
			p.Ship.SectionState(sec).Hull = 0
		}
	}

	next, rep, err := ProcessTurn(g, nil, stubTable{})
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}
	if len(rep.Resolution.Eliminated) != 2 || !rep.Resolution.GameEnded {
		t.Fatalf("eliminated=%v ended=%v, want both players out and game over",
			rep.Resolution.Eliminated, rep.Resolution.GameEnded)
	}
	if next.Status != StatusEnded {
		t.Fatalf("status = %s, want %s", next.Status, StatusEnded)
	}
}

func TestApplyPlayerActionsIsSpeculative(t *testing.T) {
	g := advanceTo(t, testGame(t), PhasePlanning)
	p := g.Players[0]
	eng := crewByRole(t, p, crew.RoleEngineer)
	before := p.Ship.SectionState(ship.SectionEngineering).StoredPower()

	preview, applied, rejected, err := ApplyPlayerActions(g, "p1", []action.Action{
		action.Restore{Base: action.Base{PlayerID: "p1", CrewID: eng.ID}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(applied) != 1 || len(rejected) != 0 {
		t.Fatalf("applied %d rejected %d, want 1 and 0", len(applied), len(rejected))
	}
	if got := p.Ship.SectionState(ship.SectionEngineering).StoredPower(); got != before {
		t.Fatalf("preview mutated the input snapshot")
	}
	if got := preview.PlayerByID("p1").Ship.SectionState(ship.SectionEngineering).StoredPower(); got <= before {
		t.Fatalf("preview power = %d, want above %d", got, before)
	}
}

func TestPreviewManeuver(t *testing.T) {
	g := advanceTo(t, testGame(t), PhasePlanning)
	p := g.Players[0]
	pilot := crewByRole(t, p, crew.RolePilot)
	beforePos := p.Ship.Position

	out, rej, err := PreviewManeuver(g, action.Maneuver{
		Base:      action.Base{PlayerID: "p1", CrewID: pilot.ID},
		Direction: action.DirectionForward, Distance: 2, PowerSpent: 1,
	})
	if err != nil || rej != nil {
		t.Fatalf("preview: err=%v rej=%+v", err, rej)
	}
	// 1 power + 1 pilot + 1 powered bridge.
	if out.Acceleration != 3 {
		t.Fatalf("acceleration = %d, want 3", out.Acceleration)
	}
	if p.Ship.Position != beforePos {
		t.Fatalf("preview moved the real ship")
	}
}

func TestGameStateSurvivesJSONRoundTrip(t *testing.T) {
	g := testGame(t)
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored GameState
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := restored.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Players[0].Ship.EdgeBetween(ship.SectionEngineering, ship.SectionDrives) == nil {
		t.Fatalf("edges not restored after round trip")
	}
	again, err := json.Marshal(&restored)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(raw) != string(again) {
		t.Fatalf("round trip not lossless")
	}
}

func asEngineError(err error, target **xerrors.Error) bool {
	return errors.As(err, target)
}
