package turn

import (
	"fmt"

	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	"github.com/adriftworks/adrift/internal/id"
)

// startingLifeSupport sustains the standard seven-strong roster with one
// slot of headroom.
const startingLifeSupport = 16

// PlayerSpec names one player joining a new game.
type PlayerSpec struct {
	ID      string
	Name    string
	Captain crew.CaptainType
}

// NewGame builds the initial snapshot: each player a fresh ship and the
// standard roster, the board seeded with its object spread, phase at the
// first turn's event. Player order fixes turn order for the whole game.
func NewGame(gameID string, specs []PlayerSpec) (*GameState, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("new game: at least one player required")
	}
	tables := content.Default()
	g := &GameState{
		ID:          gameID,
		Status:      StatusInProgress,
		CurrentTurn: 1,
		Phase:       PhaseEvent,
		Board:       board.New(tables),
	}
	seedObjects(g.Board)

	for i, spec := range specs {
		if spec.ID == "" {
			spec.ID = id.New()
		}
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("Player %d", i+1)
		}
		p, err := newPlayer(spec, tables)
		if err != nil {
			return nil, fmt.Errorf("new game: player %s: %w", spec.ID, err)
		}
		// Ships start spread along the outermost ring.
		ring := g.Board.Ring(board.OutermostRing)
		p.Ship.Position = board.Position{
			Ring:  board.OutermostRing,
			Space: (i * ring.Spaces) / len(specs),
		}
		g.Players = append(g.Players, p)
	}
	return g, nil
}

func newPlayer(spec PlayerSpec, tables *content.Tables) (*player.State, error) {
	sh, err := ship.New(tables)
	if err != nil {
		return nil, err
	}
	sh.LifeSupportPower = startingLifeSupport

	p := &player.State{
		ID:   spec.ID,
		Name: spec.Name,
		Ship: sh,
		Captain: &crew.Member{
			ID: id.New(), Name: "Captain", Kind: crew.KindCaptain,
			CaptainType: spec.Captain, Status: crew.StatusActive,
			Location: ship.SectionBridge.String(),
		},
		Crew: []*crew.Member{
			member(crew.KindOfficer, crew.RoleFirstOfficer, "First Officer", ship.SectionBridge),
			member(crew.KindOfficer, crew.RoleAndroid, "Android", ship.SectionSciLab),
			member(crew.KindBasic, crew.RoleEngineer, "Engineer", ship.SectionEngineering),
			member(crew.KindBasic, crew.RoleDoctor, "Doctor", ship.SectionMedLab),
			member(crew.KindBasic, crew.RolePilot, "Pilot", ship.SectionDrives),
			member(crew.KindBasic, crew.RoleScientist, "Scientist", ship.SectionSciLab),
		},
		Resources: map[player.ResourceType]int{
			player.ResourceTorpedoes: 2,
			player.ResourceProbes:    2,
		},
		Status: player.StatusActive,
	}

	switch spec.Captain {
	case crew.CaptainExplorer:
		p.ExplorerRepairKit = true
	case crew.CaptainSpacePirate:
		p.PirateUpgradeOptions = []upgrade.ID{upgrade.TacticalBridge, upgrade.LongRangeSensors}
	}
	return p, nil
}

func member(kind crew.Kind, role crew.Role, name string, loc ship.Section) *crew.Member {
	return &crew.Member{
		ID: id.New(), Name: name, Kind: kind, Role: role,
		Status: crew.StatusActive, Location: loc.String(),
	}
}

// seedObjects places the fixed object spread a fresh board starts with.
// IDs are stable so tests and replays can address them.
func seedObjects(b *board.Board) {
	b.Objects = []*board.Object{
		{
			ID: "station-relay", Kind: board.KindStation, Name: "Relay Station",
			Position: board.Position{Ring: 7, Space: 10}, Hull: 12,
			Discoveries: []board.Discovery{
				{Resource: string(player.ResourceRepairKits), Amount: 1},
				{Resource: string(player.ResourceMinerals), Amount: 2},
			},
		},
		{
			ID: "derelict-freighter", Kind: board.KindDerelict, Name: "Drifting Freighter",
			Position: board.Position{Ring: 6, Space: 4}, Hull: 6,
			Discoveries: []board.Discovery{
				{Resource: string(player.ResourceAlloy), Amount: 2},
				{Upgrade: string(upgrade.Coolant)},
			},
		},
		{
			ID: "derelict-probe", Kind: board.KindDerelict, Name: "Dead Probe",
			Position: board.Position{Ring: 5, Space: 11}, Hull: 3,
			Discoveries: []board.Discovery{
				{Upgrade: string(upgrade.LongRangeSensors)},
			},
		},
		{
			ID: "anomaly-echo", Kind: board.KindAnomaly, Name: "Echo Anomaly",
			Position: board.Position{Ring: 4, Space: 6}, Hull: 0,
			Discoveries: []board.Discovery{
				{Upgrade: string(upgrade.TachyonBeam)},
				{Resource: string(player.ResourceMinerals), Amount: 3},
			},
		},
		{
			ID: "hostile-corsair", Kind: board.KindHostile, Name: "Corsair",
			Position: board.Position{Ring: 3, Space: 2}, Hull: 14, Hostile: true,
			Discoveries: []board.Discovery{
				{Resource: string(player.ResourceAlloy), Amount: 3},
				{Upgrade: string(upgrade.HighDensityPlating)},
			},
		},
		{
			ID: "hazard-cloud", Kind: board.KindHazard, Name: "Radiation Cloud",
			Position: board.Position{Ring: 2, Space: 5}, Radioactive: true,
		},
	}
}
