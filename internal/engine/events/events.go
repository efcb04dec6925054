// Package events implements the event-phase table. The built-in table is a
// pure function of the turn number, so a replayed game surfaces the same
// events in the same order.
package events

import (
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/turn"
)

// event is one scripted entry: a name, flavor text, and a state transform.
type event struct {
	name        string
	description string
	apply       func(g *turn.GameState)
}

// Scripted cycles through a fixed event list by turn number.
type Scripted struct {
	events []event
}

// NewScripted returns the built-in event table.
func NewScripted() *Scripted {
	return &Scripted{events: []event{
		{
			name:        "calm_drift",
			description: "The rings drift quietly. Nothing demands attention.",
			apply:       func(*turn.GameState) {},
		},
		{
			name:        "solar_flare",
			description: "A solar flare washes over the field, burning a point of shields off every ship.",
			apply: func(g *turn.GameState) {
				for _, p := range g.Players {
					if p.Status == player.StatusActive && p.Ship.Shields > 0 {
						p.Ship.Shields--
					}
				}
			},
		},
		{
			name:        "radiation_surge",
			description: "Radiation surges through the inner rings; life support strains to compensate.",
			apply: func(g *turn.GameState) {
				for _, p := range g.Players {
					if p.Status != player.StatusActive {
						continue
					}
					if board.ZoneColor(p.Ship.Position.Ring) == board.ZoneGreen {
						continue
					}
					p.Ship.LifeSupportPower--
					if p.Ship.LifeSupportPower < 0 {
						p.Ship.LifeSupportPower = 0
					}
				}
			},
		},
		{
			name:        "supply_cache",
			description: "A supply cache beacon pings: a crate of minerals drifts within reach of every crew.",
			apply: func(g *turn.GameState) {
				for _, p := range g.Players {
					if p.Status == player.StatusActive {
						p.AddResource(player.ResourceMinerals, 1)
					}
				}
			},
		},
		{
			name:        "power_fluctuation",
			description: "A grid fluctuation bleeds a point of power from every engineering core.",
			apply: func(g *turn.GameState) {
				for _, p := range g.Players {
					if p.Status != player.StatusActive {
						continue
					}
					if eng := p.Ship.SectionState(ship.SectionEngineering); eng != nil {
						eng.DrainPower(1)
					}
				}
			},
		},
		{
			name:        "hazard_drift",
			description: "The radiation cloud slips one ring outward, chasing the fleeing ships.",
			apply: func(g *turn.GameState) {
				for _, obj := range g.Board.Objects {
					if obj.Kind != board.KindHazard {
						continue
					}
					if obj.Position.Ring < board.OutermostRing {
						obj.Position.Ring++
						obj.Position = g.Board.Normalize(obj.Position)
					}
				}
			},
		},
	}}
}

// Resolve applies the turn's scripted event and records it. The first turn
// is always calm so players can find their footing.
func (s *Scripted) Resolve(g *turn.GameState) *turn.EventRecord {
	e := s.events[(g.CurrentTurn-1)%len(s.events)]
	e.apply(g)
	return &turn.EventRecord{
		Name:        e.name,
		Description: e.description,
		Turn:        g.CurrentTurn,
	}
}

var _ turn.Table = (*Scripted)(nil)
