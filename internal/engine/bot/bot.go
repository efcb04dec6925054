// Package bot produces fallback actions for players who submitted nothing
// before a turn deadline. The producer is deterministic: the same snapshot
// always yields the same actions, so bot-driven turns replay cleanly.
package bot

import (
	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/turn"
)

// Producer fills in safe actions for idle players.
type Producer struct{}

// Actions returns a minimal keep-alive plan for the player: the best-placed
// active crew member tops up the power grid. A player with nobody able to
// generate power sits the turn out.
func (Producer) Actions(g *turn.GameState, playerID string) []action.Action {
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil
	}

	// Prefer whoever is standing in engineering; the generator rooms only
	// work as a fallback and only for an engineer.
	var performer *crew.Member
	for _, m := range p.Roster() {
		if !m.Active() {
			continue
		}
		sec, err := ship.ParseSection(m.Location)
		if err != nil {
			continue
		}
		if sec == ship.SectionEngineering {
			performer = m
			break
		}
		if performer == nil && m.Role == crew.RoleEngineer {
			switch sec {
			case ship.SectionBridge, ship.SectionSciLab, ship.SectionDefense:
				performer = m
			}
		}
	}
	if performer == nil {
		return nil
	}
	return []action.Action{action.Restore{
		Base: action.Base{PlayerID: p.ID, CrewID: performer.ID},
	}}
}
