// Package power implements the ship power model: when a section counts as
// fully powered, how the life-support pool converts to crew capacity, and how
// installed upgrades gate on power.
package power

import (
	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/player"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
)

// IsFullyPowered reports whether a section is operating at full capability:
// intact, connected to the conduit grid by at least one live edge, and
// holding at least its static power requirement.
func IsFullyPowered(s *ship.Ship, sec ship.Section, tables *content.Tables) bool {
	state := s.SectionState(sec)
	if state == nil || state.Hull <= 0 {
		return false
	}
	connected := false
	for _, other := range ship.AllSections() {
		if other == sec {
			continue
		}
		if edge := s.EdgeBetween(sec, other); edge != nil && edge.Conduits > 0 {
			connected = true
			break
		}
	}
	if !connected {
		return false
	}
	return state.StoredPower() >= tables.Sections[sec.String()].PowerRequirement
}

// UpgradePowered reports whether an installed upgrade is live: its host
// section fully powered and its own charge at or above its requirement.
// Upgrades with no power requirement are always live while their host stands.
func UpgradePowered(p *player.State, inst *upgrade.Installed, tables *content.Tables) bool {
	if inst == nil {
		return false
	}
	host := inst.Card.Host
	if inst.Card.AnySection {
		// Section-agnostic upgrades are hull-mounted; they only need the ship
		// to exist. Treat them as hosted by engineering for the power check
		// when they draw power.
		if inst.Card.PowerRequired == 0 {
			return true
		}
		host = ship.SectionEngineering
	}
	if !IsFullyPowered(p.Ship, host, tables) {
		return false
	}
	return inst.StoredPower >= inst.Card.PowerRequired
}

// InstalledPowered reports whether the player has the upgrade installed and
// powered.
func InstalledPowered(p *player.State, id upgrade.ID, tables *content.Tables) bool {
	return UpgradePowered(p, p.InstalledByID(id), tables)
}

// Contributions breaks down the life-support power pool by source.
type Contributions struct {
	Ship       int `json:"ship"`
	Explorer   int `json:"explorer"`
	BioFilters int `json:"bio_filters"`
	BioEngine  int `json:"bio_engine"`
}

// Total is the combined life-support power.
func (c Contributions) Total() int {
	return c.Ship + c.Explorer + c.BioFilters + c.BioEngine
}

// LifeSupportContributions itemizes the player's life-support pool: the
// ship's own store, the explorer captain's bonus, and powered bio upgrades.
func LifeSupportContributions(p *player.State, tables *content.Tables) Contributions {
	c := Contributions{Ship: p.Ship.LifeSupportPower}
	if p.Captain != nil && p.Captain.CaptainType == crew.CaptainExplorer {
		c.Explorer = crew.CaptainLifeSupportBonus(crew.CaptainExplorer)
	}
	if InstalledPowered(p, upgrade.BioFilters, tables) {
		c.BioFilters = 3
	}
	if InstalledPowered(p, upgrade.BioEngine, tables) {
		c.BioEngine = 1
	}
	return c
}

// Capacity is how many crew the life-support pool sustains.
func Capacity(p *player.State, tables *content.Tables) int {
	return LifeSupportContributions(p, tables).Total() / tables.Power.PerCrew
}

// Load counts the active crew drawing on life support, captain included.
// Android officers are exempt.
func Load(p *player.State) int {
	load := 0
	for _, m := range p.Roster() {
		if m.NeedsLifeSupport() {
			load++
		}
	}
	return load
}

// ProjectedLoad is Load plus the given revive targets whose post-revive state
// would draw on life support. Planning a revive that pushes the projection
// over capacity must be rejected, not silently overfilled.
func ProjectedLoad(p *player.State, reviveTargets []string) int {
	load := Load(p)
	for _, id := range reviveTargets {
		m := p.CrewByID(id)
		if m == nil || m.Status != crew.StatusUnconscious {
			continue
		}
		if !(m.Kind == crew.KindOfficer && m.Role == crew.RoleAndroid) {
			load++
		}
	}
	return load
}
