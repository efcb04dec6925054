// Package player holds the per-player game state: the ship, the crew roster,
// resources, upgrades, and scan knowledge.
package player

import (
	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
)

// ResourceType names a stockpiled resource.
type ResourceType string

const (
	ResourceMinerals   ResourceType = "minerals"
	ResourceAlloy      ResourceType = "alloy"
	ResourceTorpedoes  ResourceType = "torpedoes"
	ResourceProbes     ResourceType = "probes"
	ResourceRepairKits ResourceType = "repair_kits"
)

// Status is a player's standing in the game.
type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
)

// State is one player's full game state.
type State struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Ship      *ship.Ship           `json:"ship"`
	Captain   *crew.Member         `json:"captain"`
	Crew      []*crew.Member       `json:"crew"`
	Resources map[ResourceType]int `json:"resources"`

	Installed []*upgrade.Installed `json:"installed,omitempty"`
	Pending   []upgrade.ID         `json:"pending,omitempty"`

	ScanDiscoveries map[string][]board.Discovery `json:"scan_discoveries,omitempty"`
	ProbeScanLogs   map[string][]board.Discovery `json:"probe_scan_logs,omitempty"`
	ScannedHostiles map[string]int               `json:"scanned_hostiles,omitempty"` // object id -> turn scanned

	ExplorerRepairKit    bool         `json:"explorer_repair_kit,omitempty"`
	PirateUpgradeOptions []upgrade.ID `json:"pirate_upgrade_options,omitempty"`

	Status Status `json:"status"`
}

// CrewByID finds a crew member, including the captain, by id.
func (p *State) CrewByID(id string) *crew.Member {
	if p.Captain != nil && p.Captain.ID == id {
		return p.Captain
	}
	for _, m := range p.Crew {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Roster returns the captain followed by the crew in roster order.
func (p *State) Roster() []*crew.Member {
	out := make([]*crew.Member, 0, len(p.Crew)+1)
	if p.Captain != nil {
		out = append(out, p.Captain)
	}
	out = append(out, p.Crew...)
	return out
}

// InstalledByID returns the installed upgrade with the given id, or nil.
func (p *State) InstalledByID(id upgrade.ID) *upgrade.Installed {
	for _, inst := range p.Installed {
		if inst.Card.ID == id {
			return inst
		}
	}
	return nil
}

// HasInstalled reports whether the upgrade is installed.
func (p *State) HasInstalled(id upgrade.ID) bool {
	return p.InstalledByID(id) != nil
}

// PendingIndex returns the position of id in the pending list, or -1.
func (p *State) PendingIndex(id upgrade.ID) int {
	for i, pending := range p.Pending {
		if pending == id {
			return i
		}
	}
	return -1
}

// AddResource credits amount of a resource, clamping at zero.
func (p *State) AddResource(kind ResourceType, amount int) {
	if p.Resources == nil {
		p.Resources = make(map[ResourceType]int)
	}
	total := p.Resources[kind] + amount
	if total < 0 {
		total = 0
	}
	p.Resources[kind] = total
}

// SpendResource debits one unit and reports whether the player had it.
func (p *State) SpendResource(kind ResourceType) bool {
	if p.Resources[kind] <= 0 {
		return false
	}
	p.Resources[kind]--
	return true
}

// RecordScan stores a discovery revealed at an object.
func (p *State) RecordScan(objectID string, d board.Discovery) {
	if p.ScanDiscoveries == nil {
		p.ScanDiscoveries = make(map[string][]board.Discovery)
	}
	p.ScanDiscoveries[objectID] = append(p.ScanDiscoveries[objectID], d)
}

// RecordProbeScan stores a probe finding at an object.
func (p *State) RecordProbeScan(objectID string, d board.Discovery) {
	if p.ProbeScanLogs == nil {
		p.ProbeScanLogs = make(map[string][]board.Discovery)
	}
	p.ProbeScanLogs[objectID] = append(p.ProbeScanLogs[objectID], d)
}

// MarkHostileScanned remembers the turn a hostile was scanned on.
func (p *State) MarkHostileScanned(objectID string, turn int) {
	if p.ScannedHostiles == nil {
		p.ScannedHostiles = make(map[string]int)
	}
	p.ScannedHostiles[objectID] = turn
}

// HasScannedHostile reports whether the player has scan data on the object.
func (p *State) HasScannedHostile(objectID string) bool {
	_, ok := p.ScannedHostiles[objectID]
	return ok
}

// Clone returns a deep copy of the player state.
func (p *State) Clone() *State {
	out := &State{
		ID:                p.ID,
		Name:              p.Name,
		Status:            p.Status,
		ExplorerRepairKit: p.ExplorerRepairKit,
	}
	if p.Ship != nil {
		out.Ship = p.Ship.Clone()
	}
	if p.Captain != nil {
		out.Captain = p.Captain.Clone()
	}
	out.Crew = make([]*crew.Member, len(p.Crew))
	for i, m := range p.Crew {
		out.Crew[i] = m.Clone()
	}
	if p.Resources != nil {
		out.Resources = make(map[ResourceType]int, len(p.Resources))
		for k, v := range p.Resources {
			out.Resources[k] = v
		}
	}
	for _, inst := range p.Installed {
		out.Installed = append(out.Installed, inst.Clone())
	}
	out.Pending = append([]upgrade.ID(nil), p.Pending...)
	out.PirateUpgradeOptions = append([]upgrade.ID(nil), p.PirateUpgradeOptions...)
	if p.ScanDiscoveries != nil {
		out.ScanDiscoveries = make(map[string][]board.Discovery, len(p.ScanDiscoveries))
		for k, v := range p.ScanDiscoveries {
			out.ScanDiscoveries[k] = append([]board.Discovery(nil), v...)
		}
	}
	if p.ProbeScanLogs != nil {
		out.ProbeScanLogs = make(map[string][]board.Discovery, len(p.ProbeScanLogs))
		for k, v := range p.ProbeScanLogs {
			out.ProbeScanLogs[k] = append([]board.Discovery(nil), v...)
		}
	}
	if p.ScannedHostiles != nil {
		out.ScannedHostiles = make(map[string]int, len(p.ScannedHostiles))
		for k, v := range p.ScannedHostiles {
			out.ScannedHostiles[k] = v
		}
	}
	return out
}
