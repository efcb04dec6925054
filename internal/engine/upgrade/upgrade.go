// Package upgrade models the upgrade cards ships can discover, integrate, and
// power. The catalog comes from the content tables; this package adds the
// typed IDs the engine dispatches effects on.
package upgrade

import (
	"fmt"

	"github.com/adriftworks/adrift/internal/engine/content"
	"github.com/adriftworks/adrift/internal/engine/ship"
)

// ID identifies an upgrade card.
type ID string

const (
	BioFilters         ID = "bio_filters"
	BioEngine          ID = "bio_engine"
	Coolant            ID = "coolant"
	NanoBots           ID = "nano_bots"
	RepairDroids       ID = "repair_droids"
	DroidStation       ID = "droid_station"
	TacticalBridge     ID = "tactical_bridge"
	TachyonBeam        ID = "tachyon_beam"
	HighDensityPlating ID = "high_density_plating"
	LongRangeSensors   ID = "long_range_sensors"
)

// Card is a catalog entry.
type Card struct {
	ID            ID           `json:"id"`
	Name          string       `json:"name"`
	Host          ship.Section `json:"host"`
	AnySection    bool         `json:"any_section"`
	PowerRequired int          `json:"power_required"`
}

// Installed is an upgrade mounted on a ship, with its own power store.
type Installed struct {
	Card        Card `json:"card"`
	StoredPower int  `json:"stored_power"`
}

// Clone returns a copy of the installed upgrade.
func (i *Installed) Clone() *Installed {
	out := *i
	return &out
}

// Catalog resolves cards by ID from the content tables.
type Catalog map[ID]Card

// LoadCatalog builds the typed catalog from the content tables.
func LoadCatalog(tables *content.Tables) (Catalog, error) {
	catalog := make(Catalog, len(tables.Upgrades))
	for _, entry := range tables.Upgrades {
		card := Card{
			ID:            ID(entry.ID),
			Name:          entry.Name,
			PowerRequired: entry.PowerRequired,
		}
		if entry.Host == "any" {
			card.AnySection = true
		} else {
			host, err := ship.ParseSection(entry.Host)
			if err != nil {
				return nil, fmt.Errorf("upgrade %s: %w", entry.ID, err)
			}
			card.Host = host
		}
		catalog[card.ID] = card
	}
	return catalog, nil
}

// Card returns the catalog entry for id.
func (c Catalog) Card(id ID) (Card, bool) {
	card, ok := c[id]
	return card, ok
}
