// Package content holds the static balance tables the engine is tuned by:
// per-section requirements and caps, the ship connection layout, ring
// geometry, hazard constants, crafting thresholds, and the upgrade catalog.
//
// Tables are embedded so every process computes turns from the same numbers.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// SectionTable holds the static numbers for one ship section.
type SectionTable struct {
	PowerRequirement int `yaml:"power_requirement"`
	HullMax          int `yaml:"hull_max"`
	StorageMax       int `yaml:"storage_max"`
}

// LayoutEdge describes one connection between two sections in the hull
// blueprint. Conduits is both the initial and the maximum intact count.
type LayoutEdge struct {
	A        string `yaml:"a"`
	B        string `yaml:"b"`
	Conduits int    `yaml:"conduits"`
	Corridor bool   `yaml:"corridor"`
}

// RingTable describes one board ring.
type RingTable struct {
	Spaces           int `yaml:"spaces"`
	SpeedRequirement int `yaml:"speed_requirement"`
	RotationStep     int `yaml:"rotation_step"`
}

// HazardTable holds environment damage constants.
type HazardTable struct {
	ZoneDamage               map[string]int `yaml:"zone_damage"`
	LifeSupportLoss          int            `yaml:"life_support_loss"`
	RadiationRange           int            `yaml:"radiation_range"`
	RadiationHullDamage      int            `yaml:"radiation_hull_damage"`
	RadiationLifeSupportLoss int            `yaml:"radiation_life_support_loss"`
}

// ThresholdTable holds progress thresholds for revive and assembly.
type ThresholdTable struct {
	Revive   int            `yaml:"revive"`
	Assemble map[string]int `yaml:"assemble"`
}

// CombatTable holds the fixed combat numbers.
type CombatTable struct {
	AttackDice       []int `yaml:"attack_dice"`
	AttackRange      int   `yaml:"attack_range"`
	SectionFullBonus int   `yaml:"section_full_bonus"`
	ScannedBonus     int   `yaml:"scanned_bonus"`
	TorpedoDamage    int   `yaml:"torpedo_damage"`
	TorpedoRange     int   `yaml:"torpedo_range"`
}

// PowerTable holds conduit and life-support conversion constants.
type PowerTable struct {
	MaxPerConduit int `yaml:"max_per_conduit"`
	PerCrew       int `yaml:"per_crew"`
}

// UpgradeTable describes one upgrade card in the catalog.
type UpgradeTable struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Host          string `yaml:"host"`
	PowerRequired int    `yaml:"power_required"`
}

// Tables is the full static balance table set.
type Tables struct {
	Power      PowerTable              `yaml:"power"`
	Sections   map[string]SectionTable `yaml:"sections"`
	Layout     []LayoutEdge            `yaml:"layout"`
	Rings      []RingTable             `yaml:"rings"`
	Hazard     HazardTable             `yaml:"hazard"`
	Thresholds ThresholdTable          `yaml:"thresholds"`
	Combat     CombatTable             `yaml:"combat"`
	Upgrades   []UpgradeTable          `yaml:"upgrades"`
}

// AttackDiceTotal is the fixed total of the attack dice.
func (t *Tables) AttackDiceTotal() int {
	total := 0
	for _, d := range t.Combat.AttackDice {
		total += d
	}
	return total
}

// Parse decodes a table set from YAML and validates structural invariants.
func Parse(raw []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) validate() error {
	if t.Power.MaxPerConduit <= 0 {
		return fmt.Errorf("power.max_per_conduit must be positive")
	}
	if t.Power.PerCrew <= 0 {
		return fmt.Errorf("power.per_crew must be positive")
	}
	if len(t.Sections) != 6 {
		return fmt.Errorf("expected 6 sections, got %d", len(t.Sections))
	}
	if len(t.Rings) != 8 {
		return fmt.Errorf("expected 8 rings, got %d", len(t.Rings))
	}
	for i, ring := range t.Rings {
		if ring.Spaces <= 0 {
			return fmt.Errorf("ring %d must have positive spaces", i+1)
		}
		if ring.SpeedRequirement < 0 {
			return fmt.Errorf("ring %d speed requirement must be non-negative", i+1)
		}
	}
	for _, edge := range t.Layout {
		if _, ok := t.Sections[edge.A]; !ok {
			return fmt.Errorf("layout references unknown section %q", edge.A)
		}
		if _, ok := t.Sections[edge.B]; !ok {
			return fmt.Errorf("layout references unknown section %q", edge.B)
		}
		if edge.A == edge.B {
			return fmt.Errorf("layout edge connects %q to itself", edge.A)
		}
		if edge.Conduits < 0 {
			return fmt.Errorf("layout edge %s-%s has negative conduits", edge.A, edge.B)
		}
	}
	if t.Thresholds.Revive <= 0 {
		return fmt.Errorf("thresholds.revive must be positive")
	}
	for _, u := range t.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("upgrade with empty id")
		}
		if u.Host != "any" {
			if _, ok := t.Sections[u.Host]; !ok {
				return fmt.Errorf("upgrade %q references unknown section %q", u.ID, u.Host)
			}
		}
	}
	return nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the embedded table set. It panics if the embedded tables
// are malformed, which is a build defect rather than a runtime condition.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Parse(tablesYAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultTables
}
