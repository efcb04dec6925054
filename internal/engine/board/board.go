// Package board models the circular play field: eight concentric rings that
// rotate independently, the position system on them, and the space objects
// ships scan, salvage, and fight.
package board

import (
	"github.com/adriftworks/adrift/internal/engine/content"
)

// InnermostRing and OutermostRing bound valid ring indexes. Ring 1 is the
// innermost and most hazardous.
const (
	InnermostRing = 1
	OutermostRing = 8
)

// Position is a location on the board.
type Position struct {
	Ring  int `json:"ring"`  // 1..8
	Space int `json:"space"` // 0..spaces-1
}

// Ring is one rotating circle of spaces.
type Ring struct {
	Spaces           int `json:"spaces"`
	Rotation         int `json:"rotation"`
	SpeedRequirement int `json:"speed_requirement"`
	RotationStep     int `json:"rotation_step"`
}

// Zone is the hazard severity band of a ring.
type Zone string

const (
	ZoneRed    Zone = "red"
	ZoneOrange Zone = "orange"
	ZoneYellow Zone = "yellow"
	ZoneGreen  Zone = "green"
)

// ObjectKind categorizes a space object.
type ObjectKind string

const (
	KindDerelict ObjectKind = "derelict"
	KindStation  ObjectKind = "station"
	KindHostile  ObjectKind = "hostile"
	KindHazard   ObjectKind = "hazard"
	KindAnomaly  ObjectKind = "anomaly"
)

// Discovery is one finding a scan or probe can reveal at an object.
type Discovery struct {
	Resource string `json:"resource,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Upgrade  string `json:"upgrade,omitempty"`
}

// Object is something on the board other than a player ship.
type Object struct {
	ID          string      `json:"id"`
	Kind        ObjectKind  `json:"kind"`
	Name        string      `json:"name"`
	Position    Position    `json:"position"`
	Hull        int         `json:"hull"`
	Hostile     bool        `json:"hostile"`
	Radioactive bool        `json:"radioactive"`
	Discoveries []Discovery `json:"discoveries,omitempty"`
	Acquired    map[int]bool `json:"acquired,omitempty"` // discovery index -> consumed
}

// Board is the full play field.
type Board struct {
	Rings             []Ring    `json:"rings"` // index 0 = ring 1
	Objects           []*Object `json:"objects"`
	RotationDirection int       `json:"rotation_direction"` // +1 or -1
}

// New builds a board from the ring geometry tables. Objects are seeded by the
// game constructor, not here.
func New(tables *content.Tables) *Board {
	rings := make([]Ring, len(tables.Rings))
	for i, rt := range tables.Rings {
		rings[i] = Ring{
			Spaces:           rt.Spaces,
			SpeedRequirement: rt.SpeedRequirement,
			RotationStep:     rt.RotationStep,
		}
	}
	return &Board{
		Rings:             rings,
		RotationDirection: 1,
	}
}

// Ring returns the ring with the given 1-based index, or nil when out of
// range.
func (b *Board) Ring(index int) *Ring {
	if index < InnermostRing || index > len(b.Rings) {
		return nil
	}
	return &b.Rings[index-1]
}

// ObjectByID returns the object with the given id, or nil.
func (b *Board) ObjectByID(id string) *Object {
	for _, obj := range b.Objects {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

// RemoveObject deletes the object with the given id. It reports whether an
// object was removed.
func (b *Board) RemoveObject(id string) bool {
	for i, obj := range b.Objects {
		if obj.ID == id {
			b.Objects = append(b.Objects[:i], b.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// ZoneColor maps a ring index to its hazard band. The mapping is monotonic:
// lower rings are never safer than higher ones.
func ZoneColor(ring int) Zone {
	switch {
	case ring <= 2:
		return ZoneRed
	case ring <= 4:
		return ZoneOrange
	case ring <= 6:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}

// Normalize wraps a position's space index into the ring's valid range.
func (b *Board) Normalize(p Position) Position {
	ring := b.Ring(p.Ring)
	if ring == nil {
		return p
	}
	p.Space = wrap(p.Space, ring.Spaces)
	return p
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{
		Rings:             append([]Ring(nil), b.Rings...),
		RotationDirection: b.RotationDirection,
	}
	out.Objects = make([]*Object, len(b.Objects))
	for i, obj := range b.Objects {
		cloned := *obj
		cloned.Discoveries = append([]Discovery(nil), obj.Discoveries...)
		if obj.Acquired != nil {
			cloned.Acquired = make(map[int]bool, len(obj.Acquired))
			for k, v := range obj.Acquired {
				cloned.Acquired[k] = v
			}
		}
		out.Objects[i] = &cloned
	}
	return out
}

func wrap(value, modulus int) int {
	if modulus <= 0 {
		return 0
	}
	value %= modulus
	if value < 0 {
		value += modulus
	}
	return value
}
