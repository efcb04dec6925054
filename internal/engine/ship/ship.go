package ship

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adriftworks/adrift/internal/engine/board"
	"github.com/adriftworks/adrift/internal/engine/content"
)

// SectionState is the mutable state of one section. Hull 0 disables every
// function of the section until repaired.
type SectionState struct {
	Hull      int   `json:"hull"`
	PowerDice []int `json:"power_dice,omitempty"`
}

// StoredPower is the total power held in the section.
func (s *SectionState) StoredPower() int {
	total := 0
	for _, die := range s.PowerDice {
		total += die
	}
	return total
}

// AddPower deposits up to amount into the section, capped at storageMax.
// It returns how much was actually deposited; the rest vents.
func (s *SectionState) AddPower(amount, storageMax int) int {
	if amount <= 0 {
		return 0
	}
	room := storageMax - s.StoredPower()
	if room <= 0 {
		return 0
	}
	if amount > room {
		amount = room
	}
	remaining := amount
	// Top up partial dice before adding new ones; dice hold at most 6.
	for i := range s.PowerDice {
		if remaining == 0 {
			break
		}
		if s.PowerDice[i] < 6 {
			take := 6 - s.PowerDice[i]
			if take > remaining {
				take = remaining
			}
			s.PowerDice[i] += take
			remaining -= take
		}
	}
	for remaining > 0 {
		die := remaining
		if die > 6 {
			die = 6
		}
		s.PowerDice = append(s.PowerDice, die)
		remaining -= die
	}
	return amount
}

// DrainPower removes up to amount from the section and returns how much was
// actually drained.
func (s *SectionState) DrainPower(amount int) int {
	if amount <= 0 {
		return 0
	}
	drained := 0
	for drained < amount && len(s.PowerDice) > 0 {
		last := len(s.PowerDice) - 1
		take := amount - drained
		if take >= s.PowerDice[last] {
			drained += s.PowerDice[last]
			s.PowerDice = s.PowerDice[:last]
		} else {
			s.PowerDice[last] -= take
			drained += take
		}
	}
	return drained
}

// EdgeKey identifies an undirected edge between two sections. A is always the
// lower-ordered section.
type EdgeKey struct {
	A Section `json:"a"`
	B Section `json:"b"`
}

// Edge returns the normalized key for the pair.
func Edge(a, b Section) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

func (k EdgeKey) String() string {
	return k.A.String() + "|" + k.B.String()
}

// ParseEdgeKey reverses EdgeKey.String.
func ParseEdgeKey(raw string) (EdgeKey, error) {
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 {
		return EdgeKey{}, fmt.Errorf("malformed edge key %q", raw)
	}
	a, err := ParseSection(parts[0])
	if err != nil {
		return EdgeKey{}, err
	}
	b, err := ParseSection(parts[1])
	if err != nil {
		return EdgeKey{}, err
	}
	return Edge(a, b), nil
}

// EdgeState is the mutable state of one blueprint connection. Conduits is the
// intact count, bounded by ConduitMax; Corridor reports whether the blueprint
// has a crew corridor here and CorridorIntact whether it is passable.
type EdgeState struct {
	Conduits       int  `json:"conduits"`
	ConduitMax     int  `json:"conduit_max"`
	Corridor       bool `json:"corridor"`
	CorridorIntact bool `json:"corridor_intact"`
}

// Ship is one player's vessel.
type Ship struct {
	Position         board.Position             `json:"position"`
	Shields          int                        `json:"shields"`
	Speed            int                        `json:"speed"`
	LifeSupportPower int                        `json:"life_support_power"`
	Sections         map[Section]*SectionState  `json:"sections"`
	Edges            map[EdgeKey]*EdgeState     `json:"-"`
	EdgeList         map[string]*EdgeState      `json:"edges"` // keyed by EdgeKey.String for stable JSON
}

// New builds a ship from the blueprint tables, fully intact, with every
// section holding its power requirement and life support charged for the
// standard crew complement.
func New(tables *content.Tables) (*Ship, error) {
	s := &Ship{
		Position: board.Position{Ring: board.OutermostRing, Space: 0},
		Shields:  2,
		Speed:    1,
		Sections: make(map[Section]*SectionState, 6),
		Edges:    make(map[EdgeKey]*EdgeState),
	}
	for _, sec := range AllSections() {
		st, ok := tables.Sections[sec.String()]
		if !ok {
			return nil, fmt.Errorf("tables missing section %q", sec)
		}
		state := &SectionState{Hull: st.HullMax}
		state.AddPower(st.PowerRequirement, st.StorageMax)
		s.Sections[sec] = state
	}
	for _, edge := range tables.Layout {
		a, err := ParseSection(edge.A)
		if err != nil {
			return nil, err
		}
		b, err := ParseSection(edge.B)
		if err != nil {
			return nil, err
		}
		s.Edges[Edge(a, b)] = &EdgeState{
			Conduits:       edge.Conduits,
			ConduitMax:     edge.Conduits,
			Corridor:       edge.Corridor,
			CorridorIntact: edge.Corridor,
		}
	}
	s.syncEdgeList()
	return s, nil
}

// syncEdgeList refreshes the string-keyed edge view used for serialization.
func (s *Ship) syncEdgeList() {
	s.EdgeList = make(map[string]*EdgeState, len(s.Edges))
	for key, state := range s.Edges {
		s.EdgeList[key.String()] = state
	}
}

// RestoreEdges rebuilds the typed edge map from the serialized view. Callers
// deserializing a Ship must invoke it before routing.
func (s *Ship) RestoreEdges() error {
	if len(s.Edges) > 0 {
		return nil
	}
	s.Edges = make(map[EdgeKey]*EdgeState, len(s.EdgeList))
	for raw, state := range s.EdgeList {
		key, err := ParseEdgeKey(raw)
		if err != nil {
			return err
		}
		s.Edges[key] = state
	}
	return nil
}

// EdgeBetween returns the edge state for the pair, or nil when the blueprint
// has no connection there.
func (s *Ship) EdgeBetween(a, b Section) *EdgeState {
	return s.Edges[Edge(a, b)]
}

// SectionState returns the state for a section. Sections are fixed at
// construction, so a nil return indicates a corrupted ship value.
func (s *Ship) SectionState(sec Section) *SectionState {
	return s.Sections[sec]
}

// CanTraverse reports whether crew can move between two sections: the
// blueprint corridor must be intact and the destination must not be
// destroyed.
func (s *Ship) CanTraverse(from, to Section) bool {
	edge := s.EdgeBetween(from, to)
	if edge == nil || !edge.Corridor || !edge.CorridorIntact {
		return false
	}
	dest := s.SectionState(to)
	return dest != nil && dest.Hull > 0
}

// LayoutAdjacent reports whether the blueprint connects the two sections at
// all, regardless of current intact state. Repairs address targets by
// blueprint adjacency.
func (s *Ship) LayoutAdjacent(a, b Section) bool {
	return s.EdgeBetween(a, b) != nil
}

// neighbors returns the sections adjacent to sec in canonical order.
func (s *Ship) neighbors(sec Section) []Section {
	out := make([]Section, 0, 5)
	for _, other := range AllSections() {
		if other == sec {
			continue
		}
		if s.EdgeBetween(sec, other) != nil {
			out = append(out, other)
		}
	}
	return out
}

// Clone returns a deep copy of the ship.
func (s *Ship) Clone() *Ship {
	out := &Ship{
		Position:         s.Position,
		Shields:          s.Shields,
		Speed:            s.Speed,
		LifeSupportPower: s.LifeSupportPower,
		Sections:         make(map[Section]*SectionState, len(s.Sections)),
		Edges:            make(map[EdgeKey]*EdgeState, len(s.Edges)),
	}
	for sec, state := range s.Sections {
		cloned := *state
		cloned.PowerDice = append([]int(nil), state.PowerDice...)
		out.Sections[sec] = &cloned
	}
	for key, state := range s.Edges {
		cloned := *state
		out.Edges[key] = &cloned
	}
	out.syncEdgeList()
	return out
}

// SortedEdgeKeys returns the ship's edge keys in canonical order.
func (s *Ship) SortedEdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(s.Edges))
	for key := range s.Edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}
