// Package ship models a player ship: its six sections, the undirected conduit
// and corridor graphs connecting them, stored power, and routing over the
// conduit graph.
package ship

import "fmt"

// Section is one of the six ship compartments. The declaration order is the
// canonical traversal order: path searches and damage application iterate
// sections in this order so outcomes are reproducible.
type Section int

const (
	SectionMedLab Section = iota
	SectionBridge
	SectionSciLab
	SectionDrives
	SectionEngineering
	SectionDefense
)

// AllSections lists every section in canonical order.
func AllSections() []Section {
	return []Section{
		SectionMedLab,
		SectionBridge,
		SectionSciLab,
		SectionDrives,
		SectionEngineering,
		SectionDefense,
	}
}

func (s Section) String() string {
	switch s {
	case SectionMedLab:
		return "med_lab"
	case SectionBridge:
		return "bridge"
	case SectionSciLab:
		return "sci_lab"
	case SectionDrives:
		return "drives"
	case SectionEngineering:
		return "engineering"
	case SectionDefense:
		return "defense"
	default:
		return "unknown"
	}
}

// ParseSection maps a section name to its enum value.
func ParseSection(name string) (Section, error) {
	for _, s := range AllSections() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown section %q", name)
}

// MarshalText encodes the section as its name for JSON map keys and fields.
func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a section from its name.
func (s *Section) UnmarshalText(text []byte) error {
	parsed, err := ParseSection(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
