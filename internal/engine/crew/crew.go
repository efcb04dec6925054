// Package crew models the people aboard a ship: the captain, officers, and
// basic crew, together with the total bonus tables their roles grant.
package crew

// Kind discriminates the crew variants.
type Kind int

const (
	KindBasic Kind = iota
	KindOfficer
	KindCaptain
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindOfficer:
		return "officer"
	case KindCaptain:
		return "captain"
	default:
		return "unknown"
	}
}

// Role is the duty a basic crew member or officer is trained for.
type Role int

const (
	RoleNone Role = iota
	RoleEngineer
	RoleDoctor
	RoleMedic
	RoleScientist
	RolePilot
	RoleSoldier
	RoleFirstOfficer
	RoleAndroid
)

func (r Role) String() string {
	switch r {
	case RoleEngineer:
		return "engineer"
	case RoleDoctor:
		return "doctor"
	case RoleMedic:
		return "medic"
	case RoleScientist:
		return "scientist"
	case RolePilot:
		return "pilot"
	case RoleSoldier:
		return "soldier"
	case RoleFirstOfficer:
		return "first_officer"
	case RoleAndroid:
		return "android"
	default:
		return "none"
	}
}

// CaptainType selects the captain's permanent perk.
type CaptainType int

const (
	CaptainNone CaptainType = iota
	CaptainExplorer
	CaptainSpacePirate
	CaptainCommander
	CaptainNavigator
)

func (c CaptainType) String() string {
	switch c {
	case CaptainExplorer:
		return "explorer"
	case CaptainSpacePirate:
		return "space_pirate"
	case CaptainCommander:
		return "commander"
	case CaptainNavigator:
		return "navigator"
	default:
		return "none"
	}
}

// Status is a crew member's condition.
type Status int

const (
	StatusActive Status = iota
	StatusUnconscious
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusUnconscious:
		return "unconscious"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// ItemType is something crew can assemble from ship resources.
type ItemType string

const (
	ItemTorpedo ItemType = "torpedo"
	ItemProbe   ItemType = "probe"
)

// Member is one crew member. Kind discriminates which optional fields apply:
// CaptainType is set only for captains, Role for officers and basic crew, and
// StimPacksUsed is tracked for officers only.
type Member struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Kind             Kind             `json:"kind"`
	Role             Role             `json:"role,omitempty"`
	CaptainType      CaptainType      `json:"captain_type,omitempty"`
	Status           Status           `json:"status"`
	Location         string           `json:"location,omitempty"` // section name; empty when off-ship
	ReviveProgress   int              `json:"revive_progress,omitempty"`
	AssembleProgress map[ItemType]int `json:"assemble_progress,omitempty"`
	StimPacksUsed    int              `json:"stim_packs_used,omitempty"`
}

// Active reports whether the member can act this turn.
func (m *Member) Active() bool {
	return m.Status == StatusActive
}

// NeedsLifeSupport reports whether the member draws on the life-support pool
// while active. Android officers run on ship power directly.
func (m *Member) NeedsLifeSupport() bool {
	if m.Status != StatusActive {
		return false
	}
	return !(m.Kind == KindOfficer && m.Role == RoleAndroid)
}

// Clone returns a deep copy of the member.
func (m *Member) Clone() *Member {
	out := *m
	if m.AssembleProgress != nil {
		out.AssembleProgress = make(map[ItemType]int, len(m.AssembleProgress))
		for k, v := range m.AssembleProgress {
			out.AssembleProgress[k] = v
		}
	}
	return &out
}
