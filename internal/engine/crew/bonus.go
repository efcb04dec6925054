package crew

// Bonus tables. Every lookup is a total function over the closed role and
// captain-type enums: unknown values fall through to zero, never to a panic.

// RestoreBonus is the extra power a role generates with a restore action.
func RestoreBonus(r Role) int {
	if r == RoleEngineer {
		return 2
	}
	return 0
}

// AccelBonus is the extra acceleration a role grants to a maneuver.
func AccelBonus(r Role) int {
	if r == RolePilot {
		return 1
	}
	return 0
}

// RangeBonus is the extra scan/acquire range a role grants.
func RangeBonus(r Role) int {
	if r == RoleScientist {
		return 1
	}
	return 0
}

// DamageBonus is the extra attack damage a role grants.
func DamageBonus(r Role) int {
	if r == RoleSoldier {
		return 1
	}
	return 0
}

// ReviveBonus is the extra revive progress a performer's role contributes on
// top of the roll.
func ReviveBonus(r Role) int {
	switch r {
	case RoleDoctor:
		return 2
	case RoleMedic:
		return 1
	default:
		return 0
	}
}

// ReviveRoll is the deterministic revive roll for a performer. Medical
// training and command rank roll high; everyone else rolls low.
func ReviveRoll(m *Member) int {
	if m.Kind == KindCaptain {
		return 6
	}
	switch m.Role {
	case RoleDoctor, RoleMedic, RoleFirstOfficer:
		return 6
	default:
		return 3
	}
}

// AssembleRoll is the deterministic assembly roll for a role building an item.
func AssembleRoll(r Role, item ItemType) int {
	switch {
	case r == RoleEngineer && item == ItemTorpedo:
		return 4
	case r == RoleScientist && item == ItemProbe:
		return 4
	default:
		return 2
	}
}

// AssembleBonus is the extra assembly progress a role contributes for an item.
func AssembleBonus(r Role, item ItemType) int {
	switch {
	case r == RoleEngineer && item == ItemTorpedo:
		return 2
	case r == RoleScientist && item == ItemProbe:
		return 2
	default:
		return 0
	}
}

// CaptainAccelBonus is the maneuver bonus a captain type grants their ship.
func CaptainAccelBonus(c CaptainType) int {
	if c == CaptainNavigator {
		return 1
	}
	return 0
}

// CaptainDamageBonus is the attack bonus a captain type grants their ship.
func CaptainDamageBonus(c CaptainType) int {
	if c == CaptainCommander {
		return 1
	}
	return 0
}

// CaptainLifeSupportBonus is the flat life-support power a captain type adds.
func CaptainLifeSupportBonus(c CaptainType) int {
	if c == CaptainExplorer {
		return 5
	}
	return 0
}
