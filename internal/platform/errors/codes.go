// Package errors provides structured, machine-readable error handling for the
// engine and its service layers.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Action validation errors
	CodeActionPlayerRequired  Code = "ACTION_PLAYER_REQUIRED"
	CodeActionCrewRequired    Code = "ACTION_CREW_REQUIRED"
	CodeActionTargetRequired  Code = "ACTION_TARGET_REQUIRED"
	CodeActionAmountInvalid   Code = "ACTION_AMOUNT_INVALID"
	CodeActionTypeUnsupported Code = "ACTION_TYPE_UNSUPPORTED"

	// Restore / route errors
	CodeRestoreSectionDisallowed Code = "RESTORE_SECTION_DISALLOWED"
	CodeRestoreBudgetExceeded    Code = "RESTORE_BUDGET_EXCEEDED"
	CodeRouteSectionsIdentical   Code = "ROUTE_SECTIONS_IDENTICAL"
	CodeRouteDisconnected        Code = "ROUTE_DISCONNECTED"
	CodeRouteSourceEmpty         Code = "ROUTE_SOURCE_EMPTY"

	// Crew state errors
	CodeCrewNotActive      Code = "CREW_NOT_ACTIVE"
	CodeCrewNotUnconscious Code = "CREW_NOT_UNCONSCIOUS"
	CodeCrewNotLocated     Code = "CREW_NOT_LOCATED"

	// Revive errors
	CodeReviveCapacityExceeded Code = "REVIVE_CAPACITY_EXCEEDED"

	// Repair errors
	CodeRepairAlreadyIntact Code = "REPAIR_ALREADY_INTACT"

	// Section errors
	CodeSectionDestroyed   Code = "SECTION_DESTROYED"
	CodeSectionNotAdjacent Code = "SECTION_NOT_ADJACENT"

	// Maneuver errors
	CodeManeuverAlreadyUsed    Code = "MANEUVER_ALREADY_USED"
	CodeManeuverOutOfRange     Code = "MANEUVER_OUT_OF_RANGE"
	CodeManeuverSpeedTooLow    Code = "MANEUVER_SPEED_TOO_LOW"
	CodeManeuverPowerExceeded  Code = "MANEUVER_POWER_EXCEEDED"
	CodeManeuverBadDirection   Code = "MANEUVER_BAD_DIRECTION"

	// Scan / acquire / attack / launch errors
	CodeTargetNotFound     Code = "TARGET_NOT_FOUND"
	CodeTargetOutOfRange   Code = "TARGET_OUT_OF_RANGE"
	CodeAttackNotEquipped  Code = "ATTACK_NOT_EQUIPPED"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeDiscoveryExhausted Code = "DISCOVERY_EXHAUSTED"

	// Integrate errors
	CodeUpgradeNotPending  Code = "UPGRADE_NOT_PENDING"
	CodeUpgradeWrongLocale Code = "UPGRADE_WRONG_SECTION"

	// Fatal engine errors
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	CodeCrewNotFound   Code = "CREW_NOT_FOUND"
	CodeWrongPhase     Code = "WRONG_PHASE"
	CodeGameNotRunning Code = "GAME_NOT_RUNNING"

	// Storage errors
	CodeNotFound     Code = "NOT_FOUND"
	CodeCorruptState Code = "CORRUPT_STATE"
)

// Fatal reports whether the code aborts a whole turn computation rather than
// rejecting a single action.
func (c Code) Fatal() bool {
	switch c {
	case CodePlayerNotFound, CodeCrewNotFound, CodeWrongPhase, CodeGameNotRunning:
		return true
	}
	return false
}
