// Package action defines the typed player actions the engine resolves. Each
// action kind is its own variant carrying only the fields it needs; structural
// validation happens by construction here, before any resolver runs.
package action

import (
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/ship"
	"github.com/adriftworks/adrift/internal/engine/upgrade"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// Type names an action kind.
type Type string

const (
	TypeRestore   Type = "restore"
	TypeRoute     Type = "route"
	TypeRepair    Type = "repair"
	TypeRevive    Type = "revive"
	TypeManeuver  Type = "maneuver"
	TypeScan      Type = "scan"
	TypeAcquire   Type = "acquire"
	TypeAttack    Type = "attack"
	TypeLaunch    Type = "launch"
	TypeAssemble  Type = "assemble"
	TypeIntegrate Type = "integrate"
)

// Slot disambiguates a crew member's primary action from a bonus action.
type Slot string

const (
	SlotPrimary Slot = "primary"
	SlotBonus   Slot = "bonus"
)

// Direction is a maneuver heading.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionInward   Direction = "inward"
	DirectionOutward  Direction = "outward"
)

// RepairKind selects what a repair action restores.
type RepairKind string

const (
	RepairHull     RepairKind = "hull"
	RepairConduit  RepairKind = "conduit"
	RepairCorridor RepairKind = "corridor"
)

// Action is the closed interface over the 11 variants.
type Action interface {
	Type() Type
	Player() string
	Crew() string
	ActionSlot() Slot
	// Validate checks required fields; it returns nil when the action is
	// structurally complete. Preconditions against game state are the
	// resolvers' concern.
	Validate() *xerrors.Error
}

// Base carries the fields every action shares.
type Base struct {
	PlayerID string `json:"player_id"`
	CrewID   string `json:"crew_id"`
	Slot     Slot   `json:"slot"`
}

// Player returns the acting player's id.
func (b Base) Player() string { return b.PlayerID }

// Crew returns the performing crew member's id.
func (b Base) Crew() string { return b.CrewID }

// ActionSlot returns the action slot, defaulting to primary.
func (b Base) ActionSlot() Slot {
	if b.Slot == "" {
		return SlotPrimary
	}
	return b.Slot
}

func (b Base) validate(kind Type) *xerrors.Error {
	if b.PlayerID == "" {
		return fieldError(xerrors.CodeActionPlayerRequired, kind, b, "player_id")
	}
	if b.CrewID == "" {
		return fieldError(xerrors.CodeActionCrewRequired, kind, b, "crew_id")
	}
	return nil
}

func fieldError(code xerrors.Code, kind Type, b Base, field string) *xerrors.Error {
	return xerrors.WithMetadata(code, string(kind)+" action missing "+field, map[string]string{
		"action":    string(kind),
		"player_id": b.PlayerID,
		"crew_id":   b.CrewID,
		"field":     field,
	})
}

// Allocation directs generated power into a section.
type Allocation struct {
	Target ship.Section `json:"target"`
	Amount int          `json:"amount"`
}

// Charge directs generated power into an installed upgrade.
type Charge struct {
	Upgrade upgrade.ID `json:"upgrade"`
	Amount  int        `json:"amount"`
}

// Restore generates power in the performer's section and optionally routes
// parts of the generated budget to other sections or upgrades.
type Restore struct {
	Base
	Allocations []Allocation `json:"allocations,omitempty"`
	Charges     []Charge     `json:"charges,omitempty"`
}

func (Restore) Type() Type { return TypeRestore }

func (a Restore) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeRestore); err != nil {
		return err
	}
	for _, alloc := range a.Allocations {
		if alloc.Amount <= 0 {
			return fieldError(xerrors.CodeActionAmountInvalid, TypeRestore, a.Base, "allocations.amount")
		}
	}
	for _, charge := range a.Charges {
		if charge.Amount <= 0 {
			return fieldError(xerrors.CodeActionAmountInvalid, TypeRestore, a.Base, "charges.amount")
		}
		if charge.Upgrade == "" {
			return fieldError(xerrors.CodeActionTargetRequired, TypeRestore, a.Base, "charges.upgrade")
		}
	}
	return nil
}

// Endpoint is a route terminus: a section, or the life-support pool.
type Endpoint struct {
	Section     ship.Section `json:"section,omitempty"`
	LifeSupport bool         `json:"life_support,omitempty"`
}

// Route moves stored power between two endpoints along the conduit graph.
type Route struct {
	Base
	From   Endpoint `json:"from"`
	To     Endpoint `json:"to"`
	Amount int      `json:"amount"`
}

func (Route) Type() Type { return TypeRoute }

func (a Route) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeRoute); err != nil {
		return err
	}
	if a.Amount <= 0 {
		return fieldError(xerrors.CodeActionAmountInvalid, TypeRoute, a.Base, "amount")
	}
	if a.From.LifeSupport && a.To.LifeSupport {
		return fieldError(xerrors.CodeRouteSectionsIdentical, TypeRoute, a.Base, "from/to")
	}
	if !a.From.LifeSupport && !a.To.LifeSupport && a.From.Section == a.To.Section {
		return fieldError(xerrors.CodeRouteSectionsIdentical, TypeRoute, a.Base, "from/to")
	}
	return nil
}

// Repair restores one unit of hull, one conduit, or a corridor.
type Repair struct {
	Base
	Target ship.Section `json:"target"`
	Kind   RepairKind   `json:"kind"`
	// Toward names the far side of the edge for conduit and corridor repairs.
	Toward ship.Section `json:"toward,omitempty"`
}

func (Repair) Type() Type { return TypeRepair }

func (a Repair) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeRepair); err != nil {
		return err
	}
	switch a.Kind {
	case RepairHull:
	case RepairConduit, RepairCorridor:
		if a.Toward == a.Target {
			return fieldError(xerrors.CodeActionTargetRequired, TypeRepair, a.Base, "toward")
		}
	default:
		return fieldError(xerrors.CodeActionTypeUnsupported, TypeRepair, a.Base, "kind")
	}
	return nil
}

// Revive adds revive progress to an unconscious crew member.
type Revive struct {
	Base
	Target string `json:"target"`
}

func (Revive) Type() Type { return TypeRevive }

func (a Revive) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeRevive); err != nil {
		return err
	}
	if a.Target == "" {
		return fieldError(xerrors.CodeActionTargetRequired, TypeRevive, a.Base, "target")
	}
	return nil
}

// Maneuver moves the ship on the board.
type Maneuver struct {
	Base
	Direction  Direction `json:"direction"`
	Distance   int       `json:"distance"`
	PowerSpent int       `json:"power_spent"`
}

func (Maneuver) Type() Type { return TypeManeuver }

func (a Maneuver) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeManeuver); err != nil {
		return err
	}
	switch a.Direction {
	case DirectionForward, DirectionBackward, DirectionInward, DirectionOutward:
	default:
		return fieldError(xerrors.CodeManeuverBadDirection, TypeManeuver, a.Base, "direction")
	}
	if a.Distance < 0 || a.PowerSpent < 0 {
		return fieldError(xerrors.CodeActionAmountInvalid, TypeManeuver, a.Base, "distance/power_spent")
	}
	return nil
}

// Scan reveals a discovery at an object in range, or clears an adjacent
// hazard with a powered tachyon beam.
type Scan struct {
	Base
	Object       string `json:"object"`
	RemoveHazard bool   `json:"remove_hazard,omitempty"`
}

func (Scan) Type() Type { return TypeScan }

func (a Scan) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeScan); err != nil {
		return err
	}
	if a.Object == "" {
		return fieldError(xerrors.CodeActionTargetRequired, TypeScan, a.Base, "object")
	}
	return nil
}

// Acquire collects a revealed discovery from an object in range.
type Acquire struct {
	Base
	Object string `json:"object"`
}

func (Acquire) Type() Type { return TypeAcquire }

func (a Acquire) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeAcquire); err != nil {
		return err
	}
	if a.Object == "" {
		return fieldError(xerrors.CodeActionTargetRequired, TypeAcquire, a.Base, "object")
	}
	return nil
}

// Attack fires the ship's weapons at an object.
type Attack struct {
	Base
	Object string `json:"object"`
}

func (Attack) Type() Type { return TypeAttack }

func (a Attack) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeAttack); err != nil {
		return err
	}
	if a.Object == "" {
		return fieldError(xerrors.CodeActionTargetRequired, TypeAttack, a.Base, "object")
	}
	return nil
}

// Launch fires a torpedo at an object or sends a probe to it.
type Launch struct {
	Base
	Object  string        `json:"object"`
	Payload crew.ItemType `json:"payload"`
}

func (Launch) Type() Type { return TypeLaunch }

func (a Launch) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeLaunch); err != nil {
		return err
	}
	if a.Object == "" {
		return fieldError(xerrors.CodeActionTargetRequired, TypeLaunch, a.Base, "object")
	}
	if a.Payload != crew.ItemTorpedo && a.Payload != crew.ItemProbe {
		return fieldError(xerrors.CodeActionTypeUnsupported, TypeLaunch, a.Base, "payload")
	}
	return nil
}

// Assemble progresses crafting of an item type.
type Assemble struct {
	Base
	Item crew.ItemType `json:"item"`
}

func (Assemble) Type() Type { return TypeAssemble }

func (a Assemble) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeAssemble); err != nil {
		return err
	}
	if a.Item != crew.ItemTorpedo && a.Item != crew.ItemProbe {
		return fieldError(xerrors.CodeActionTypeUnsupported, TypeAssemble, a.Base, "item")
	}
	return nil
}

// Integrate installs a pending upgrade.
type Integrate struct {
	Base
	Upgrade upgrade.ID `json:"upgrade"`
}

func (Integrate) Type() Type { return TypeIntegrate }

func (a Integrate) Validate() *xerrors.Error {
	if err := a.Base.validate(TypeIntegrate); err != nil {
		return err
	}
	if a.Upgrade == "" {
		return fieldError(xerrors.CodeActionTargetRequired, TypeIntegrate, a.Base, "upgrade")
	}
	return nil
}
