package action

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire form of an action: the kind plus its fields inline.
type envelope struct {
	Type Type `json:"type"`
}

// Marshal encodes an action with its kind tag for transport and snapshots.
func Marshal(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(a.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = kind
	return json.Marshal(fields)
}

// Unmarshal decodes a kind-tagged action.
func Unmarshal(raw []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var target Action
	switch env.Type {
	case TypeRestore:
		target = &Restore{}
	case TypeRoute:
		target = &Route{}
	case TypeRepair:
		target = &Repair{}
	case TypeRevive:
		target = &Revive{}
	case TypeManeuver:
		target = &Maneuver{}
	case TypeScan:
		target = &Scan{}
	case TypeAcquire:
		target = &Acquire{}
	case TypeAttack:
		target = &Attack{}
	case TypeLaunch:
		target = &Launch{}
	case TypeAssemble:
		target = &Assemble{}
	case TypeIntegrate:
		target = &Integrate{}
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return deref(target), nil
}

// deref returns the value form so decoded actions compare and dispatch the
// same way as constructed ones.
func deref(a Action) Action {
	switch v := a.(type) {
	case *Restore:
		return *v
	case *Route:
		return *v
	case *Repair:
		return *v
	case *Revive:
		return *v
	case *Maneuver:
		return *v
	case *Scan:
		return *v
	case *Acquire:
		return *v
	case *Attack:
		return *v
	case *Launch:
		return *v
	case *Assemble:
		return *v
	case *Integrate:
		return *v
	default:
		return a
	}
}
