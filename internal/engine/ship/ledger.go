package ship

import "sort"

// PowerLedger accumulates the power moved across each conduit edge during one
// turn. Overload is a cumulative property: every restore allocation, upgrade
// charge, and route transfer crossing an edge sums here before the check.
type PowerLedger map[EdgeKey]int

// AddPath records amount crossing every edge of the path.
func (l PowerLedger) AddPath(path []Section, amount int) {
	if amount <= 0 {
		return
	}
	for i := 1; i < len(path); i++ {
		l[Edge(path[i-1], path[i])] += amount
	}
}

// Overloaded returns the edges whose accumulated load exceeds their safe
// capacity, in canonical order.
func (l PowerLedger) Overloaded(s *Ship, maxPerConduit int) []EdgeKey {
	var out []EdgeKey
	for key, load := range l {
		edge := s.Edges[key]
		if edge == nil {
			continue
		}
		if load > edge.Conduits*maxPerConduit {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// ToSerializable converts the ledger to a string-keyed map for snapshots.
func (l PowerLedger) ToSerializable() map[string]int {
	if len(l) == 0 {
		return nil
	}
	out := make(map[string]int, len(l))
	for key, load := range l {
		out[key.String()] = load
	}
	return out
}

// LedgerFromSerializable reverses ToSerializable.
func LedgerFromSerializable(raw map[string]int) (PowerLedger, error) {
	ledger := make(PowerLedger, len(raw))
	for rawKey, load := range raw {
		key, err := ParseEdgeKey(rawKey)
		if err != nil {
			return nil, err
		}
		ledger[key] = load
	}
	return ledger, nil
}
