package ship

// FindRoutingPath returns the shortest conduit path from one section to
// another, or nil when they are disconnected. The search is breadth-first
// over edges with at least one intact conduit, visiting neighbors in
// canonical section order so equal-length paths always resolve the same way.
// from == to yields the trivial one-section path.
func (s *Ship) FindRoutingPath(from, to Section) []Section {
	if from == to {
		return []Section{from}
	}
	parent := map[Section]Section{from: from}
	queue := []Section{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range s.neighbors(current) {
			edge := s.EdgeBetween(current, next)
			if edge == nil || edge.Conduits <= 0 {
				continue
			}
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == to {
				return rebuildPath(parent, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func rebuildPath(parent map[Section]Section, from, to Section) []Section {
	path := []Section{to}
	for at := to; at != from; at = parent[at] {
		path = append(path, parent[at])
	}
	// Reverse into from..to order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// BottleneckCapacity is the safe power throughput of a path this turn: the
// minimum over its edges of intact conduits times maxPerConduit. A one-section
// path has no edges and no bottleneck; it returns -1 for "unbounded".
func (s *Ship) BottleneckCapacity(path []Section, maxPerConduit int) int {
	if len(path) < 2 {
		return -1
	}
	capacity := -1
	for i := 1; i < len(path); i++ {
		edge := s.EdgeBetween(path[i-1], path[i])
		if edge == nil {
			return 0
		}
		edgeCap := edge.Conduits * maxPerConduit
		if capacity < 0 || edgeCap < capacity {
			capacity = edgeCap
		}
	}
	return capacity
}
