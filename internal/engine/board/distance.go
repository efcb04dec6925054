package board

// Distance is the board metric between two positions: the ring index
// difference plus the angular difference measured in spaces of the finer
// (more subdivided) of the two rings, with each ring's current rotation
// folded in. The metric is symmetric, non-negative, and zero only for the
// same effective position.
func (b *Board) Distance(a, c Position) int {
	ringA := b.Ring(a.Ring)
	ringC := b.Ring(c.Ring)
	if ringA == nil || ringC == nil {
		return -1
	}

	ringDelta := a.Ring - c.Ring
	if ringDelta < 0 {
		ringDelta = -ringDelta
	}

	finer := ringA.Spaces
	if ringC.Spaces > finer {
		finer = ringC.Spaces
	}

	ticksA := absoluteTicks(a, ringA, finer)
	ticksC := absoluteTicks(c, ringC, finer)

	angular := ticksA - ticksC
	if angular < 0 {
		angular = -angular
	}
	if wrapped := finer - angular; wrapped < angular {
		angular = wrapped
	}

	return ringDelta + angular
}

// absoluteTicks projects a position onto a circle with `finer` subdivisions,
// folding in the ring's rotation so co-rotating positions keep their distance.
func absoluteTicks(p Position, r *Ring, finer int) int {
	space := wrap(p.Space+r.Rotation, r.Spaces)
	// Round to nearest tick so coarse rings land between fine spaces fairly.
	return (space*finer + r.Spaces/2) / r.Spaces % finer
}
