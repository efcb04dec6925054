package board

// RotateRings advances every ring by its configured step in the board's
// rotation direction and carries every object along with its ring. The
// returned slice holds the signed step applied to each ring (index 0 =
// ring 1) so callers can move ships the same way.
func (b *Board) RotateRings() []int {
	steps := make([]int, len(b.Rings))
	for i := range b.Rings {
		ring := &b.Rings[i]
		step := ring.RotationStep * b.RotationDirection
		steps[i] = step
		ring.Rotation = wrap(ring.Rotation+step, ring.Spaces)
	}
	for _, obj := range b.Objects {
		ring := b.Ring(obj.Position.Ring)
		if ring == nil {
			continue
		}
		obj.Position.Space = wrap(obj.Position.Space+steps[obj.Position.Ring-1], ring.Spaces)
	}
	return steps
}
