package board

import (
	"testing"

	"github.com/adriftworks/adrift/internal/engine/content"
)

func testBoard(t *testing.T) *Board {
	t.Helper()
	return New(content.Default())
}

func TestZoneColorMonotonic(t *testing.T) {
	want := []Zone{ZoneRed, ZoneRed, ZoneOrange, ZoneOrange, ZoneYellow, ZoneYellow, ZoneGreen, ZoneGreen}
	for ring := InnermostRing; ring <= OutermostRing; ring++ {
		if got := ZoneColor(ring); got != want[ring-1] {
			t.Fatalf("ring %d zone = %s, want %s", ring, got, want[ring-1])
		}
	}
}

func TestDistanceSamePositionIsZero(t *testing.T) {
	b := testBoard(t)
	p := Position{Ring: 5, Space: 3}
	if got := b.Distance(p, p); got != 0 {
		t.Fatalf("distance to self = %d, want 0", got)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	b := testBoard(t)
	a := Position{Ring: 3, Space: 2}
	c := Position{Ring: 6, Space: 11}
	if b.Distance(a, c) != b.Distance(c, a) {
		t.Fatal("distance must be symmetric")
	}
}

func TestDistanceWrapsAngularDifference(t *testing.T) {
	b := testBoard(t)
	// Ring 8 has 30 spaces: spaces 0 and 29 are adjacent across the seam.
	a := Position{Ring: 8, Space: 0}
	c := Position{Ring: 8, Space: 29}
	if got := b.Distance(a, c); got != 1 {
		t.Fatalf("seam distance = %d, want 1", got)
	}
}

func TestDistanceAccountsForRotation(t *testing.T) {
	b := testBoard(t)
	a := Position{Ring: 8, Space: 0}
	c := Position{Ring: 8, Space: 5}
	before := b.Distance(a, c)
	// Rotating the whole ring moves both positions together.
	b.Rings[7].Rotation = 4
	after := b.Distance(a, c)
	if before != after {
		t.Fatalf("co-rotating positions changed distance: %d != %d", before, after)
	}
}

func TestRotateRingsCarriesObjects(t *testing.T) {
	b := testBoard(t)
	b.Objects = append(b.Objects, &Object{
		ID:       "obj-1",
		Kind:     KindDerelict,
		Position: Position{Ring: 3, Space: 9},
	})
	steps := b.RotateRings()
	if len(steps) != 8 {
		t.Fatalf("expected 8 steps, got %d", len(steps))
	}
	wantSpace := wrap(9+steps[2], b.Ring(3).Spaces)
	if got := b.Objects[0].Position.Space; got != wantSpace {
		t.Fatalf("object space = %d, want %d", got, wantSpace)
	}
}

func TestRemoveObject(t *testing.T) {
	b := testBoard(t)
	b.Objects = append(b.Objects, &Object{ID: "a"}, &Object{ID: "b"})
	if !b.RemoveObject("a") {
		t.Fatal("expected removal of existing object")
	}
	if b.ObjectByID("a") != nil {
		t.Fatal("object a should be gone")
	}
	if b.ObjectByID("b") == nil {
		t.Fatal("object b should remain")
	}
	if b.RemoveObject("a") {
		t.Fatal("removing a missing object should report false")
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := testBoard(t)
	b.Objects = append(b.Objects, &Object{ID: "a", Acquired: map[int]bool{0: true}})
	clone := b.Clone()
	clone.Objects[0].Acquired[1] = true
	clone.Rings[0].Rotation = 5
	if len(b.Objects[0].Acquired) != 1 {
		t.Fatal("clone shares acquired map with original")
	}
	if b.Rings[0].Rotation != 0 {
		t.Fatal("clone shares ring slice with original")
	}
}
