// Copyright © 2024 Galvanized Logic Inc.

package world

import (
	"testing"

	"github.com/ozcore/openzone/math/lin"
)

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	b := NewAABB(lin.V3{X: 1.5, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	if !a.Overlaps(b) {
		t.Errorf("expected overlap between %v and %v", a, b)
	}
}

func TestAABBTouchingNotOverlapping(t *testing.T) {
	a := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	b := NewAABB(lin.V3{X: 2, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	if a.Overlaps(b) {
		t.Errorf("boxes only touching at x=1 should not overlap")
	}
}

func TestAABBContains(t *testing.T) {
	a := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 2, Y: 2, Z: 2})
	if !a.Contains(lin.V3{X: 1, Y: -1, Z: 2}) {
		t.Errorf("expected point to be inside box")
	}
	if a.Contains(lin.V3{X: 3, Y: 0, Z: 0}) {
		t.Errorf("expected point outside box")
	}
}

func TestAABBExpand(t *testing.T) {
	a := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	e := a.Expand(0.5)
	if e.Half.X != 1.5 {
		t.Errorf("expected half-extent 1.5, got %f", e.Half.X)
	}
}
