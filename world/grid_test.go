// Copyright © 2024 Galvanized Logic Inc.

package world

import (
	"testing"

	"github.com/ozcore/openzone/math/lin"
)

func TestGridInsertAndQuery(t *testing.T) {
	g := NewGrid()
	box := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	g.InsertObject(ObjectId(1), box)

	hits := g.GetInters(box, 0)
	if len(hits) != 1 || hits[0].ObjectId != ObjectId(1) {
		t.Errorf("expected one hit for object 1, got %v", hits)
	}
}

func TestGridQueryMissesFarObject(t *testing.T) {
	g := NewGrid()
	box := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	g.InsertObject(ObjectId(1), box)

	far := NewAABB(lin.V3{X: 1000, Y: 1000, Z: 1000}, lin.V3{X: 1, Y: 1, Z: 1})
	hits := g.GetInters(far, 0)
	if len(hits) != 0 {
		t.Errorf("expected no hits far from object, got %v", hits)
	}
}

func TestGridMoveUpdatesMembership(t *testing.T) {
	g := NewGrid()
	box := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	g.InsertObject(ObjectId(1), box)

	moved := NewAABB(lin.V3{X: 500, Y: 500, Z: 500}, lin.V3{X: 1, Y: 1, Z: 1})
	g.MoveObject(ObjectId(1), moved)

	if hits := g.GetInters(box, 0); len(hits) != 0 {
		t.Errorf("expected no hits at old position after move, got %v", hits)
	}
	if hits := g.GetInters(moved, 0); len(hits) != 1 {
		t.Errorf("expected one hit at new position, got %v", hits)
	}
}

func TestGridEraseRemovesMembership(t *testing.T) {
	g := NewGrid()
	box := NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	g.InsertObject(ObjectId(1), box)
	g.EraseObject(ObjectId(1))

	if hits := g.GetInters(box, 0); len(hits) != 0 {
		t.Errorf("expected no hits after erase, got %v", hits)
	}
}
