// Copyright © 2024 Galvanized Logic Inc.

package collider

import (
	"testing"

	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

func newTestWorld() *world.World {
	return world.New(&world.ClassBook{Objects: map[string]*world.ObjectClass{}, Structs: map[string]*world.StructClass{}}, 42, 0)
}

func TestOverlapsDetectsSolidObject(t *testing.T) {
	w := newTestWorld()
	class := &world.ObjectClass{Name: "crate", HalfX: 1, HalfY: 1, HalfZ: 1}
	w.Objects.Create(world.Object{
		Class:  class,
		Half:   lin.V3{X: 1, Y: 1, Z: 1},
		Flags:  world.SolidBit,
	})
	col := New(w)
	query := world.NewAABB(lin.V3{}, lin.V3{X: 1, Y: 1, Z: 1})
	if !col.Overlaps(query, world.NilObject) {
		t.Errorf("expected overlap with solid object at origin")
	}
}

func TestOverlapsIgnoresExcludedObject(t *testing.T) {
	w := newTestWorld()
	class := &world.ObjectClass{Name: "crate", HalfX: 1, HalfY: 1, HalfZ: 1}
	id := w.Objects.Create(world.Object{Class: class, Half: lin.V3{X: 1, Y: 1, Z: 1}, Flags: world.SolidBit})
	col := New(w)
	query := world.NewAABB(lin.V3{}, lin.V3{X: 1, Y: 1, Z: 1})
	if col.Overlaps(query, id) {
		t.Errorf("expected no overlap once the only candidate is ignored")
	}
}

func TestTranslateStopsAtSolidObject(t *testing.T) {
	w := newTestWorld()
	class := &world.ObjectClass{Name: "wall", HalfX: 1, HalfY: 10, HalfZ: 10}
	w.Objects.Create(world.Object{
		Class:    class,
		Position: lin.V3{X: 10, Y: 0, Z: 0},
		Half:     lin.V3{X: 1, Y: 10, Z: 10},
		Flags:    world.SolidBit,
	})
	col := New(w)
	moving := world.NewAABB(lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 1, Y: 1, Z: 1})
	move := lin.V3{X: 20, Y: 0, Z: 0}
	free, hit := col.Translate(moving, move, world.NilObject, world.SolidBit)

	if hit.Ratio >= 1 {
		t.Errorf("expected the sweep to be stopped before the full move, got ratio %f", hit.Ratio)
	}
	if free.X >= move.X {
		t.Errorf("expected free move X to be less than requested move X, got %f", free.X)
	}
	if hit.Normal.X != -1 {
		t.Errorf("expected impact normal pointing back along -X, got %v", hit.Normal)
	}
}

func TestTranslateUnobstructedReturnsFullMove(t *testing.T) {
	w := newTestWorld()
	col := New(w)
	moving := world.NewAABB(lin.V3{}, lin.V3{X: 1, Y: 1, Z: 1})
	move := lin.V3{X: 5, Y: 0, Z: 0}
	free, hit := col.Translate(moving, move, world.NilObject, world.SolidBit)
	if hit.Ratio != 1 {
		t.Errorf("expected unobstructed ratio 1, got %f", hit.Ratio)
	}
	if free != move {
		t.Errorf("expected full move %v, got %v", move, free)
	}
}
