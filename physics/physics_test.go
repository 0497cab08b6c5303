// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

func newTestWorld() *world.World {
	return world.New(&world.ClassBook{Objects: map[string]*world.ObjectClass{}, Structs: map[string]*world.StructClass{}}, 1, 0)
}

func TestSimulateAppliesGravity(t *testing.T) {
	w := newTestWorld()
	class := &world.ObjectClass{Name: "box", Mass: 1, HalfX: 1, HalfY: 1, HalfZ: 1}
	id := w.Objects.Create(world.Object{
		Class:    class,
		Position: lin.V3{X: 0, Y: 0, Z: 100},
		Half:     lin.V3{X: 1, Y: 1, Z: 1},
		Flags:    world.SolidBit,
		Kind:     world.KindDynamic,
		Dynamic:  &world.DynamicExt{Mass: 1},
	})
	col := collider.New(w)
	Simulate(w, col)
	o := w.Objects.Get(id)
	if o.Dynamic.Momentum.Z >= 0 {
		t.Errorf("expected downward momentum after gravity, got %f", o.Dynamic.Momentum.Z)
	}
}

func TestFrictionDisablesSlowObject(t *testing.T) {
	w := newTestWorld()
	class := &world.ObjectClass{Name: "box", Mass: 1}
	id := w.Objects.Create(world.Object{
		Class:   class,
		Kind:    world.KindDynamic,
		Dynamic: &world.DynamicExt{Mass: 1, Momentum: lin.V3{X: 0.001}, Friction: world.FrictionFloor},
	})
	applyFriction(w.Objects.Get(id).Dynamic)
	o := w.Objects.Get(id)
	if !o.Dynamic.Disabled {
		t.Errorf("expected a near-zero momentum object to become disabled")
	}
}

func TestSimulateFragmentsExpireOnHit(t *testing.T) {
	w := newTestWorld()
	class := &world.ObjectClass{Name: "wall", HalfX: 1, HalfY: 10, HalfZ: 10}
	w.Objects.Create(world.Object{Class: class, Position: lin.V3{X: 2}, Half: lin.V3{X: 1, Y: 10, Z: 10}, Flags: world.SolidBit})
	col := collider.New(w)
	fc := &world.FragClass{Life: 10, Restitution: 0}
	id := w.Frags.Create(fc, lin.V3{X: 0}, lin.V3{X: 100})
	SimulateFragments(w, col)
	if f := w.Frags.Get(id); f != nil {
		t.Errorf("expected fragment to expire on first solid hit, still present: %v", f)
	}
}
