// Copyright © 2024 Galvanized Logic Inc.

package ai

import (
	"testing"

	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

func TestMindSteersTowardGoal(t *testing.T) {
	w := world.New(&world.ClassBook{Objects: map[string]*world.ObjectClass{}, Structs: map[string]*world.StructClass{}}, 1, 0)
	class := &world.ObjectClass{Name: "grunt", Mass: 1, Speed: 2, HalfX: 1, HalfY: 1, HalfZ: 1}
	id := w.Objects.Create(world.Object{
		Class:   class,
		Half:    lin.V3{X: 1, Y: 1, Z: 1},
		Kind:    world.KindBot,
		Flags:   world.SolidBit,
		Bot:     &world.BotExt{Dynamic: world.DynamicExt{Mass: 1}},
	})
	col := collider.New(w)
	mind := NewMind(id)
	mind.SetGoal(w, col, lin.V3{X: world.CellSize * 4})

	if len(mind.path) == 0 {
		t.Fatalf("expected a non-empty path across open ground")
	}

	mind.Tick(w)
	o := w.Objects.Get(id)
	if o.Bot.Dynamic.Momentum.X <= 0 {
		t.Errorf("expected positive X momentum steering towards the goal, got %v", o.Bot.Dynamic.Momentum)
	}
}
