// Copyright © 2024 Galvanized Logic Inc.

package world

import (
	"testing"

	"github.com/ozcore/openzone/math/lin"
)

func TestObjectsCreateGet(t *testing.T) {
	grid := NewGrid()
	objs := NewObjects(grid)
	class := &ObjectClass{Name: "crate", Kind: KindStatic, HalfX: 1, HalfY: 1, HalfZ: 1}
	id := objs.Create(Object{Class: class, Position: lin.V3{X: 1, Y: 2, Z: 3}, Half: lin.V3{X: 1, Y: 1, Z: 1}})
	if id == NilObject {
		t.Fatalf("expected a valid object id")
	}
	o := objs.Get(id)
	if o == nil || o.Position.X != 1 {
		t.Errorf("expected object at x=1, got %v", o)
	}
}

func TestObjectsDestroySwapDelete(t *testing.T) {
	grid := NewGrid()
	objs := NewObjects(grid)
	class := &ObjectClass{Name: "crate"}
	a := objs.Create(Object{Class: class})
	b := objs.Create(Object{Class: class})
	objs.Destroy(a)
	if objs.Valid(a) {
		t.Errorf("expected %d to be invalid after destroy", a)
	}
	if !objs.Valid(b) {
		t.Errorf("expected %d to remain valid after sibling destroy", b)
	}
	if objs.Len() != 1 {
		t.Errorf("expected 1 live object, got %d", objs.Len())
	}
}

func TestObjectsMoveSyncsGrid(t *testing.T) {
	grid := NewGrid()
	objs := NewObjects(grid)
	class := &ObjectClass{Name: "crate", HalfX: 1, HalfY: 1, HalfZ: 1}
	id := objs.Create(Object{Class: class, Half: lin.V3{X: 1, Y: 1, Z: 1}})
	objs.Move(id, lin.V3{X: 500, Y: 500, Z: 500})

	hits := grid.GetInters(NewAABB(lin.V3{X: 500, Y: 500, Z: 500}, lin.V3{X: 1, Y: 1, Z: 1}), 0)
	if len(hits) != 1 {
		t.Errorf("expected moved object to be found at new position, got %v", hits)
	}
}

func TestDynExtByKind(t *testing.T) {
	bot := &Object{Kind: KindBot, Bot: &BotExt{Stamina: 5}}
	if dyn := bot.DynExt(); dyn == nil {
		t.Errorf("expected bot to expose its embedded dynamic fields")
	}
	static := &Object{Kind: KindStatic}
	if dyn := static.DynExt(); dyn != nil {
		t.Errorf("expected static object to have no dynamic fields, got %v", dyn)
	}
}
