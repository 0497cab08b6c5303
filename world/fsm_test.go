// Copyright © 2024 Galvanized Logic Inc.

package world

import (
	"testing"

	"github.com/ozcore/openzone/math/lin"
)

// passEnv never reports an obstruction, letting entities run to completion.
type passEnv struct{}

func (passEnv) Probe(int) BlockProbe                { return BlockProbe{} }
func (passEnv) PushOverlapping(int, lin.V3, float64) {}
func (passEnv) CrushOverlapping(int)                 {}
func (passEnv) ElevateOverlapping(int, float64) bool { return false }
func (passEnv) FindTarget(string) (int, int, bool)   { return 0, 0, false }
func (passEnv) Advance(int, int)                     {}

func TestManualDoorOpensFully(t *testing.T) {
	class := EntityClass{Move: [3]float64{0, 0, 2}, RatioInc: 0.5}
	s := &Struct{Entities: []Entity{{Class: &class, State: Opening}}}
	env := passEnv{}
	for i := 0; i < 4; i++ {
		s.Step(0, env)
	}
	e := s.Entities[0]
	if e.State != Opened || e.Ratio != 1 {
		t.Errorf("expected door fully opened, got state=%d ratio=%f", e.State, e.Ratio)
	}
	if e.Offset.Z != 2 {
		t.Errorf("expected offset.Z == move.Z at full ratio, got %f", e.Offset.Z)
	}
}

func TestTriggerKeyedEntityRequiresMatch(t *testing.T) {
	class := EntityClass{RatioInc: 0.5, Key: 7}
	s := &Struct{Entities: []Entity{{Class: &class, State: Closed}}}
	env := passEnv{}
	keys := []int32{1, 2}
	if s.Trigger(0, keys, env) {
		t.Errorf("expected trigger to fail without a matching key")
	}
	keys = []int32{7}
	if !s.Trigger(0, keys, env) {
		t.Errorf("expected trigger to succeed with a matching key")
	}
	if s.Entities[0].State != Opening {
		t.Errorf("expected entity to start opening, got state=%d", s.Entities[0].State)
	}
	if keys[0] != ^int32(7) {
		t.Errorf("expected matched key to be negated, got %d", keys[0])
	}
}
