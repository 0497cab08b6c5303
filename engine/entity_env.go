// Copyright © 2024 Galvanized Logic Inc.

package engine

import (
	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// structEntityEnv implements world.StructEntityEnv for one struct during
// one phase 2 step, giving fsm.go's handlers obstruction queries and the
// ability to push/crush/elevate overlapping dynamics through the
// collider without world importing collider directly.
type structEntityEnv struct {
	w *world.World
	c *collider.Collider
	s *world.Struct
}

// tickDelta is the per-tick world-space displacement of entity idx,
// matching Entity.velocityVector(sign)*Tick (fsm.go keeps that method
// unexported, so this recomputes the same per-tick displacement from
// the class fields directly).
func tickDelta(e *world.Entity, sign float64) lin.V3 {
	m := e.Class.Move
	return lin.V3{X: m[0] * sign * e.Class.RatioInc, Y: m[1] * sign * e.Class.RatioInc, Z: m[2] * sign * e.Class.RatioInc}
}

func (env *structEntityEnv) Probe(entityIdx int) world.BlockProbe {
	e := &env.s.Entities[entityIdx]
	var sign float64
	switch e.State {
	case world.Opening:
		sign = 1
	case world.Closing:
		sign = -1
	default:
		return world.BlockProbe{Ratio: 1}
	}
	delta := tickDelta(e, sign)
	box := env.c.EntityBox(env.s, entityIdx)
	_, hit := env.c.Translate(box, delta, world.NilObject, world.SolidBit)
	return world.BlockProbe{Blocked: hit.Ratio < 1, Ratio: hit.Ratio}
}

func (env *structEntityEnv) PushOverlapping(entityIdx int, delta lin.V3, ratio float64) {
	box := env.c.EntityBox(env.s, entityIdx)
	_, objects := env.c.GetOverlaps(box, 0)
	for _, oid := range objects {
		o := env.w.Objects.Get(oid)
		if o == nil || o.DynExt() == nil {
			continue
		}
		pos := o.Position
		pos.X += delta.X * ratio
		pos.Y += delta.Y * ratio
		pos.Z += delta.Z * ratio
		env.w.Objects.Move(oid, pos)
	}
}

func (env *structEntityEnv) CrushOverlapping(entityIdx int) {
	box := env.c.EntityBox(env.s, entityIdx)
	_, objects := env.c.GetOverlaps(box, 0)
	for _, oid := range objects {
		o := env.w.Objects.Get(oid)
		if o == nil {
			continue
		}
		o.Life = 0
		o.Events.Push(world.EvDamage, 1)
	}
}

func (env *structEntityEnv) ElevateOverlapping(entityIdx int, dz float64) (blocked bool) {
	box := env.c.EntityBox(env.s, entityIdx)
	_, objects := env.c.GetOverlaps(box, 0)

	for _, oid := range objects {
		o := env.w.Objects.Get(oid)
		if o == nil {
			continue
		}
		raised := o.Position
		raised.Z += dz
		if env.c.Overlaps(world.NewAABB(raised, o.Half), oid) {
			return true
		}
	}
	for _, oid := range objects {
		o := env.w.Objects.Get(oid)
		if o == nil {
			continue
		}
		raised := o.Position
		raised.Z += dz
		env.w.Objects.Move(oid, raised)
	}
	return false
}

func (env *structEntityEnv) FindTarget(name string) (structIdx, entityIdx int, ok bool) {
	for si := 0; si < env.w.Structs.Len(); si++ {
		st := env.w.Structs.AtIndex(si)
		for ei := range st.Entities {
			if st.Entities[ei].Class.Name == name {
				return si, ei, true
			}
		}
	}
	return 0, 0, false
}

func (env *structEntityEnv) Advance(structIdx, entityIdx int) {
	st := env.w.Structs.AtIndex(structIdx)
	if st == nil {
		return
	}
	st.ToggleEntity(entityIdx)
}
