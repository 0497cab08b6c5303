// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// SimulateFragments advances every live Fragment by one Tick: gravity
// plus a single swept move; on first solid hit a fragment bounces
// (restitution from its class) or expires (spec.md §4.D, "Fragments use
// a simplified loop").
func SimulateFragments(w *world.World, col *collider.Collider) {
	w.Frags.Each(func(f *world.Fragment) (destroy bool) {
		f.Life -= world.Tick
		if f.Life <= 0 {
			return true
		}

		f.Velocity.Z -= world.Gravity * world.Tick
		var move lin.V3
		move.Scale(&f.Velocity, world.Tick)
		box := f.AABB()
		free, hit := col.Translate(box, move, world.NilObject, world.SolidBit)
		f.Position.X += free.X
		f.Position.Y += free.Y
		f.Position.Z += free.Z
		w.Frags.Move(f.Id, f.Position)

		if hit.Ratio < 1 {
			if f.Class.Restitution <= 0 {
				return true
			}
			vn := f.Velocity.Dot(&hit.Normal)
			factor := (1 + f.Class.Restitution) * vn
			f.Velocity.X -= factor * hit.Normal.X
			f.Velocity.Y -= factor * hit.Normal.Y
			f.Velocity.Z -= factor * hit.Normal.Z
		}
		return false
	})
}
