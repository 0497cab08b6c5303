// Copyright © 2024 Galvanized Logic Inc.

// Package physics is the explicit fixed-timestep integrator driving every
// Dynamic/Weapon/Bot/Vehicle object: gravity, per-mode friction, swept
// collision response and stacking. Simulate's entry-point shape (apply
// forces once per tick over a collection of bodies, integrate, clear
// forces) follows the teacher's original physics.Simulate/move.Mover.Step
// staging, but the per-body integration here is the spec's discrete
// friction-mode model rather than the teacher's PBD/GJK/EPA rigid-body
// solver — that solver targets general rotation and convex-hull contact
// manifolds, both out of scope since dynamic objects are axis-aligned
// boxes (see DESIGN.md for the disposition of the teacher's original
// physics/ files).
package physics

import (
	"log/slog"
	"math"

	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// Simulate advances every live Dynamic/Weapon/Bot/Vehicle object in w by
// one Tick: gravity, friction, swept move with collision response and
// stacking, and liquid interaction. Simulate is called once per tick
// from engine's phase 2, matching the teacher's Simulate(bodies,
// timestep) shape.
func Simulate(w *world.World, col *collider.Collider) {
	w.Objects.Each(func(o *world.Object) {
		dyn := o.DynExt()
		if dyn == nil {
			return // KindStatic objects are not integrated.
		}
		if dyn.Disabled {
			return
		}
		applyGravity(dyn, w.Terrain, o.Position)
		applyFriction(dyn)
		sweepMove(o, dyn, col)
		applyLiquid(o, dyn, w.Terrain)
		clampVelocity(dyn)
	})
}

// applyGravity adds one tick of gravity to momentum, cancelled
// proportionally to submerged depth while in liquid (spec.md §4.D.1).
func applyGravity(dyn *world.DynamicExt, terrain *world.Terrain, pos lin.V3) {
	buoyancy := 0.0
	if terrain != nil && terrain.HasLiquid && pos.Z-dyn.Depth <= terrain.LiquidZ {
		buoyancy = dyn.Lift * clamp01(dyn.Depth)
	}
	dyn.Momentum.Z -= world.Gravity * dyn.Mass * world.Tick * (1 - buoyancy)
}

// applyFriction multiplies horizontal momentum by (1 - mu*Tick) for the
// current FrictionMode and marks the object Disabled once it settles
// below StickVelocity (spec.md §4.D.2).
func applyFriction(dyn *world.DynamicExt) {
	mu := frictionCoefficient(dyn.Friction)
	scale := 1 - mu*world.Tick
	if scale < 0 {
		scale = 0
	}
	dyn.Momentum.X *= scale
	dyn.Momentum.Y *= scale

	if dyn.Momentum.Len() < world.StickVelocity {
		dyn.Momentum = lin.V3{}
		dyn.Disabled = true
	}
}

func frictionCoefficient(mode world.FrictionMode) float64 {
	switch mode {
	case world.FrictionAir:
		return world.AirFriction
	case world.FrictionLadder:
		return world.LadderFriction
	case world.FrictionWater:
		return world.WaterFriction
	case world.FrictionFloor:
		return world.FloorFriction
	case world.FrictionSlick:
		return world.SlickFriction
	case world.FrictionObj:
		return world.ObjFriction
	default:
		return world.AirFriction
	}
}

// sweepMove moves o by momentum/mass*Tick through the collider, resolving up
// to MaxTraceSplits impacts (spec.md §4.D.3) and updating stacking state
// (spec.md §4.D.4).
func sweepMove(o *world.Object, dyn *world.DynamicExt, col *collider.Collider) {
	remaining := lin.V3{X: dyn.Momentum.X / dyn.Mass * world.Tick, Y: dyn.Momentum.Y / dyn.Mass * world.Tick, Z: dyn.Momentum.Z / dyn.Mass * world.Tick}
	box := o.AABB()
	wasStacked := dyn.Lower

	for split := 0; split < world.MaxTraceSplits; split++ {
		if remaining == (lin.V3{}) {
			break
		}
		free, hit := col.Translate(box, remaining, o.Id, world.SolidBit)
		o.Position.X += free.X
		o.Position.Y += free.Y
		o.Position.Z += free.Z
		box = o.AABB()

		if hit.Ratio >= 1 {
			break // move completed without obstruction.
		}

		closing := -dyn.Momentum.Dot(&hit.Normal) / dyn.Mass
		if closing > world.HitMomentum {
			o.Events.Push(world.EvHit, closing/world.HitMomentum)
		}

		restitution := 0.0
		if hit.Object != world.NilObject {
			restitution = 0.05
		}
		reflectMomentum(dyn, hit.Normal, restitution)

		if hit.Normal.Z >= world.FloorNormalZ {
			dyn.Lower = hit.Object
			dyn.Friction = world.FrictionFloor
		} else if hit.Struct != world.NilStruct {
			dyn.Friction = world.FrictionFloor
		} else if hit.Object != world.NilObject {
			dyn.Friction = world.FrictionObj
		}

		leftover := 1 - hit.Ratio
		remaining = lin.V3{X: remaining.X * leftover, Y: remaining.Y * leftover, Z: remaining.Z * leftover}
		if dyn.Momentum.Len() < world.StickVelocity {
			dyn.Momentum = lin.V3{}
			break
		}
	}

	if dyn.Lower != world.NilObject && dyn.Lower != wasStacked {
		slog.Debug("object stacked", "object", o.Id, "lower", dyn.Lower)
	}
}

// reflectMomentum applies v' = v - (1+restitution)(v.n)n along the
// struck normal (spec.md §4.D.3).
func reflectMomentum(dyn *world.DynamicExt, n lin.V3, restitution float64) {
	vn := dyn.Momentum.Dot(&n)
	if vn >= 0 {
		return // already separating.
	}
	factor := (1 + restitution) * vn
	dyn.Momentum.X -= factor * n.X
	dyn.Momentum.Y -= factor * n.Y
	dyn.Momentum.Z -= factor * n.Z
}

// applyLiquid updates depth and emits SPLASH on crossing the liquid
// plane (spec.md §4.D.5).
func applyLiquid(o *world.Object, dyn *world.DynamicExt, terrain *world.Terrain) {
	if terrain == nil || !terrain.HasLiquid {
		dyn.Depth = 0
		return
	}
	wasSubmerged := dyn.Depth > 0
	surface := terrain.LiquidZ
	depth := surface - (o.Position.Z - o.Half.Z)
	if depth <= 0 {
		dyn.Depth = 0
		if wasSubmerged {
			o.Events.Push(world.EvSplash, math.Abs(dyn.Momentum.Z/dyn.Mass))
		}
		return
	}
	if !wasSubmerged {
		o.Events.Push(world.EvSplash, math.Abs(dyn.Momentum.Z/dyn.Mass))
	}
	dyn.Depth = depth
}

func clampVelocity(dyn *world.DynamicExt) {
	speed := dyn.Momentum.Len() / dyn.Mass
	if speed > world.MaxVelocity {
		scale := world.MaxVelocity / speed
		dyn.Momentum.X *= scale
		dyn.Momentum.Y *= scale
		dyn.Momentum.Z *= scale
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
