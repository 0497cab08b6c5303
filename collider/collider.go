// Copyright © 2024 Galvanized Logic Inc.

// Package collider answers overlap and swept-motion queries against the
// world grid: structs, moving entity sub-parts, and dynamic objects.
// Its pipeline shape — collect broadphase candidates from the grid, then
// run a narrowphase test per candidate — is lifted from move/move.go's
// mover.Step (predictBodyLocations -> broadphase -> narrowphase ->
// sol.solve), but broadphase candidate collection uses world.Grid's
// GetInters cell span instead of an O(n^2) all-pairs scan, and
// narrowphase is slab/plane based rather than GJK/EPA since dynamic
// objects are axis-aligned boxes only (no general rigid-body rotation,
// per scope).
//
// Structs do not carry decoded BSP brush planes in this data model (BSP
// asset decoding is out of scope); a Struct's own AABB stands in for its
// solid brush volume, and an Entity's local collision volume is the box
// implied by its EntityClass's motion extents. Both are documented
// simplifications of the original's brush-plane narrowphase, not an
// attempt to reproduce general polyhedral BSP collision.
package collider

import (
	"math"

	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// Hit describes the result of a swept-motion query.
type Hit struct {
	Ratio    float64 // fraction of the requested move that is free, in [0,1].
	Normal   lin.V3  // surface normal at the point of impact.
	Material int
	Object   world.ObjectId // set if a dynamic object was struck.
	Struct   world.StructId // set if a struct (or one of its entities) was struck.
	Entity   int            // entity index within Struct, -1 if the struct's own brush was hit.
}

// Collider answers overlap and swept-motion queries against one World.
type Collider struct {
	w *world.World
}

// New returns a Collider bound to w.
func New(w *world.World) *Collider { return &Collider{w: w} }

// candidateMargin pads the broadphase query box so narrowphase never
// misses a candidate merely because it sits in a neighbouring cell.
const candidateMargin = world.CellSize

// Overlaps reports whether any solid struct or solid object intersects
// box, ignoring object ignore (pass world.NilObject for no exclusion).
func (c *Collider) Overlaps(box world.AABB, ignore world.ObjectId) bool {
	for _, in := range c.w.Grid.GetInters(box, 0) {
		switch in.Kind {
		case world.InStruct:
			if s := c.w.Structs.Get(in.StructId); s != nil && box.Overlaps(s.AABB()) {
				return true
			}
		case world.InObject:
			if in.ObjectId == ignore {
				continue
			}
			o := c.w.Objects.Get(in.ObjectId)
			if o != nil && o.Flags&world.SolidBit != 0 && box.Overlaps(o.AABB()) {
				return true
			}
		}
	}
	return false
}

// entityBox approximates an Entity's local collision volume from its
// class's motion extents, since brush data is not part of this data
// model (see package doc).
func entityBox(e *world.Entity) world.AABB {
	m := e.Class.Move
	half := lin.V3{X: math.Abs(m[0])/2 + world.Epsilon, Y: math.Abs(m[1])/2 + world.Epsilon, Z: math.Abs(m[2])/2 + world.Epsilon}
	center := lin.V3{X: m[0] / 2, Y: m[1] / 2, Z: m[2] / 2}
	return world.NewAABB(center, half).Translate(e.Offset)
}

// EntityBox returns the world-space AABB of the given struct's entity at
// entityIdx, derived from the class's motion extents (see package doc)
// and the struct's placement. Struct headings are axis-aligned 90° turns
// so the transformed box stays axis-aligned: West/East headings swap the
// local X/Y half-extents rather than requiring a general rotation.
func (c *Collider) EntityBox(s *world.Struct, entityIdx int) world.AABB {
	local := entityBox(&s.Entities[entityIdx])
	center := s.ToAbsoluteCS(local.Center)
	half := local.Half
	if s.Heading == world.West || s.Heading == world.East {
		half = lin.V3{X: half.Y, Y: half.X, Z: half.Z}
	}
	return world.NewAABB(center, half)
}

// boxFromPoints returns the smallest AABB containing both a and b.
func boxFromPoints(a, b lin.V3) world.AABB {
	mn := lin.V3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	mx := lin.V3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	half := lin.V3{X: (mx.X - mn.X) / 2, Y: (mx.Y - mn.Y) / 2, Z: (mx.Z - mn.Z) / 2}
	center := lin.V3{X: mn.X + half.X, Y: mn.Y + half.Y, Z: mn.Z + half.Z}
	return world.NewAABB(center, half)
}

// OverlapsEntity reports whether box intersects the transformed brush of
// the given struct's entity at entityIdx. box is in world space; it is
// converted into the struct's local frame before testing.
func (c *Collider) OverlapsEntity(box world.AABB, structId world.StructId, entityIdx int) bool {
	s := c.w.Structs.Get(structId)
	if s == nil || entityIdx < 0 || entityIdx >= len(s.Entities) {
		return false
	}
	localMin := s.ToStructCS(box.Min())
	localMax := s.ToStructCS(box.Max())
	localBox := boxFromPoints(localMin, localMax)
	return localBox.Overlaps(entityBox(&s.Entities[entityIdx]))
}

// GetOverlaps collects every struct and object whose AABB intersects
// box expanded by margin, matching spec.md §4.C's getOverlaps.
func (c *Collider) GetOverlaps(box world.AABB, margin float64) (structs []world.StructId, objects []world.ObjectId) {
	for _, in := range c.w.Grid.GetInters(box, margin) {
		switch in.Kind {
		case world.InStruct:
			structs = append(structs, in.StructId)
		case world.InObject:
			objects = append(objects, in.ObjectId)
		}
	}
	return structs, objects
}

// Translate sweeps box along move and returns the unobstructed portion
// of the move plus a Hit describing what, if anything, stopped it.
// mask restricts which object flags are considered solid; pass
// world.SolidBit for the default, or ^world.ObjectFlags(0) to also catch
// normally pass-through objects (the crusher handler's use case,
// spec.md §4.C).
func (c *Collider) Translate(box world.AABB, move lin.V3, ignore world.ObjectId, mask world.ObjectFlags) (lin.V3, Hit) {
	best := Hit{Ratio: 1, Struct: world.NilStruct, Object: world.NilObject, Entity: -1}
	swept := box.Union(box.Translate(move))
	swept = swept.Expand(candidateMargin)

	for _, in := range c.w.Grid.GetInters(swept, 0) {
		switch in.Kind {
		case world.InStruct:
			s := c.w.Structs.Get(in.StructId)
			if s == nil {
				continue
			}
			if ratio, normal, ok := sweepAABB(box, move, s.AABB()); ok && better(ratio, best.Ratio, in.StructId, best.Struct) {
				best = Hit{Ratio: ratio, Normal: normal, Struct: in.StructId, Object: world.NilObject, Entity: -1}
			}
		case world.InObject:
			if in.ObjectId == ignore {
				continue
			}
			o := c.w.Objects.Get(in.ObjectId)
			if o == nil || o.Flags&mask == 0 {
				continue
			}
			if ratio, normal, ok := sweepAABB(box, move, o.AABB()); ok && better(ratio, best.Ratio, uint32(in.ObjectId), uint32(best.Object)) {
				best = Hit{Ratio: ratio, Normal: normal, Struct: world.NilStruct, Object: in.ObjectId, Entity: -1}
			}
		}
	}
	final := lin.V3{X: move.X * best.Ratio, Y: move.Y * best.Ratio, Z: move.Z * best.Ratio}
	return final, best
}

// better breaks a ratio tie by preferring the lowest id, matching
// spec.md §4.C's tie-break rule.
func better[T ~uint32](ratio, bestRatio float64, id, bestId T) bool {
	if ratio < bestRatio {
		return true
	}
	if ratio == bestRatio && id < bestId {
		return true
	}
	return false
}

// sweepAABB performs the slab method: box, swept by move, against the
// static obstacle's AABB. Returns the entry ratio in [0,1], the struck
// face normal, and whether a hit occurred within the move.
func sweepAABB(box world.AABB, move lin.V3, obstacle world.AABB) (ratio float64, normal lin.V3, hit bool) {
	// Minkowski-sum the obstacle by box's half-extents so the swept box
	// can be treated as a point (origin-anchored ray) against it.
	sum := world.NewAABB(obstacle.Center, lin.V3{
		X: obstacle.Half.X + box.Half.X,
		Y: obstacle.Half.Y + box.Half.Y,
		Z: obstacle.Half.Z + box.Half.Z,
	})
	mn, mx := sum.Min(), sum.Max()
	origin := box.Center

	entry, exit := 0.0, 1.0
	entryAxis := -1
	entrySign := 1.0

	axes := [3]struct {
		o, d, lo, hi float64
	}{
		{origin.X, move.X, mn.X, mx.X},
		{origin.Y, move.Y, mn.Y, mx.Y},
		{origin.Z, move.Z, mn.Z, mx.Z},
	}
	for i, a := range axes {
		if math.Abs(a.d) < world.Epsilon {
			if a.o < a.lo || a.o > a.hi {
				return 0, lin.V3{}, false
			}
			continue
		}
		t1 := (a.lo - a.o) / a.d
		t2 := (a.hi - a.o) / a.d
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > entry {
			entry = t1
			entryAxis = i
			entrySign = sign
		}
		if t2 < exit {
			exit = t2
		}
	}
	if entryAxis < 0 || entry > exit || entry < 0 || entry > 1 {
		return 0, lin.V3{}, false
	}
	switch entryAxis {
	case 0:
		normal = lin.V3{X: entrySign}
	case 1:
		normal = lin.V3{Y: entrySign}
	case 2:
		normal = lin.V3{Z: entrySign}
	}
	return entry, normal, true
}
