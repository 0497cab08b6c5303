// Copyright © 2024 Galvanized Logic Inc.

package world

// aabb.go is an axis aligned bounding box, generalized from the engine's
// older physics/shape.go Abox (Sx,Sy,Sz/Lx,Ly,Lz corner form) to the
// center/half-extent form the data model needs (Struct, Object and
// Fragment all carry a position plus half-dimensions).

import "github.com/ozcore/openzone/math/lin"

// AABB is an axis aligned bounding box described by its center and the
// half length of each side.
type AABB struct {
	Center lin.V3
	Half   lin.V3
}

// NewAABB returns a box centered at c with half-extents h.
func NewAABB(c, h lin.V3) AABB { return AABB{Center: c, Half: h} }

// Min is the smallest corner of the box.
func (a AABB) Min() lin.V3 {
	return lin.V3{X: a.Center.X - a.Half.X, Y: a.Center.Y - a.Half.Y, Z: a.Center.Z - a.Half.Z}
}

// Max is the largest corner of the box.
func (a AABB) Max() lin.V3 {
	return lin.V3{X: a.Center.X + a.Half.X, Y: a.Center.Y + a.Half.Y, Z: a.Center.Z + a.Half.Z}
}

// Expand returns the box grown by margin on every side. A negative margin
// shrinks the box.
func (a AABB) Expand(margin float64) AABB {
	return AABB{Center: a.Center, Half: lin.V3{X: a.Half.X + margin, Y: a.Half.Y + margin, Z: a.Half.Z + margin}}
}

// Translate returns the box moved by d.
func (a AABB) Translate(d lin.V3) AABB {
	c := a.Center
	c.X += d.X
	c.Y += d.Y
	c.Z += d.Z
	return AABB{Center: c, Half: a.Half}
}

// Overlaps returns true if a and b intersect on every axis. Boxes that
// only touch along a point, edge or face are not considered overlapping,
// matching physics/shape.go's original Abox.Overlaps semantics.
func (a AABB) Overlaps(b AABB) bool {
	amin, amax := a.Min(), a.Max()
	bmin, bmax := b.Min(), b.Max()
	return amax.X > bmin.X && amin.X < bmax.X &&
		amax.Y > bmin.Y && amin.Y < bmax.Y &&
		amax.Z > bmin.Z && amin.Z < bmax.Z
}

// Contains returns true if point p is inside the box, edges inclusive.
func (a AABB) Contains(p lin.V3) bool {
	mn, mx := a.Min(), a.Max()
	return p.X >= mn.X && p.X <= mx.X && p.Y >= mn.Y && p.Y <= mx.Y && p.Z >= mn.Z && p.Z <= mx.Z
}

// Union returns the smallest box enclosing both a and b.
func (a AABB) Union(b AABB) AABB {
	amin, amax := a.Min(), a.Max()
	bmin, bmax := b.Min(), b.Max()
	mn := lin.V3{X: min64(amin.X, bmin.X), Y: min64(amin.Y, bmin.Y), Z: min64(amin.Z, bmin.Z)}
	mx := lin.V3{X: max64(amax.X, bmax.X), Y: max64(amax.Y, bmax.Y), Z: max64(amax.Z, bmax.Z)}
	half := lin.V3{X: (mx.X - mn.X) / 2, Y: (mx.Y - mn.Y) / 2, Z: (mx.Z - mn.Z) / 2}
	center := lin.V3{X: mn.X + half.X, Y: mn.Y + half.Y, Z: mn.Z + half.Z}
	return AABB{Center: center, Half: half}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
