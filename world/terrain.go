// Copyright © 2024 Galvanized Logic Inc.

package world

// terrain.go is the VERTS x VERTS regular heightmap (spec.md §3 Terrain),
// built on top of the teacher's land package (land/topo.go, land/noise.go)
// for the actual height generation instead of a hand-rolled noise
// function.

import (
	"math"

	"github.com/ozcore/openzone/land"
	"github.com/ozcore/openzone/math/lin"
)

// Verts is the terrain's per-axis vertex count.
const Verts = 128

// TerrainCell caches the height at one vertex plus the two triangle
// normals of the quad whose low corner is this vertex, so the collider
// never recomputes a cross product per query.
type TerrainCell struct {
	Height   float64
	NormalA  lin.V3 // normal of the first triangle of the quad (low-x/low-y corner).
	NormalB  lin.V3 // normal of the second triangle.
}

// Terrain is the world's ground heightmap and optional liquid plane.
type Terrain struct {
	Cells      [Verts][Verts]TerrainCell
	Scale      float64 // world units spanned by one cell side.
	HasLiquid  bool
	LiquidZ    float64
	LiquidName string
}

// GenerateTerrain builds a Terrain by sampling land.Generate at seed and
// deriving the two triangle normals per quad.
func GenerateTerrain(seed int64, scale float64) *Terrain {
	topo := land.Generate(Verts, Verts, seed)
	t := &Terrain{Scale: scale}
	for x := 0; x < Verts; x++ {
		for y := 0; y < Verts; y++ {
			t.Cells[x][y].Height = topo[x][y] * scale
		}
	}
	for x := 0; x < Verts-1; x++ {
		for y := 0; y < Verts-1; y++ {
			t.Cells[x][y].NormalA, t.Cells[x][y].NormalB = t.quadNormals(x, y)
		}
	}
	return t
}

func (t *Terrain) vertex(x, y int) lin.V3 {
	return lin.V3{X: float64(x) * t.Scale, Y: float64(y) * t.Scale, Z: t.Cells[x][y].Height}
}

// quadNormals derives the two triangle normals for the quad whose low
// corner is (x, y): (x,y)-(x+1,y)-(x,y+1) and (x+1,y)-(x+1,y+1)-(x,y+1).
func (t *Terrain) quadNormals(x, y int) (a, b lin.V3) {
	p00 := t.vertex(x, y)
	p10 := t.vertex(x+1, y)
	p01 := t.vertex(x, y+1)
	p11 := t.vertex(x+1, y+1)

	e1 := lin.V3{X: p10.X - p00.X, Y: p10.Y - p00.Y, Z: p10.Z - p00.Z}
	e2 := lin.V3{X: p01.X - p00.X, Y: p01.Y - p00.Y, Z: p01.Z - p00.Z}
	a = normalize(cross(e1, e2))

	e3 := lin.V3{X: p11.X - p10.X, Y: p11.Y - p10.Y, Z: p11.Z - p10.Z}
	e4 := lin.V3{X: p01.X - p10.X, Y: p01.Y - p10.Y, Z: p01.Z - p10.Z}
	b = normalize(cross(e3, e4))
	return a, b
}

func cross(a, b lin.V3) lin.V3 {
	return lin.V3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}

func normalize(v lin.V3) lin.V3 {
	l := v.X*v.X + v.Y*v.Y + v.Z*v.Z
	if l == 0 {
		return v
	}
	inv := 1 / math.Sqrt(l)
	return lin.V3{X: v.X * inv, Y: v.Y * inv, Z: v.Z * inv}
}

// HeightAt returns the terrain height at the low corner vertex of the
// quad containing world position (wx, wy), without interpolation; the collider's slab test only needs the
// containing quad's cached normal, not a smoothly interpolated height.
func (t *Terrain) HeightAt(wx, wy float64) float64 {
	x := int(wx / t.Scale)
	y := int(wy / t.Scale)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= Verts {
		x = Verts - 1
	}
	if y >= Verts {
		y = Verts - 1
	}
	return t.Cells[x][y].Height
}

// SetLiquid configures a flat liquid plane at z for the named liquid
// type (e.g. "water", "lava").
func (t *Terrain) SetLiquid(name string, z float64) {
	t.HasLiquid = true
	t.LiquidName = name
	t.LiquidZ = z
}
