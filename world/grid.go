// Copyright © 2024 Galvanized Logic Inc.

package world

// grid.go is the world's uniform spatial index (component A), generalized
// from the teacher's 2D maze/skirmish grid (grid/grid.go): instead of a
// fixed [][]*cell of walls and floors, this grid buckets arbitrary AABB
// occupants (structs, objects, fragments) into cube cells of CellSize on a
// side, keyed by integer cell coordinate rather than a dense 2D array,
// since the world spans a much larger and sparser volume than a maze.

import "github.com/ozcore/openzone/math/lin"

// cellKey addresses one cube cell of the spatial index.
type cellKey struct{ x, y, z int32 }

func cellOf(p lin.V3) cellKey {
	return cellKey{
		x: int32(floorDiv(p.X, CellSize)),
		y: int32(floorDiv(p.Y, CellSize)),
		z: int32(floorDiv(p.Z, CellSize)),
	}
}

func floorDiv(v, size float64) int64 {
	q := v / size
	iq := int64(q)
	if q < 0 && float64(iq) != q {
		iq--
	}
	return iq
}

// occupant is a grid member: a handle (Struct/Object/Frag, tagged by kind)
// plus the AABB it currently occupies, needed to recompute its cell span
// on move without consulting the owning dense array.
type occupant struct {
	kind occKind
	id   uint32
	box  AABB
}

type occKind uint8

const (
	occStruct occKind = iota
	occObject
	occFrag
)

// occID packs kind and handle into one map key so the three id spaces
// (StructId/ObjectId/FragId) can share a single occupant index without
// colliding, even though each is independently generation-counted.
type occID struct {
	kind occKind
	id   uint32
}

// Grid is the uniform spatial index over every placed Struct, live Object
// and live Fragment. Insert/Move/Erase are amortized O(1) in the number of
// cells an occupant's box spans; GetInters is O(k) in the number of
// occupants found, per spec.md component A.
type Grid struct {
	cells map[cellKey][]occID
	spans map[occID][]cellKey // cells currently occupied by each member, for O(1) move/erase.
}

// NewGrid returns an empty spatial index.
func NewGrid() *Grid {
	return &Grid{cells: make(map[cellKey][]occID), spans: make(map[occID][]cellKey)}
}

func span(box AABB) []cellKey {
	mn, mx := cellOf(box.Min()), cellOf(box.Max())
	keys := make([]cellKey, 0, int(mx.x-mn.x+1)*int(mx.y-mn.y+1)*int(mx.z-mn.z+1))
	for x := mn.x; x <= mx.x; x++ {
		for y := mn.y; y <= mx.y; y++ {
			for z := mn.z; z <= mx.z; z++ {
				keys = append(keys, cellKey{x, y, z})
			}
		}
	}
	return keys
}

func (g *Grid) insert(oid occID, box AABB) {
	keys := span(box)
	for _, k := range keys {
		g.cells[k] = append(g.cells[k], oid)
	}
	g.spans[oid] = keys
}

func (g *Grid) erase(oid occID) {
	keys := g.spans[oid]
	for _, k := range keys {
		bucket := g.cells[k]
		for i, o := range bucket {
			if o == oid {
				bucket[i] = bucket[len(bucket)-1]
				bucket = bucket[:len(bucket)-1]
				break
			}
		}
		if len(bucket) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = bucket
		}
	}
	delete(g.spans, oid)
}

func (g *Grid) move(oid occID, box AABB) {
	newKeys := span(box)
	oldKeys := g.spans[oid]
	if sameSpan(oldKeys, newKeys) {
		return
	}
	g.erase(oid)
	g.insert(oid, box)
}

func sameSpan(a, b []cellKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InsertStruct, InsertObject and InsertFrag add an occupant to the index.
func (g *Grid) InsertStruct(id StructId, box AABB) { g.insert(occID{occStruct, uint32(id)}, box) }
func (g *Grid) InsertObject(id ObjectId, box AABB) { g.insert(occID{occObject, uint32(id)}, box) }
func (g *Grid) InsertFrag(id FragId, box AABB)     { g.insert(occID{occFrag, uint32(id)}, box) }

// MoveStruct, MoveObject and MoveFrag update an occupant's box, relocating
// it between cells only if its cell span actually changed.
func (g *Grid) MoveStruct(id StructId, box AABB) { g.move(occID{occStruct, uint32(id)}, box) }
func (g *Grid) MoveObject(id ObjectId, box AABB) { g.move(occID{occObject, uint32(id)}, box) }
func (g *Grid) MoveFrag(id FragId, box AABB)     { g.move(occID{occFrag, uint32(id)}, box) }

// EraseStruct, EraseObject and EraseFrag remove an occupant from the index.
func (g *Grid) EraseStruct(id StructId) { g.erase(occID{occStruct, uint32(id)}) }
func (g *Grid) EraseObject(id ObjectId) { g.erase(occID{occObject, uint32(id)}) }
func (g *Grid) EraseFrag(id FragId)     { g.erase(occID{occFrag, uint32(id)}) }

// Inters is one hit returned by GetInters: the occupant's kind-tagged
// handle, decoded back into the concrete id type the caller asked for.
type Inters struct {
	StructId StructId // valid when Kind == InStruct.
	ObjectId ObjectId // valid when Kind == InObject.
	FragId   FragId   // valid when Kind == InFrag.
	Kind     InKind
}

type InKind uint8

const (
	InStruct InKind = iota
	InObject
	InFrag
)

// GetInters returns every occupant registered in a cell that query,
// expanded by margin on every side, spans, matching spec.md's
// getInters(point, margin) broadphase primitive. It is a cell-level
// test: callers needing exact box overlap check it themselves. Each
// occupant appears at most once in the result.
func (g *Grid) GetInters(query AABB, margin float64) []Inters {
	q := query.Expand(margin)
	keys := span(q)
	seen := make(map[occID]bool)
	var hits []Inters
	for _, k := range keys {
		for _, oid := range g.cells[k] {
			if seen[oid] {
				continue
			}
			seen[oid] = true
			switch oid.kind {
			case occStruct:
				hits = append(hits, Inters{Kind: InStruct, StructId: StructId(oid.id)})
			case occObject:
				hits = append(hits, Inters{Kind: InObject, ObjectId: ObjectId(oid.id)})
			case occFrag:
				hits = append(hits, Inters{Kind: InFrag, FragId: FragId(oid.id)})
			}
		}
	}
	return hits
}
