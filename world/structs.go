// Copyright © 2024 Galvanized Logic Inc.

package world

// structs.go stores placed Struct instances: an instantiated StructClass
// (BSP) plus its own position, heading, life/demolition state and the
// animated Entity sub-parts fsm.go drives. Storage follows the same
// sparse/dense handle-table shape as Objects.

import (
	"math"

	"github.com/ozcore/openzone/math/lin"
)

// Heading is one of the four cardinal struct rotations.
type Heading uint8

const (
	North Heading = iota
	West
	South
	East
)

func (h Heading) radians() float64 { return float64(h) * math.Pi / 2 }

// Struct is a placed instance of an immutable StructClass.
type Struct struct {
	Id           StructId
	Class        *StructClass
	Position     lin.V3
	Heading      Heading
	Life         float64
	Resistance   float64
	Demolishing  bool
	DemolishZ    float64 // current sink offset while demolishing, 0 at the top.
	Transform    lin.T
	InvTransform lin.T
	Entities     []Entity
	BoundObjects []ObjectId // dynamic objects bound to this struct (e.g. elevator riders).
}

// AABB returns the struct's world-space bounding box.
func (s *Struct) AABB() AABB {
	half := lin.V3{X: s.Class.HalfX, Y: s.Class.HalfY, Z: s.Class.HalfZ}
	return NewAABB(s.Position, half)
}

// refreshTransform recomputes Transform/InvTransform from Position and
// Heading, keeping the invariant "(Position, Heading) agree with
// Transform/InvTransform" (spec.md §3).
func (s *Struct) refreshTransform() {
	rot := lin.NewQ().SetAa(0, 0, 1, s.Heading.radians())
	s.Transform = *lin.NewT().SetLoc(s.Position.X, s.Position.Y, s.Position.Z).SetRot(rot.X, rot.Y, rot.Z, rot.W)

	invRot := lin.NewQ().SetS(-rot.X, -rot.Y, -rot.Z, rot.W)
	lx, ly, lz := lin.MultSQ(-s.Position.X, -s.Position.Y, -s.Position.Z, invRot)
	s.InvTransform = *lin.NewT().SetLoc(lx, ly, lz).SetRot(invRot.X, invRot.Y, invRot.Z, invRot.W)
}

// ToStructCS converts a world-space vector into this struct's local
// coordinate space.
func (s *Struct) ToStructCS(v lin.V3) lin.V3 {
	x, y, z := s.InvTransform.AppS(v.X, v.Y, v.Z)
	return lin.V3{X: x, Y: y, Z: z}
}

// ToAbsoluteCS converts a struct-local vector into world space.
func (s *Struct) ToAbsoluteCS(v lin.V3) lin.V3 {
	x, y, z := s.Transform.AppS(v.X, v.Y, v.Z)
	return lin.V3{X: x, Y: y, Z: z}
}

// BeginDemolish marks the struct for destruction: life drops to zero and
// subsequent ticks sink it until it clears its own base (spec.md §4.B).
func (s *Struct) BeginDemolish() {
	s.Life = 0
	s.Demolishing = true
}

// StepDemolish advances demolition sinking by one tick. Returns true
// once the struct has fully sunk below its base and should be removed.
func (s *Struct) StepDemolish() bool {
	if !s.Demolishing {
		return false
	}
	s.DemolishZ += DemolishSpeed * Tick
	s.Position.Z -= DemolishSpeed * Tick
	s.refreshTransform()
	return s.DemolishZ >= 2*s.Class.HalfZ
}

// structSlot pairs a live Struct with its dense-array bookkeeping.
type structSlot struct {
	id StructId
	st Struct
}

// Structs is the sparse/dense manager for every placed Struct.
type Structs struct {
	handles *handleTable
	index   map[StructId]int
	slots   []structSlot
	grid    *Grid
}

// NewStructs returns an empty struct manager bound to grid.
func NewStructs(grid *Grid) *Structs {
	return &Structs{handles: newHandleTable("struct", MaxStructs), index: make(map[StructId]int), grid: grid}
}

// Create places a new Struct instance of class at position/heading.
// Returns NilStruct if the struct table is at capacity.
func (ss *Structs) Create(class *StructClass, heading Heading, position lin.V3) StructId {
	h := ss.handles.create()
	if h == 0 {
		return NilStruct
	}
	id := StructId(h)
	st := Struct{Id: id, Class: class, Position: position, Heading: heading, Life: class.Life, Resistance: class.Resistance}
	st.Entities = make([]Entity, len(class.Entities))
	for i := range class.Entities {
		ec := class.Entities[i]
		st.Entities[i] = Entity{Class: &ec}
	}
	st.refreshTransform()
	ss.index[id] = len(ss.slots)
	ss.slots = append(ss.slots, structSlot{id: id, st: st})
	ss.grid.InsertStruct(id, st.AABB())
	return id
}

// Get returns a pointer to the live struct for id, or nil.
func (ss *Structs) Get(id StructId) *Struct {
	i, ok := ss.index[id]
	if !ok {
		return nil
	}
	return &ss.slots[i].st
}

// Valid reports whether id still refers to a live struct.
func (ss *Structs) Valid(id StructId) bool { return ss.handles.valid(uint32(id)) }

// Destroy removes a struct, swap-deleting its dense slot.
func (ss *Structs) Destroy(id StructId) {
	i, ok := ss.index[id]
	if !ok {
		return
	}
	ss.grid.EraseStruct(id)
	last := len(ss.slots) - 1
	ss.slots[i] = ss.slots[last]
	ss.slots = ss.slots[:last]
	if i != last {
		ss.index[ss.slots[i].id] = i
	}
	delete(ss.index, id)
	ss.handles.erase(uint32(id))
}

// SyncGrid re-registers id's current AABB with the grid, used after a
// struct moves (demolition sinking).
func (ss *Structs) SyncGrid(id StructId) {
	if st := ss.Get(id); st != nil {
		ss.grid.MoveStruct(id, st.AABB())
	}
}

// Len returns the number of live structs.
func (ss *Structs) Len() int { return len(ss.slots) }

// AtIndex returns the struct at dense position i, or nil if i is out of
// range. Positions are only stable within a single phase 2 step (a
// Destroy reorders the dense array via swap-delete); callers that resolve
// an index and act on it in the same step, as Trigger's target lookup
// does, are unaffected.
func (ss *Structs) AtIndex(i int) *Struct {
	if i < 0 || i >= len(ss.slots) {
		return nil
	}
	return &ss.slots[i].st
}

// Each calls fn for every live struct, in dense storage order. fn must
// not create or destroy structs.
func (ss *Structs) Each(fn func(*Struct)) {
	for i := range ss.slots {
		fn(&ss.slots[i].st)
	}
}
