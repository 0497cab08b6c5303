// Copyright © 2024 Galvanized Logic Inc.

package world

// fragment.go stores lightweight debris particles (spec.md §3 Fragment).
// Fragments never collide with each other; their physics loop (physics
// package) sweeps each one once per tick against solid structs and any
// object carrying SolidBit, which is simpler than a Dynamic object's.

import "github.com/ozcore/openzone/math/lin"

// FragClass is the immutable description of one kind of Fragment.
type FragClass struct {
	Name        string  `yaml:"name"`
	Life        float64 `yaml:"life"`
	Restitution float64 `yaml:"restitution"` // 0 expires on first hit, >0 bounces.
}

// Fragment is one live piece of debris.
type Fragment struct {
	Id       FragId
	Class    *FragClass
	Position lin.V3
	Velocity lin.V3
	Life     float64 // remaining lifetime in seconds.
}

// AABB returns a point-sized bounding box at the fragment's position,
// sufficient for grid membership and static-geometry collision tests.
func (f *Fragment) AABB() AABB { return NewAABB(f.Position, lin.V3{}) }

type fragSlot struct {
	id   FragId
	frag Fragment
}

// Fragments is the sparse/dense manager for every live Fragment.
type Fragments struct {
	handles *handleTable
	index   map[FragId]int
	slots   []fragSlot
	grid    *Grid
}

// NewFragments returns an empty fragment manager bound to grid.
func NewFragments(grid *Grid) *Fragments {
	return &Fragments{handles: newHandleTable("fragment", MaxFrags), index: make(map[FragId]int), grid: grid}
}

// Create spawns a fragment. Returns NilFrag if the fragment table is at
// capacity.
func (fs *Fragments) Create(class *FragClass, pos, vel lin.V3) FragId {
	h := fs.handles.create()
	if h == 0 {
		return NilFrag
	}
	id := FragId(h)
	frag := Fragment{Id: id, Class: class, Position: pos, Velocity: vel, Life: class.Life}
	fs.index[id] = len(fs.slots)
	fs.slots = append(fs.slots, fragSlot{id: id, frag: frag})
	fs.grid.InsertFrag(id, frag.AABB())
	return id
}

// Get returns a pointer to the live fragment for id, or nil.
func (fs *Fragments) Get(id FragId) *Fragment {
	i, ok := fs.index[id]
	if !ok {
		return nil
	}
	return &fs.slots[i].frag
}

// Move updates a fragment's position and resyncs grid membership.
func (fs *Fragments) Move(id FragId, pos lin.V3) {
	f := fs.Get(id)
	if f == nil {
		return
	}
	f.Position = pos
	fs.grid.MoveFrag(id, f.AABB())
}

// Destroy removes a fragment, swap-deleting its dense slot.
func (fs *Fragments) Destroy(id FragId) {
	i, ok := fs.index[id]
	if !ok {
		return
	}
	fs.grid.EraseFrag(id)
	last := len(fs.slots) - 1
	fs.slots[i] = fs.slots[last]
	fs.slots = fs.slots[:last]
	if i != last {
		fs.index[fs.slots[i].id] = i
	}
	delete(fs.index, id)
	fs.handles.erase(uint32(id))
}

// Len returns the number of live fragments.
func (fs *Fragments) Len() int { return len(fs.slots) }

// Each calls fn for every live fragment, in dense storage order. fn may
// request destruction via the returned bool; destruction is applied
// after iteration completes to keep dense indices stable mid-scan.
func (fs *Fragments) Each(fn func(*Fragment) (destroy bool)) {
	var dead []FragId
	for i := range fs.slots {
		if fn(&fs.slots[i].frag) {
			dead = append(dead, fs.slots[i].id)
		}
	}
	for _, id := range dead {
		fs.Destroy(id)
	}
}
