// Copyright © 2024 Galvanized Logic Inc.

package world

// world.go ties together the spatial grid, the three entity managers and
// the terrain into the single object the tick pipeline (engine package)
// mutates during phase 2.

import "fmt"

// World is the complete deterministic simulation state for one mission.
type World struct {
	Seed    int64
	Classes *ClassBook
	Grid    *Grid
	Structs *Structs
	Objects *Objects
	Frags   *Fragments
	Terrain *Terrain
}

// New creates an empty world bound to classes, with terrain generated
// from seed.
func New(classes *ClassBook, seed int64, terrainScale float64) *World {
	grid := NewGrid()
	return &World{
		Seed:    seed,
		Classes: classes,
		Grid:    grid,
		Structs: NewStructs(grid),
		Objects: NewObjects(grid),
		Frags:   NewFragments(grid),
		Terrain: GenerateTerrain(seed, terrainScale),
	}
}

// DrainEvents collects and clears every object's queued events, giving
// the tick pipeline a single flat batch to hand to the audio presenter
// (spec.md §4.F: "events produced in phase 2 are consumed... in the
// next main-thread phase 1").
func (w *World) DrainEvents() []Event {
	var out []Event
	w.Objects.Each(func(o *Object) {
		for _, ev := range o.Events.Drain() {
			ev.Object = o.Id
			out = append(out, ev)
		}
	})
	return out
}

// CheckInvariants validates the cross-cutting invariants spec.md §3
// requires hold after every tick. It is meant for debug builds and
// tests, not the steady-state tick path.
func (w *World) CheckInvariants() error {
	var err error
	w.Objects.Each(func(o *Object) {
		if dyn := o.DynExt(); dyn != nil && dyn.Lower != NilObject {
			lower := w.Objects.Get(dyn.Lower)
			if lower == nil || !o.AABB().Overlaps(lower.AABB()) {
				err = fmt.Errorf("object %d: lower %d does not exist or no longer overlaps", o.Id, dyn.Lower)
			}
		}
	})
	if err != nil {
		return err
	}
	w.Structs.Each(func(s *Struct) {
		for _, oid := range s.BoundObjects {
			if !w.Objects.Valid(oid) {
				err = fmt.Errorf("struct %d: bound object %d is not live", s.Id, oid)
			}
		}
		for i := range s.Entities {
			e := &s.Entities[i]
			if e.Ratio < 0 || e.Ratio > 1 {
				err = fmt.Errorf("struct %d entity %d: ratio %f out of [0,1]", s.Id, i, e.Ratio)
			}
		}
	})
	return err
}
