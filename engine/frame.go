// Copyright © 2024 Galvanized Logic Inc.

package engine

import (
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// Frame is the read-only snapshot exposed after phase 3 each tick for
// the renderer and audio presenter to consume without mutating
// (spec.md §6 "Renderer/audio handoff").
type Frame struct {
	Camera    lin.T
	Structs   []StructFrame
	Objects   []ObjectFrame
	Fragments []FragmentFrame
	Events    []world.Event
}

// StructFrame is one struct's render-relevant state for a Frame.
type StructFrame struct {
	Id        world.StructId
	Transform lin.T
}

// ObjectFrame is one object's render-relevant state for a Frame.
type ObjectFrame struct {
	Id       world.ObjectId
	Position lin.V3
	Kind     world.Kind
	Anim     int // bot animation selection, 0 for non-bot kinds.
}

// FragmentFrame is one fragment's render-relevant state for a Frame.
type FragmentFrame struct {
	Id       world.FragId
	Position lin.V3
}

// buildFrame captures the current world state into a Frame. Called once
// per tick at the end of phase 3, after aux has flushed pending spawn/
// destroy commands.
func buildFrame(w *world.World, camera lin.T, events []world.Event) Frame {
	f := Frame{Camera: camera, Events: events}
	w.Structs.Each(func(s *world.Struct) {
		f.Structs = append(f.Structs, StructFrame{Id: s.Id, Transform: s.Transform})
	})
	w.Objects.Each(func(o *world.Object) {
		anim := 0
		if o.Kind == world.KindBot && o.Bot != nil {
			anim = o.Bot.Anim
		}
		f.Objects = append(f.Objects, ObjectFrame{Id: o.Id, Position: o.Position, Kind: o.Kind, Anim: anim})
	})
	w.Frags.Each(func(fr *world.Fragment) (destroy bool) {
		f.Fragments = append(f.Fragments, FragmentFrame{Id: fr.Id, Position: fr.Position})
		return false
	})
	return f
}
