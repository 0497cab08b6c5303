// Copyright © 2024 Galvanized Logic Inc.

package world

// events.go defines the object lifecycle events raised during a tick
// (spec.md §4.B) and the per-object queue that carries them from phase 2
// to the audio presenter in the following phase 1 (one-tick latency,
// spec.md §4.F). Event kind values are part of the Lua-visible constant
// surface (spec.md §6) and must keep stable integer values.

// EventKind enumerates the events an Object can raise in a tick.
type EventKind uint8

const (
	EvCreate EventKind = iota
	EvDestroy
	EvDamage
	EvHit
	EvSplash
	EvFricting
	EvUse
	EvJump
	EvLand
	EvStep
	EvShot
	EvShotEmpty
	EvEngine
)

// Event is one occurrence raised against an object during a tick.
// Object is left zero by Push (the queue's owner is implicit) and filled
// in by World.DrainEvents, which knows which object's queue it is
// draining; that lets downstream consumers (engine.Pipeline's script
// dispatch, the audio presenter) attribute an event to its object.
type Event struct {
	Kind      EventKind
	Intensity float64
	Object    ObjectId
}

// EventQueue holds events raised this tick for one object. World.DrainEvents
// empties it once per tick during phase 3, handing the batch to script
// dispatch and to the Frame the audio presenter reads, matching "events
// are consumed once per tick" (spec.md §4.B).
type EventQueue struct {
	events []Event
}

// Push appends an event to the queue.
func (q *EventQueue) Push(kind EventKind, intensity float64) {
	q.events = append(q.events, Event{Kind: kind, Intensity: intensity})
}

// Drain returns and clears the queued events.
func (q *EventQueue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}
