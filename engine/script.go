// Copyright © 2024 Galvanized Logic Inc.

package engine

import "github.com/ozcore/openzone/world"

// ScriptHost is the narrow contract the simulation calls into at fixed
// hook points (spec.md §6: "the simulation does not call into Lua except
// at declared hook points"). No Lua engine is vendored; a concrete host
// implementation (e.g. backed by a Lua VM) is a collaborator, out of
// scope here.
type ScriptHost interface {
	// OnCreate fires once at mission init.
	OnCreate(w *world.World) error

	// OnUpdate fires once per tick during phase 1, world read-only.
	OnUpdate(w *world.World) error

	// OnDestroy, OnDamage, OnHit, OnUse, OnShot are class-declared
	// per-object handlers, invoked during phase 3: OnDestroy when a
	// queued destroy is flushed, the others when the tick's drained
	// events are dispatched.
	OnDestroy(w *world.World, obj world.ObjectId) error
	OnDamage(w *world.World, obj world.ObjectId, amount float64) error
	OnHit(w *world.World, obj world.ObjectId, other world.ObjectId) error
	OnUse(w *world.World, obj world.ObjectId, user world.ObjectId) error
	OnShot(w *world.World, weapon world.ObjectId, target world.ObjectId) error
}

// NullScriptHost implements ScriptHost with no-ops, used when a mission
// declares no scripting.
type NullScriptHost struct{}

func (NullScriptHost) OnCreate(*world.World) error { return nil }
func (NullScriptHost) OnUpdate(*world.World) error { return nil }
func (NullScriptHost) OnDestroy(*world.World, world.ObjectId) error { return nil }
func (NullScriptHost) OnDamage(*world.World, world.ObjectId, float64) error { return nil }
func (NullScriptHost) OnHit(*world.World, world.ObjectId, world.ObjectId) error { return nil }
func (NullScriptHost) OnUse(*world.World, world.ObjectId, world.ObjectId) error { return nil }
func (NullScriptHost) OnShot(*world.World, world.ObjectId, world.ObjectId) error { return nil }
