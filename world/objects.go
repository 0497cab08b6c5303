// Copyright © 2024 Galvanized Logic Inc.

package world

// objects.go stores every live Object. The original engine's four
// variants (Dynamic/Weapon/Bot/Vehicle) were C++ subclasses; here they
// are one Object struct holding the shared prefix plus a Kind tag and a
// pointer to exactly one populated extension struct, matching
// SPEC_FULL.md §3. Storage is the sparse/dense manager shape lifted from
// simulation.go's bids/bodies/eids triple, generalized from a
// single-field physics.Body to the whole Object value.

import "github.com/ozcore/openzone/math/lin"

// Kind distinguishes the populated extension of an Object.
type Kind uint8

const (
	KindStatic Kind = iota
	KindDynamic
	KindWeapon
	KindBot
	KindVehicle
)

// DynamicExt carries the fields spec.md §3 adds for a Dynamic object.
type DynamicExt struct {
	Velocity lin.V3
	Momentum lin.V3
	Mass     float64
	Lift     float64  // lift factor, used against buoyancy.
	Depth    float64  // submersion depth in the current liquid, 0 if none.
	Lower    ObjectId // object this one is resting on, NilObject if none.
	Friction FrictionMode
	Disabled bool // set once |momentum| < StickVelocity; cleared when disturbed.
}

// WeaponExt carries Dynamic plus the fields for a Weapon object.
type WeaponExt struct {
	Dynamic  DynamicExt
	Rounds   int
	ShotTime float64
	Cooldown float64
}

// BotExt carries Dynamic plus the fields for a Bot object.
type BotExt struct {
	Dynamic DynamicExt
	ViewH   float64 // heading view angle, radians.
	ViewV   float64 // pitch view angle, radians.
	Stamina float64
	State   BotState
	Weapon  ObjectId // currently held weapon, NilObject if unarmed.
	Cargo   ObjectId // carried object, NilObject if nothing held.
	Anim    int      // per-class animation selection.
}

// BotState is a bit field of mutually non-exclusive bot conditions.
type BotState uint32

const (
	BotDead BotState = 1 << iota
	BotCrouching
	BotRunning
	BotSwimming
	BotClimbing
)

// VehicleExt carries Dynamic plus the fields for a Vehicle object.
type VehicleExt struct {
	Dynamic DynamicExt
	Rot     lin.Q // orientation; only yaw is meaningfully driven (spec.md §1 non-goal).
	Weapons []VehicleWeapon
	Pilot   ObjectId
	VType   string
}

// VehicleWeapon is one turret/gun slot on a Vehicle.
type VehicleWeapon struct {
	Rounds   int
	ShotTime float64
}

// Object is the tagged-sum representation of every non-animated world
// entity. Exactly one of Dynamic/Weapon/Bot/Vehicle is non-nil, selected
// by Kind; KindStatic objects leave all four nil.
type Object struct {
	Id        ObjectId
	Class     *ObjectClass
	Position  lin.V3
	Half      lin.V3 // AABB half-dimensions.
	Life      float64
	Flags     ObjectFlags
	Events    EventQueue
	Inventory []ObjectId
	Parent    ObjectId // NilObject if not carried/piloted.
	Kind      Kind

	Dynamic *DynamicExt
	Weapon  *WeaponExt
	Bot     *BotExt
	Vehicle *VehicleExt
}

// ObjectFlags is a bit field of solidity/behaviour flags. Values must
// stay stable for save-file and script compatibility (spec.md §6).
type ObjectFlags uint32

const (
	SolidBit ObjectFlags = 1 << iota
	CylinderBit
	DisabledBit
)

// AABB returns the object's current world-space bounding box.
func (o *Object) AABB() AABB { return NewAABB(o.Position, o.Half) }

// DynExt returns the Dynamic fields shared by Dynamic/Weapon/Bot/Vehicle
// objects, or nil for a KindStatic object.
func (o *Object) DynExt() *DynamicExt {
	switch o.Kind {
	case KindDynamic:
		return o.Dynamic
	case KindWeapon:
		return &o.Weapon.Dynamic
	case KindBot:
		return &o.Bot.Dynamic
	case KindVehicle:
		return &o.Vehicle.Dynamic
	default:
		return nil
	}
}

// objectSlot pairs a live Object with the dense-array bookkeeping needed
// for swap-delete, following simulation.go's bids/bodies/eids pattern.
type objectSlot struct {
	id  ObjectId
	obj Object
}

// Objects is the sparse/dense manager for every live Object.
type Objects struct {
	handles *handleTable
	index   map[ObjectId]int // sparse: handle -> dense slot.
	slots   []objectSlot      // dense.
	grid    *Grid
}

// NewObjects returns an empty object manager bound to grid for spatial
// membership maintenance.
func NewObjects(grid *Grid) *Objects {
	return &Objects{
		handles: newHandleTable("object", MaxObjects),
		index:   make(map[ObjectId]int),
		grid:    grid,
	}
}

// Create allocates a new Object slot and inserts it into the grid.
// Returns NilObject if the object table is at capacity.
func (os *Objects) Create(obj Object) ObjectId {
	h := os.handles.create()
	if h == 0 {
		return NilObject
	}
	id := ObjectId(h)
	obj.Id = id
	os.index[id] = len(os.slots)
	os.slots = append(os.slots, objectSlot{id: id, obj: obj})
	os.grid.InsertObject(id, obj.AABB())
	return id
}

// Get returns a pointer to the live object for id, or nil if id is
// stale or was never allocated. The pointer is valid until the next
// Destroy call triggers a swap-delete.
func (os *Objects) Get(id ObjectId) *Object {
	i, ok := os.index[id]
	if !ok {
		return nil
	}
	return &os.slots[i].obj
}

// Valid reports whether id still refers to a live object.
func (os *Objects) Valid(id ObjectId) bool { return os.handles.valid(uint32(id)) }

// Move updates an object's position and synchronizes grid membership.
func (os *Objects) Move(id ObjectId, pos lin.V3) {
	o := os.Get(id)
	if o == nil {
		return
	}
	o.Position = pos
	os.grid.MoveObject(id, o.AABB())
}

// Destroy removes an object, swap-deleting its dense slot and erasing
// its grid membership and handle.
func (os *Objects) Destroy(id ObjectId) {
	i, ok := os.index[id]
	if !ok {
		return
	}
	os.grid.EraseObject(id)
	last := len(os.slots) - 1
	os.slots[i] = os.slots[last]
	os.slots = os.slots[:last]
	if i != last {
		os.index[os.slots[i].id] = i
	}
	delete(os.index, id)
	os.handles.erase(uint32(id))
}

// Len returns the number of live objects.
func (os *Objects) Len() int { return len(os.slots) }

// Each calls fn for every live object, in dense storage order. fn must
// not create or destroy objects.
func (os *Objects) Each(fn func(*Object)) {
	for i := range os.slots {
		fn(&os.slots[i].obj)
	}
}
