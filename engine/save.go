// Copyright © 2024 Galvanized Logic Inc.

package engine

// save.go implements spec.md §4.F's save/restore: the entire simulation
// state serialises to a length-prefixed little-endian binary stream
// (encoding/binary, following load/wav.go's binary.Read/Write idiom),
// with variable-length class-name lookups resolved through the mission's
// ClassBook at Load. A pending save is meant to be flushed before
// teardown (spec.md §5's cancellation sequence); Save/Load themselves
// are synchronous and make no assumption about which goroutine calls
// them, so callers should only invoke them between pipeline ticks.

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// saveMagic tags the stream as an openzone save file before any
// version/content is trusted.
const saveMagic = "OZSV"

// saveVersion is the layout tag spec.md §6 calls "the build string";
// loading a file whose tag does not match is a hard ErrSaveVersionMismatch.
const saveVersion = "v1"

// SaveState is the save metadata the world itself does not own: the run
// identifier disambiguating autosaves (ambient addition, spec.md §4.F),
// the sky, the camera, and the free-form quest/script globals a Lua
// layer would otherwise own (spec.md §1/§6 non-goal: no Lua engine is
// vendored, so these travel as opaque name/value pairs).
type SaveState struct {
	RunID      uuid.UUID
	Caelum     CaelumState
	Camera     lin.T
	Quest      map[string]string
	LuaGlobals map[string]string // oz_* prefixed globals, spec.md §4.F.
}

// Save writes w, m and state as one binary stream to out.
func Save(out io.Writer, w *world.World, m *Mission, state SaveState) error {
	bw := &binWriter{w: out}
	bw.raw([]byte(saveMagic))
	bw.str(saveVersion)
	bw.raw(state.RunID[:])

	bw.str(m.Name)
	bw.str(m.Terrain)
	bw.i64(w.Seed)
	bw.f64(w.Terrain.Scale)
	bw.f64(state.Caelum.SunAngle)
	bw.f64(state.Caelum.TimeOfDay)
	bw.transform(state.Camera)
	bw.strMap(state.Quest)
	bw.strMap(state.LuaGlobals)

	bw.u32(uint32(w.Structs.Len()))
	w.Structs.Each(func(s *world.Struct) { bw.writeStruct(s) })

	bw.u32(uint32(w.Objects.Len()))
	w.Objects.Each(func(o *world.Object) { bw.writeObject(o) })

	bw.u32(uint32(w.Frags.Len()))
	w.Frags.Each(func(f *world.Fragment) (destroy bool) { bw.writeFrag(f); return false })

	return bw.err
}

// Load restores a World, its originating Mission and SaveState from a
// stream written by Save. Unknown struct/object class names and a
// version mismatch are both refused per spec.md §4.F/§6; terrain is
// regenerated deterministically from the saved seed and scale rather
// than stored wholesale.
func Load(in io.Reader, classes *world.ClassBook) (*world.World, *Mission, SaveState, error) {
	br := &binReader{r: in}

	magic := br.raw(len(saveMagic))
	if br.err == nil && string(magic) != saveMagic {
		return nil, nil, SaveState{}, newErr(ErrSaveCorrupt, "Load", fmt.Errorf("bad magic %q", magic))
	}
	version := br.str()
	if br.err == nil && version != saveVersion {
		return nil, nil, SaveState{}, newErr(ErrSaveVersionMismatch, "Load", fmt.Errorf("save version %q, want %q", version, saveVersion))
	}
	var state SaveState
	copy(state.RunID[:], br.raw(len(state.RunID)))

	m := &Mission{Name: br.str(), Terrain: br.str()}
	seed := br.i64()
	terrainScale := br.f64()
	state.Caelum.SunAngle = br.f64()
	state.Caelum.TimeOfDay = br.f64()
	state.Camera = br.transform()
	state.Quest = br.strMap()
	state.LuaGlobals = br.strMap()
	if br.err != nil {
		return nil, nil, SaveState{}, newErr(ErrSaveCorrupt, "Load", br.err)
	}

	w := world.New(classes, seed, terrainScale)

	structCount := br.u32()
	for i := uint32(0); i < structCount && br.err == nil; i++ {
		if err := br.readStruct(w, classes); err != nil {
			return nil, nil, SaveState{}, err
		}
	}
	objectCount := br.u32()
	for i := uint32(0); i < objectCount && br.err == nil; i++ {
		if err := br.readObject(w, classes); err != nil {
			return nil, nil, SaveState{}, err
		}
	}
	fragCount := br.u32()
	for i := uint32(0); i < fragCount && br.err == nil; i++ {
		br.readFrag(w)
	}
	if br.err != nil {
		return nil, nil, SaveState{}, newErr(ErrSaveCorrupt, "Load", br.err)
	}
	return w, m, state, nil
}

func (bw *binWriter) writeStruct(s *world.Struct) {
	bw.str(s.Class.Name)
	bw.v3(s.Position)
	bw.u8(uint8(s.Heading))
	bw.f64(s.Life)
	bw.f64(s.Resistance)
	bw.boolean(s.Demolishing)
	bw.f64(s.DemolishZ)

	bw.u32(uint32(len(s.Entities)))
	for _, e := range s.Entities {
		bw.u8(uint8(e.State))
		bw.f64(e.Ratio)
		bw.f64(e.Timer)
		bw.boolean(e.Unlocked)
	}

	bw.u32(uint32(len(s.BoundObjects)))
	for _, oid := range s.BoundObjects {
		bw.u32(uint32(oid))
	}
}

func (br *binReader) readStruct(w *world.World, classes *world.ClassBook) error {
	name := br.str()
	pos := br.v3()
	heading := world.Heading(br.u8())
	life := br.f64()
	resistance := br.f64()
	demolishing := br.boolean()
	demolishZ := br.f64()

	entCount := br.u32()
	ents := make([]struct {
		state    uint8
		ratio    float64
		timer    float64
		unlocked bool
	}, entCount)
	for i := range ents {
		ents[i].state = br.u8()
		ents[i].ratio = br.f64()
		ents[i].timer = br.f64()
		ents[i].unlocked = br.boolean()
	}

	boundCount := br.u32()
	bound := make([]world.ObjectId, boundCount)
	for i := range bound {
		bound[i] = world.ObjectId(br.u32())
	}
	if br.err != nil {
		return newErr(ErrSaveCorrupt, "Load", br.err)
	}

	class, ok := classes.Structs[name]
	if !ok {
		return newErr(ErrSaveCorrupt, "Load", unknownClass(name))
	}
	id := w.Structs.Create(class, heading, pos)
	if id == world.NilStruct {
		return newErr(ErrSaveCorrupt, "Load", errCapacity("structs"))
	}
	st := w.Structs.Get(id)
	st.Life = life
	st.Resistance = resistance
	st.Demolishing = demolishing
	st.DemolishZ = demolishZ
	st.BoundObjects = bound
	for i := range st.Entities {
		if i >= len(ents) {
			break
		}
		st.Entities[i].State = world.EntState(ents[i].state)
		st.Entities[i].Ratio = ents[i].ratio
		st.Entities[i].Timer = ents[i].timer
		st.Entities[i].Unlocked = ents[i].unlocked
	}
	return nil
}

func (bw *binWriter) writeObject(o *world.Object) {
	bw.str(o.Class.Name)
	bw.u8(uint8(o.Kind))
	bw.v3(o.Position)
	bw.v3(o.Half)
	bw.f64(o.Life)
	bw.u32(uint32(o.Flags))
	bw.u32(uint32(o.Parent))

	bw.u32(uint32(len(o.Inventory)))
	for _, oid := range o.Inventory {
		bw.u32(uint32(oid))
	}

	if dyn := o.DynExt(); dyn != nil {
		bw.v3(dyn.Velocity)
		bw.v3(dyn.Momentum)
		bw.f64(dyn.Lift)
		bw.f64(dyn.Depth)
		bw.u32(uint32(dyn.Lower))
		bw.u8(uint8(dyn.Friction))
		bw.boolean(dyn.Disabled)
	}
	switch o.Kind {
	case world.KindWeapon:
		bw.i32(int32(o.Weapon.Rounds))
		bw.f64(o.Weapon.ShotTime)
		bw.f64(o.Weapon.Cooldown)
	case world.KindBot:
		bw.f64(o.Bot.ViewH)
		bw.f64(o.Bot.ViewV)
		bw.f64(o.Bot.Stamina)
		bw.u32(uint32(o.Bot.State))
		bw.u32(uint32(o.Bot.Weapon))
		bw.u32(uint32(o.Bot.Cargo))
		bw.i32(int32(o.Bot.Anim))
	case world.KindVehicle:
		bw.quat(o.Vehicle.Rot)
		bw.u32(uint32(o.Vehicle.Pilot))
		bw.str(o.Vehicle.VType)
		bw.u32(uint32(len(o.Vehicle.Weapons)))
		for _, vw := range o.Vehicle.Weapons {
			bw.i32(int32(vw.Rounds))
			bw.f64(vw.ShotTime)
		}
	}
}

func (br *binReader) readObject(w *world.World, classes *world.ClassBook) error {
	name := br.str()
	kind := world.Kind(br.u8())
	pos := br.v3()
	half := br.v3()
	life := br.f64()
	flags := world.ObjectFlags(br.u32())
	parent := world.ObjectId(br.u32())

	invCount := br.u32()
	inv := make([]world.ObjectId, invCount)
	for i := range inv {
		inv[i] = world.ObjectId(br.u32())
	}

	var dyn world.DynamicExt
	if kind != world.KindStatic {
		dyn.Velocity = br.v3()
		dyn.Momentum = br.v3()
		dyn.Lift = br.f64()
		dyn.Depth = br.f64()
		dyn.Lower = world.ObjectId(br.u32())
		dyn.Friction = world.FrictionMode(br.u8())
		dyn.Disabled = br.boolean()
	}

	class, ok := classes.Objects[name]
	if !ok && br.err == nil {
		return newErr(ErrSaveCorrupt, "Load", unknownClass(name))
	}

	obj := world.Object{
		Class: class, Position: pos, Half: half, Life: life,
		Flags: flags, Parent: parent, Inventory: inv, Kind: kind,
	}
	switch kind {
	case world.KindDynamic:
		dyn.Mass = class.Mass
		obj.Dynamic = &dyn
	case world.KindWeapon:
		dyn.Mass = class.Mass
		obj.Weapon = &world.WeaponExt{Dynamic: dyn, Rounds: int(br.i32()), ShotTime: br.f64(), Cooldown: br.f64()}
	case world.KindBot:
		dyn.Mass = class.Mass
		obj.Bot = &world.BotExt{
			Dynamic: dyn, ViewH: br.f64(), ViewV: br.f64(), Stamina: br.f64(),
			State: world.BotState(br.u32()), Weapon: world.ObjectId(br.u32()),
			Cargo: world.ObjectId(br.u32()), Anim: int(br.i32()),
		}
	case world.KindVehicle:
		dyn.Mass = class.Mass
		rot := br.quat()
		pilot := world.ObjectId(br.u32())
		vtype := br.str()
		wCount := br.u32()
		weapons := make([]world.VehicleWeapon, wCount)
		for i := range weapons {
			weapons[i] = world.VehicleWeapon{Rounds: int(br.i32()), ShotTime: br.f64()}
		}
		obj.Vehicle = &world.VehicleExt{Dynamic: dyn, Rot: rot, Pilot: pilot, VType: vtype, Weapons: weapons}
	}
	if br.err != nil {
		return newErr(ErrSaveCorrupt, "Load", br.err)
	}
	if id := w.Objects.Create(obj); id == world.NilObject {
		return newErr(ErrSaveCorrupt, "Load", errCapacity("objects"))
	}
	return nil
}

func (bw *binWriter) writeFrag(f *world.Fragment) {
	bw.str(f.Class.Name)
	bw.v3(f.Position)
	bw.v3(f.Velocity)
	bw.f64(f.Life)
}

func (br *binReader) readFrag(w *world.World) {
	name := br.str()
	pos := br.v3()
	vel := br.v3()
	life := br.f64()
	if br.err != nil {
		return
	}
	class, ok := w.Classes.Frags[name]
	if !ok {
		br.err = unknownClass(name)
		return
	}
	id := w.Frags.Create(class, pos, vel)
	if id != world.NilFrag {
		w.Frags.Get(id).Life = life
	}
}

// binWriter writes the stream's primitives with a sticky error: once a
// write fails every subsequent call is a no-op, so callers only check
// err once at the end.
type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) raw(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

func (bw *binWriter) u8(v uint8)   { bw.write(v) }
func (bw *binWriter) u32(v uint32) { bw.write(v) }
func (bw *binWriter) i32(v int32)  { bw.write(v) }
func (bw *binWriter) i64(v int64)  { bw.write(v) }
func (bw *binWriter) f64(v float64) { bw.write(v) }
func (bw *binWriter) boolean(v bool) {
	var b uint8
	if v {
		b = 1
	}
	bw.write(b)
}

func (bw *binWriter) write(v any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binWriter) str(s string) {
	bw.u32(uint32(len(s)))
	bw.raw([]byte(s))
}

func (bw *binWriter) strMap(m map[string]string) {
	bw.u32(uint32(len(m)))
	for k, v := range m {
		bw.str(k)
		bw.str(v)
	}
}

func (bw *binWriter) v3(v lin.V3) {
	bw.f64(v.X)
	bw.f64(v.Y)
	bw.f64(v.Z)
}

func (bw *binWriter) quat(q lin.Q) {
	bw.f64(q.X)
	bw.f64(q.Y)
	bw.f64(q.Z)
	bw.f64(q.W)
}

func (bw *binWriter) transform(t lin.T) {
	if t.Loc == nil || t.Rot == nil {
		bw.v3(lin.V3{})
		bw.quat(lin.Q{})
		return
	}
	bw.v3(*t.Loc)
	bw.quat(*t.Rot)
}

// binReader is binWriter's mirror: once a read fails, every subsequent
// call returns the type's zero value.
type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) raw(n int) []byte {
	if br.err != nil {
		return nil
	}
	b := make([]byte, n)
	_, br.err = io.ReadFull(br.r, b)
	return b
}

func (br *binReader) u8() uint8 {
	var v uint8
	br.read(&v)
	return v
}
func (br *binReader) u32() uint32 {
	var v uint32
	br.read(&v)
	return v
}
func (br *binReader) i32() int32 {
	var v int32
	br.read(&v)
	return v
}
func (br *binReader) i64() int64 {
	var v int64
	br.read(&v)
	return v
}
func (br *binReader) f64() float64 {
	var v float64
	br.read(&v)
	return v
}
func (br *binReader) boolean() bool {
	return br.u8() != 0
}

func (br *binReader) read(v any) {
	if br.err != nil {
		return
	}
	br.err = binary.Read(br.r, binary.LittleEndian, v)
}

func (br *binReader) str() string {
	n := br.u32()
	if br.err != nil {
		return ""
	}
	return string(br.raw(int(n)))
}

func (br *binReader) strMap() map[string]string {
	n := br.u32()
	if br.err != nil {
		return nil
	}
	m := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		k := br.str()
		v := br.str()
		m[k] = v
	}
	return m
}

func (br *binReader) v3() lin.V3 {
	return lin.V3{X: br.f64(), Y: br.f64(), Z: br.f64()}
}

func (br *binReader) quat() lin.Q {
	return lin.Q{X: br.f64(), Y: br.f64(), Z: br.f64(), W: br.f64()}
}

func (br *binReader) transform() lin.T {
	loc := br.v3()
	rot := br.quat()
	return *lin.NewT().SetLoc(loc.X, loc.Y, loc.Z).SetRot(rot.X, rot.Y, rot.Z, rot.W)
}
