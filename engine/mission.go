// Copyright © 2024 Galvanized Logic Inc.

package engine

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// Mission is the YAML-decoded manifest read once at LoadMission: the
// terrain to generate, the structs to place, the objects to spawn, and
// the sky's initial state (SPEC_FULL.md §3 "Mission manifests").
type Mission struct {
	Name    string        `yaml:"name"`
	Seed    int64         `yaml:"seed"`
	Terrain string        `yaml:"terrain"`
	Caelum  CaelumState   `yaml:"caelum"`
	Structs []StructSpawn `yaml:"structs"`
	Objects []ObjectSpawn `yaml:"objects"`
}

// CaelumState is the sky's initial condition, applied once at mission
// init and thereafter owned by the renderer/audio collaborator layer.
type CaelumState struct {
	SunAngle  float64 `yaml:"sunAngle"`
	TimeOfDay float64 `yaml:"timeOfDay"`
}

// StructSpawn places one Struct instance at mission init.
type StructSpawn struct {
	Class       string        `yaml:"class"`
	Position    [3]float64    `yaml:"position"`
	Heading     world.Heading `yaml:"-"`
	HeadingName string        `yaml:"heading"`
}

// ObjectSpawn places one Object instance at mission init.
type ObjectSpawn struct {
	Class    string     `yaml:"class"`
	Position [3]float64 `yaml:"position"`
}

// LoadMission decodes a mission manifest and instantiates it into a
// fresh World bound to classes. Unknown struct/object class names are a
// hard error (spec.md §7's AssetNotFound-like failure, here scoped to
// mission content rather than asset files).
func LoadMission(r io.Reader, classes *world.ClassBook, terrainScale float64) (*world.World, *Mission, error) {
	var m Mission
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, nil, newErr(ErrMissionInvalid, "LoadMission", err)
	}

	w := world.New(classes, m.Seed, terrainScale)

	for _, sp := range m.Structs {
		class, ok := classes.Structs[sp.Class]
		if !ok {
			return nil, nil, newErr(ErrMissionInvalid, "LoadMission", unknownClass(sp.Class))
		}
		heading := parseHeading(sp.HeadingName)
		pos := lin.V3{X: sp.Position[0], Y: sp.Position[1], Z: sp.Position[2]}
		if id := w.Structs.Create(class, heading, pos); id == world.NilStruct {
			return nil, nil, newErr(ErrMissionInvalid, "LoadMission", errCapacity("structs"))
		}
	}
	for _, sp := range m.Objects {
		class, ok := classes.Objects[sp.Class]
		if !ok {
			return nil, nil, newErr(ErrMissionInvalid, "LoadMission", unknownClass(sp.Class))
		}
		obj := world.Object{
			Class:    class,
			Position: lin.V3{X: sp.Position[0], Y: sp.Position[1], Z: sp.Position[2]},
			Half:     lin.V3{X: class.HalfX, Y: class.HalfY, Z: class.HalfZ},
			Kind:     class.Kind,
			Flags:    world.SolidBit,
		}
		switch class.Kind {
		case world.KindDynamic:
			obj.Dynamic = &world.DynamicExt{Mass: class.Mass, Lift: class.LiftFactor}
		case world.KindWeapon:
			obj.Weapon = &world.WeaponExt{Dynamic: world.DynamicExt{Mass: class.Mass}, Rounds: class.MagSize}
		case world.KindBot:
			obj.Bot = &world.BotExt{Dynamic: world.DynamicExt{Mass: class.Mass}, Stamina: class.Stamina}
		case world.KindVehicle:
			obj.Vehicle = &world.VehicleExt{Dynamic: world.DynamicExt{Mass: class.Mass}, VType: class.VehicleType}
		}
		if id := w.Objects.Create(obj); id == world.NilObject {
			return nil, nil, newErr(ErrMissionInvalid, "LoadMission", errCapacity("objects"))
		}
	}
	return w, &m, nil
}

func parseHeading(name string) world.Heading {
	switch name {
	case "west":
		return world.West
	case "south":
		return world.South
	case "east":
		return world.East
	default:
		return world.North
	}
}
