// Copyright © 2024 Galvanized Logic Inc.

package world

// class.go loads the immutable object/struct class definitions the rest
// of the world package references by pointer. Classes are authored as
// YAML (gopkg.in/yaml.v3, already part of the teacher's dependency set)
// instead of the original engine's custom matrix config format, mirroring
// how ObjectClass/BSP "nomenclature" lookups worked but through a decode
// step rather than a hand-rolled parser.

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FrictionMode is the current contact state used by the physics
// integrator's friction stage (spec.md §4.D).
type FrictionMode uint8

const (
	FrictionAir FrictionMode = iota
	FrictionLadder
	FrictionWater
	FrictionFloor
	FrictionSlick
	FrictionObj
)

// ObjectClass is the immutable, shared description of one kind of
// Object. Multiple live Objects reference the same *ObjectClass.
type ObjectClass struct {
	Name       string  `yaml:"name"`
	Kind       Kind    `yaml:"-"`
	KindName   string  `yaml:"kind"`
	Mass       float64 `yaml:"mass"`
	Life       float64 `yaml:"life"`
	HalfX      float64 `yaml:"halfX"`
	HalfY      float64 `yaml:"halfY"`
	HalfZ      float64 `yaml:"halfZ"`
	LiftFactor float64 `yaml:"liftFactor"`

	// Weapon fields, zero for other kinds.
	MagSize  int     `yaml:"magSize"`
	ShotTime float64 `yaml:"shotTime"`
	Cooldown float64 `yaml:"cooldown"`

	// Bot fields, zero for other kinds.
	Stamina float64 `yaml:"stamina"`
	Speed   float64 `yaml:"speed"` // ground move speed, used by ai.Mind steering.

	// Vehicle fields, zero for other kinds.
	VehicleType string `yaml:"vehicleType"`

	// Key, when non-zero, gates Entity.Trigger (spec.md §4.E); object
	// classes reuse the same key namespace as a Bot's inventory items.
	Key int32 `yaml:"key"`

	// Event handler hook names, called out in spec.md §6 as the Lua
	// boundary's class-declared handlers.
	OnCreate  string `yaml:"onCreate"`
	OnDestroy string `yaml:"onDestroy"`
	OnDamage  string `yaml:"onDamage"`
	OnHit     string `yaml:"onHit"`
	OnUse     string `yaml:"onUse"`
	OnUpdate  string `yaml:"onUpdate"`
}

// StructClass is the immutable description of a BSP a Struct instantiates.
type StructClass struct {
	Name        string        `yaml:"name"`
	BSP         string        `yaml:"bsp"`
	Life        float64       `yaml:"life"`
	Resistance  float64       `yaml:"resistance"`
	NumFrags    int           `yaml:"nFrags"`
	HalfX       float64       `yaml:"halfX"`
	HalfY       float64       `yaml:"halfY"`
	HalfZ       float64       `yaml:"halfZ"`
	Entities    []EntityClass `yaml:"entities"`
}

// EntityClass is the immutable description one animated sub-part of a
// Struct instantiates (spec.md §3 Entity).
type EntityClass struct {
	Name     string    `yaml:"name"`
	Type     EntType   `yaml:"-"`
	TypeName string    `yaml:"type"`
	Move     [3]float64 `yaml:"move"`
	Timeout  float64   `yaml:"timeout"`
	RatioInc float64   `yaml:"ratioInc"`
	Key      int32     `yaml:"key"`
	Target   string    `yaml:"target"` // name of the EntityClass instance to advance on Trigger.
	Margin   float64   `yaml:"margin"` // AUTO_DOOR proximity threshold.
}

// ClassBook resolves class names to the classes Objects, Structs,
// Fragments and Entities reference, loaded once at mission start from
// YAML.
type ClassBook struct {
	Objects map[string]*ObjectClass
	Structs map[string]*StructClass
	Frags   map[string]*FragClass
}

// LoadClassBook decodes a YAML class manifest from r.
func LoadClassBook(r io.Reader) (*ClassBook, error) {
	var doc struct {
		Objects []ObjectClass `yaml:"objects"`
		Structs []StructClass `yaml:"structs"`
		Frags   []FragClass   `yaml:"fragments"`
	}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode class book: %w", err)
	}
	book := &ClassBook{Objects: map[string]*ObjectClass{}, Structs: map[string]*StructClass{}, Frags: map[string]*FragClass{}}
	for i := range doc.Objects {
		oc := doc.Objects[i]
		oc.Kind = parseKind(oc.KindName)
		book.Objects[oc.Name] = &oc
	}
	for i := range doc.Structs {
		sc := doc.Structs[i]
		for j := range sc.Entities {
			sc.Entities[j].Type = parseEntType(sc.Entities[j].TypeName)
		}
		book.Structs[sc.Name] = &sc
	}
	for i := range doc.Frags {
		fc := doc.Frags[i]
		book.Frags[fc.Name] = &fc
	}
	return book, nil
}

func parseKind(name string) Kind {
	switch name {
	case "weapon":
		return KindWeapon
	case "bot":
		return KindBot
	case "vehicle":
		return KindVehicle
	case "dynamic":
		return KindDynamic
	default:
		return KindStatic
	}
}

func parseEntType(name string) EntType {
	switch name {
	case "manualDoor":
		return EntManualDoor
	case "autoDoor":
		return EntAutoDoor
	case "ignoringBlock":
		return EntIgnoringBlock
	case "crushingBlock":
		return EntCrushingBlock
	case "elevator":
		return EntElevator
	default:
		return EntStatic
	}
}
