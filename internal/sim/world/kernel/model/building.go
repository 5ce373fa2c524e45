package model

import "fmt"

type BuildingKind uint8

const (
	KindFactory BuildingKind = iota + 1
	KindUpgrader
	KindConveyor
	KindCollector
	KindGenerator
)

func (k BuildingKind) String() string {
	switch k {
	case KindFactory:
		return "factory"
	case KindUpgrader:
		return "upgrader"
	case KindConveyor:
		return "conveyor"
	case KindCollector:
		return "collector"
	case KindGenerator:
		return "generator"
	default:
		return "unknown"
	}
}

func ParseBuildingKind(s string) (BuildingKind, error) {
	switch s {
	case "factory":
		return KindFactory, nil
	case "upgrader":
		return KindUpgrader, nil
	case "conveyor":
		return KindConveyor, nil
	case "collector":
		return KindCollector, nil
	case "generator":
		return KindGenerator, nil
	default:
		return 0, fmt.Errorf("unknown building type %q", s)
	}
}

// Refundable reports whether removing the building returns it to inventory.
func (k BuildingKind) Refundable() bool {
	switch k {
	case KindFactory, KindUpgrader, KindGenerator:
		return true
	default:
		return false
	}
}

// Stocked reports whether placing the building consumes an inventory unit.
// Conveyors and collectors are free and unlimited.
func (k BuildingKind) Stocked() bool { return k.Refundable() }

// Building is a closed set of variants: *Factory, *Upgrader, *Conveyor, *Collector, *Generator.
type Building interface {
	Kind() BuildingKind
	isBuilding()
}

// Directional buildings move items one cell per tick.
type Directional interface {
	Building
	Direction() Direction
	Rotate()
}

type Factory struct {
	// Cooldown is the number of ticks left until the next spawn attempt.
	Cooldown int
}

type Upgrader struct {
	Dir Direction
}

type Conveyor struct {
	Dir Direction
}

type Collector struct{}

type Generator struct {
	// Resource is fixed at placement time from the node underneath.
	Resource ResourceType
}

func (*Factory) Kind() BuildingKind   { return KindFactory }
func (*Upgrader) Kind() BuildingKind  { return KindUpgrader }
func (*Conveyor) Kind() BuildingKind  { return KindConveyor }
func (*Collector) Kind() BuildingKind { return KindCollector }
func (*Generator) Kind() BuildingKind { return KindGenerator }

func (*Factory) isBuilding()   {}
func (*Upgrader) isBuilding()  {}
func (*Conveyor) isBuilding()  {}
func (*Collector) isBuilding() {}
func (*Generator) isBuilding() {}

func (u *Upgrader) Direction() Direction { return u.Dir }
func (u *Upgrader) Rotate()              { u.Dir = u.Dir.Next() }
func (c *Conveyor) Direction() Direction { return c.Dir }
func (c *Conveyor) Rotate()              { c.Dir = c.Dir.Next() }

// NewBuilding returns a freshly placed building of kind k.
// Generators need the resource they are built on; other kinds ignore it.
func NewBuilding(k BuildingKind, res ResourceType) (Building, error) {
	switch k {
	case KindFactory:
		return &Factory{Cooldown: 0}, nil
	case KindUpgrader:
		return &Upgrader{Dir: DirUp}, nil
	case KindConveyor:
		return &Conveyor{Dir: DirUp}, nil
	case KindCollector:
		return &Collector{}, nil
	case KindGenerator:
		if !res.Valid() {
			return nil, fmt.Errorf("generator needs a resource type")
		}
		return &Generator{Resource: res}, nil
	default:
		return nil, fmt.Errorf("unknown building kind %d", k)
	}
}

// CloneBuilding deep-copies a building value.
func CloneBuilding(b Building) Building {
	switch v := b.(type) {
	case *Factory:
		c := *v
		return &c
	case *Upgrader:
		c := *v
		return &c
	case *Conveyor:
		c := *v
		return &c
	case *Collector:
		return &Collector{}
	case *Generator:
		c := *v
		return &c
	default:
		return nil
	}
}

// IsMover reports whether items standing on b travel this tick.
func IsMover(b Building) bool {
	_, ok := b.(Directional)
	return ok
}

// AcceptsSpawn reports whether a factory may emit onto b.
func AcceptsSpawn(b Building) bool {
	switch b.(type) {
	case *Conveyor, *Collector:
		return true
	default:
		return false
	}
}
