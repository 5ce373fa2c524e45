package build

import (
	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

// Env is the grid surface placement rules need.
type Env interface {
	Building(p model.Vec2i) model.Building
	Resource(p model.Vec2i) (model.ResourceNode, bool)
	SetBuilding(p model.Vec2i, b model.Building)
	DeleteBuilding(p model.Vec2i) bool
}

// Denied explains why an action did not apply.
type Denied struct {
	Code    string
	Message string
}

func (d *Denied) Error() string { return d.Code + ": " + d.Message }

func deny(code, msg string) *Denied { return &Denied{Code: code, Message: msg} }

const (
	MsgCannotBuild     = "Cannot build here!"
	MsgNeedsResource   = "Must place on a resource node!"
	MsgRotateOnly      = "Can only rotate conveyors/upgraders!"
	MsgUnknownBuilding = "Unknown building type!"
)

// MsgNoStock is the advisory for an empty stocked slot.
func MsgNoStock(k model.BuildingKind) string {
	if k == model.KindFactory {
		return "No factories in inventory!"
	}
	return "No " + k.String() + "s in inventory!"
}

// Place validates and applies a placement. Stocked kinds consume one unit of
// inventory; conveyors and collectors are free.
func Place(env Env, inv model.Inventory, p model.Vec2i, kind model.BuildingKind) (model.Building, *Denied) {
	existing := env.Building(p)
	res, hasRes := env.Resource(p)

	var resType model.ResourceType
	switch kind {
	case model.KindGenerator:
		if existing != nil {
			return nil, deny(protocol.ErrBlocked, MsgCannotBuild)
		}
		if !hasRes {
			return nil, deny(protocol.ErrInvalidTarget, MsgNeedsResource)
		}
		resType = res.Type
	case model.KindFactory, model.KindUpgrader, model.KindConveyor, model.KindCollector:
		if existing != nil || hasRes {
			return nil, deny(protocol.ErrBlocked, MsgCannotBuild)
		}
	default:
		return nil, deny(protocol.ErrBadRequest, MsgUnknownBuilding)
	}

	if kind.Stocked() && inv.Count(kind.String()) <= 0 {
		return nil, deny(protocol.ErrNoResource, MsgNoStock(kind))
	}
	b, err := model.NewBuilding(kind, resType)
	if err != nil {
		return nil, deny(protocol.ErrInternal, err.Error())
	}
	if kind.Stocked() {
		inv.Take(kind.String(), 1)
	}
	env.SetBuilding(p, b)
	return b, nil
}

// Remove clears a cell and refunds stocked kinds. An empty cell is a no-op
// and reports false.
func Remove(env Env, inv model.Inventory, p model.Vec2i) (model.Building, bool) {
	b := env.Building(p)
	if b == nil {
		return nil, false
	}
	env.DeleteBuilding(p)
	if b.Kind().Refundable() {
		inv.Add(b.Kind().String(), 1)
	}
	return b, true
}

// Rotate turns a conveyor or upgrader a quarter clockwise.
func Rotate(env Env, p model.Vec2i) (model.Direction, *Denied) {
	d, ok := env.Building(p).(model.Directional)
	if !ok {
		return 0, deny(protocol.ErrInvalidTarget, MsgRotateOnly)
	}
	d.Rotate()
	return d.Direction(), nil
}
