package world

import (
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

// Building returns the building on p, or nil. The value is live; callers
// outside the world loop must not keep it.
func (w *World) Building(p Vec2i) model.Building { return w.buildings[p] }

// SetBuilding is a raw store write with no inventory side effects.
func (w *World) SetBuilding(p Vec2i, b model.Building) {
	if b == nil {
		delete(w.buildings, p)
		return
	}
	w.buildings[p] = b
}

func (w *World) DeleteBuilding(p Vec2i) bool {
	if _, ok := w.buildings[p]; !ok {
		return false
	}
	delete(w.buildings, p)
	return true
}

func (w *World) Resource(p Vec2i) (model.ResourceNode, bool) { return w.terrain.Get(p) }

func (w *World) DeleteResource(p Vec2i) bool { return w.terrain.Delete(p) }

// Buildings returns deep copies keyed by cell.
func (w *World) Buildings() map[Vec2i]model.Building {
	out := make(map[Vec2i]model.Building, len(w.buildings))
	for p, b := range w.buildings {
		out[p] = model.CloneBuilding(b)
	}
	return out
}

func (w *World) Resources() map[Vec2i]model.ResourceNode {
	out := make(map[Vec2i]model.ResourceNode, len(w.terrain.Resources))
	for p, r := range w.terrain.Resources {
		out[p] = r
	}
	return out
}

// Items returns item copies in collection order.
func (w *World) Items() []model.Item {
	out := make([]model.Item, 0, w.items.Len())
	for _, it := range w.items.All() {
		out = append(out, *it)
	}
	return out
}

func (w *World) GeneratedChunks() []store.ChunkKey { return w.terrain.GeneratedKeys() }

func (w *World) Score() int             { return w.score }
func (w *World) UpgraderPower() int     { return w.shop.Power }
func (w *World) UpgraderPowerCost() int { return w.shop.Cost }

func (w *World) Player() model.Player {
	p := w.player
	p.Inventory = w.player.Inventory.Clone()
	return p
}

const maxViewRadius = 1024

// EnsureVisible generates every chunk overlapping the square view box around
// center and returns how many chunks were new. Repeated calls are no-ops.
func (w *World) EnsureVisible(center Vec2i, radius int) int {
	if radius < 0 {
		radius = 0
	}
	if radius > maxViewRadius {
		radius = maxViewRadius
	}
	center = Vec2i{X: model.ClampCoord(center.X), Y: model.ClampCoord(center.Y)}
	n := w.terrain.EnsureArea(
		Vec2i{X: center.X - radius, Y: center.Y - radius},
		Vec2i{X: center.X + radius, Y: center.Y + radius},
	)
	if n > 0 {
		w.dirty = true
	}
	return n
}
