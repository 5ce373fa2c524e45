package runtime

import (
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

// DefaultFactoryCooldown is the number of ticks between factory spawns.
const DefaultFactoryCooldown = 5

// Ops keeps item and inventory mutation in the world facade.
type Ops struct {
	SpawnItem    func(pos model.Vec2i, value int) *model.Item
	MergeAt      func(pos model.Vec2i) int
	AddInventory func(id string, n int)
	AuditEvent   func(nowTick uint64, action string, pos model.Vec2i, details map[string]any)
}

type FactoryResult struct {
	Spawned int
	Merged  int
	Stalled int
}

// SpawnTarget returns the first neighbour (up, down, right, left) holding a
// conveyor or collector.
func SpawnTarget(buildings map[model.Vec2i]model.Building, pos model.Vec2i) (model.Vec2i, bool) {
	for _, off := range model.NeighborOffsets() {
		n := pos.Add(off)
		if model.AcceptsSpawn(buildings[n]) {
			return n, true
		}
	}
	return model.Vec2i{}, false
}

// RunFactories counts every factory down and spawns a value-1 item next to
// those that reach zero. A factory with no outlet stays at zero and retries
// on the next tick. Factories are visited in position order (Y then X).
func RunFactories(nowTick uint64, buildings map[model.Vec2i]model.Building, cooldownTicks int, ops Ops) FactoryResult {
	if cooldownTicks <= 0 {
		cooldownTicks = DefaultFactoryCooldown
	}
	var res FactoryResult
	for _, p := range store.SortPositions(buildings) {
		f, ok := buildings[p].(*model.Factory)
		if !ok {
			continue
		}
		f.Cooldown--
		if f.Cooldown > 0 {
			continue
		}
		target, ok := SpawnTarget(buildings, p)
		if !ok {
			f.Cooldown = 0
			res.Stalled++
			continue
		}
		f.Cooldown = cooldownTicks
		if ops.SpawnItem != nil {
			it := ops.SpawnItem(target, 1)
			res.Spawned++
			if ops.AuditEvent != nil && it != nil {
				ops.AuditEvent(nowTick, "SPAWN", target, map[string]any{"item_id": it.ID, "factory": p.Key()})
			}
		}
		if ops.MergeAt != nil {
			res.Merged += ops.MergeAt(target)
		}
	}
	return res
}

// RunGenerators adds one unit of its resource per generator per tick.
func RunGenerators(buildings map[model.Vec2i]model.Building, ops Ops) (generated map[string]int) {
	for _, b := range buildings {
		g, ok := b.(*model.Generator)
		if !ok {
			continue
		}
		if generated == nil {
			generated = map[string]int{}
		}
		id := g.Resource.String()
		generated[id]++
		if ops.AddInventory != nil {
			ops.AddInventory(id, 1)
		}
	}
	return generated
}
