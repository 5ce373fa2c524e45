package world

import (
	convruntime "coinfactory.ai/internal/sim/world/feature/conveyor/runtime"
	prodruntime "coinfactory.ai/internal/sim/world/feature/production/runtime"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

func (w *World) conveyorOps() convruntime.Ops {
	return convruntime.Ops{
		BuildingAt: w.Building,
		AddScore:   func(n int) { w.score += n },
		AuditEvent: func(nowTick uint64, action string, pos Vec2i, details map[string]any) {
			w.auditEvent(nowTick, "WORLD", action, pos, "TICK", details)
		},
	}
}

func (w *World) productionOps() prodruntime.Ops {
	return prodruntime.Ops{
		SpawnItem:    w.items.Spawn,
		MergeAt:      func(p Vec2i) int { return convruntime.MergeAt(w.items, p) },
		AddInventory: w.player.Inventory.Add,
		AuditEvent: func(nowTick uint64, action string, pos Vec2i, details map[string]any) {
			w.auditEvent(nowTick, "WORLD", action, pos, "TICK", details)
		},
	}
}

// RunTick advances the simulation by exactly one step:
// collection, movement and upgrades, applied moves with merging, factory
// production, generator production.
func (w *World) RunTick() TickResult {
	nowTick := w.tick.Add(1)
	res := TickResult{Tick: nowTick}
	cops := w.conveyorOps()

	res.Collected, res.ScoreGain = convruntime.Collect(nowTick, w.items, cops)
	res.Moved, res.Merged = convruntime.Advance(nowTick, w.items, w.shop.Power, cops)

	pops := w.productionOps()
	fr := prodruntime.RunFactories(nowTick, w.buildings, w.cfg.FactoryCooldownTicks, pops)
	res.Spawned = fr.Spawned
	res.Merged += fr.Merged

	for _, n := range prodruntime.RunGenerators(w.buildings, pops) {
		res.Generated += n
	}

	res.Changed = res.Collected > 0 || res.Generated > 0
	w.lastResult = res
	return res
}

// ItemsOn returns copies of the items on p in collection order.
func (w *World) ItemsOn(p Vec2i) []model.Item {
	var out []model.Item
	for _, it := range w.items.OnCell(p) {
		out = append(out, *it)
	}
	return out
}
