package world

import (
	"coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

// ExportSnapshot flattens the current state. The header tick is the number
// of completed ticks.
func (w *World) ExportSnapshot() snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			WorldID: w.cfg.ID,
			Tick:    w.tick.Load(),
		},
		Seed:                 w.cfg.Seed,
		TickDurationMS:       w.cfg.TickDurationMS,
		SpawnClearHalfWidth:  w.cfg.SpawnClearHalfWidth,
		IronPermille:         w.cfg.IronPermille,
		CopperPermille:       w.cfg.CopperPermille,
		FactoryCooldownTicks: w.cfg.FactoryCooldownTicks,
		Score:                w.score,
		UpgraderPower:        w.shop.Power,
		UpgraderPowerCost:    w.shop.Cost,
		Player: snapshot.PlayerV1{
			X:         w.player.X,
			Y:         w.player.Y,
			Inventory: w.player.Inventory.Clone(),
		},
		Buildings: exportBuildings(w.buildings),
		Resources: store.ExportResources(w.terrain),
		Items:     exportItems(w.items),
		Chunks:    store.ExportChunks(w.terrain),
		Counters:  snapshot.CountersV1{NextItem: w.items.NextID()},
	}
	return snap
}

func exportBuildings(m map[Vec2i]model.Building) []snapshot.BuildingV1 {
	out := make([]snapshot.BuildingV1, 0, len(m))
	for _, p := range store.SortPositions(m) {
		b := m[p]
		bv := snapshot.BuildingV1{Key: p.Key(), Type: b.Kind().String()}
		switch v := b.(type) {
		case *model.Factory:
			bv.Cooldown = v.Cooldown
		case *model.Generator:
			bv.ResourceType = v.Resource.String()
		case model.Directional:
			bv.Direction = int(v.Direction())
		}
		out = append(out, bv)
	}
	return out
}

func exportItems(items *model.ItemSet) []snapshot.ItemV1 {
	out := make([]snapshot.ItemV1, 0, items.Len())
	for _, it := range items.All() {
		out = append(out, snapshot.ItemV1{
			ID:                it.ID,
			X:                 it.Pos.X,
			Y:                 it.Pos.Y,
			Value:             it.Value,
			ProcessedThisTick: it.ProcessedThisTick,
			MergedThisTick:    it.MergedThisTick,
		})
	}
	return out
}
