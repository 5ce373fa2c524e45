package world

import (
	"fmt"

	"coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

// ImportSnapshot replaces the whole state with snap. Nothing changes when
// the snapshot is invalid.
func (w *World) ImportSnapshot(snap snapshot.SnapshotV1) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	cfg := w.cfg
	cfg.Seed = snap.Seed
	if snap.TickDurationMS > 0 {
		cfg.TickDurationMS = snap.TickDurationMS
	}
	if snap.SpawnClearHalfWidth > 0 {
		cfg.SpawnClearHalfWidth = snap.SpawnClearHalfWidth
	}
	if snap.IronPermille > 0 {
		cfg.IronPermille = snap.IronPermille
	}
	if snap.CopperPermille > 0 {
		cfg.CopperPermille = snap.CopperPermille
	}
	if snap.FactoryCooldownTicks > 0 {
		cfg.FactoryCooldownTicks = snap.FactoryCooldownTicks
	}

	gen := store.WorldGen{
		Seed:                cfg.Seed,
		SpawnClearHalfWidth: cfg.SpawnClearHalfWidth,
		IronPermille:        cfg.IronPermille,
		CopperPermille:      cfg.CopperPermille,
	}
	terrain, err := store.ImportResources(gen, snap.Resources, snap.Chunks)
	if err != nil {
		return fmt.Errorf("import resources: %w", err)
	}

	buildings := make(map[Vec2i]model.Building, len(snap.Buildings))
	for _, bv := range snap.Buildings {
		p, err := model.ParseKey(bv.Key)
		if err != nil {
			return fmt.Errorf("import building: %w", err)
		}
		b, err := importBuilding(bv)
		if err != nil {
			return fmt.Errorf("import building %s: %w", bv.Key, err)
		}
		buildings[p] = b
	}

	items := model.NewItemSet()
	for _, iv := range snap.Items {
		items.Restore(model.Item{
			ID:                iv.ID,
			Pos:               Vec2i{X: iv.X, Y: iv.Y},
			Value:             iv.Value,
			ProcessedThisTick: iv.ProcessedThisTick,
			MergedThisTick:    iv.MergedThisTick,
		})
	}
	if snap.Counters.NextItem > items.NextID() {
		items.SetNextID(snap.Counters.NextItem)
	}

	inv := model.NewInventory()
	for k, v := range snap.Player.Inventory {
		inv.Add(k, v)
	}

	w.cfg = cfg
	w.terrain = terrain
	w.buildings = buildings
	w.items = items
	w.player = model.Player{X: snap.Player.X, Y: snap.Player.Y, Inventory: inv}
	w.score = snap.Score
	w.shop.Power = snap.UpgraderPower
	w.shop.Cost = snap.UpgraderPowerCost
	w.tick.Store(snap.Header.Tick)
	w.recorded = w.recorded[:0]
	w.discontinuity = "restore"
	w.dirty = true
	w.lastResult = TickResult{}
	return nil
}

func importBuilding(bv snapshot.BuildingV1) (model.Building, error) {
	kind, err := model.ParseBuildingKind(bv.Type)
	if err != nil {
		return nil, err
	}
	var res model.ResourceType
	if kind == model.KindGenerator {
		if res, err = model.ParseResourceType(bv.ResourceType); err != nil {
			return nil, err
		}
	}
	b, err := model.NewBuilding(kind, res)
	if err != nil {
		return nil, err
	}
	switch v := b.(type) {
	case *model.Factory:
		v.Cooldown = bv.Cooldown
	case *model.Conveyor:
		v.Dir = model.Direction(bv.Direction)
	case *model.Upgrader:
		v.Dir = model.Direction(bv.Direction)
	}
	return b, nil
}
