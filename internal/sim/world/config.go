package world

import (
	"time"

	"coinfactory.ai/internal/sim/tuning"
	"coinfactory.ai/internal/sim/world/feature/economy"
	prodruntime "coinfactory.ai/internal/sim/world/feature/production/runtime"
)

type WorldConfig struct {
	ID             string
	TickDurationMS int
	Seed           int64

	// Worldgen tuning.
	SpawnClearHalfWidth int
	IronPermille        int
	CopperPermille      int

	FactoryCooldownTicks int

	UpgraderPowerBase               int
	UpgraderPowerCostBase           int
	UpgraderPowerCostGrowthPermille int

	ViewRadiusTiles int

	// Operational parameters. These are included in snapshots for deterministic replay/resume.
	SnapshotEveryTicks int

	// Granted on Reset. Nil or empty means the player starts with nothing.
	StarterInventory map[string]int
}

// ConfigFromTuning maps tuning values onto a world config. A zero seed means
// the caller wants a time-derived seed.
func ConfigFromTuning(id string, seed int64, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                              id,
		TickDurationMS:                  t.TickDurationMs,
		Seed:                            seed,
		SpawnClearHalfWidth:             t.SpawnClearHalfWidth,
		IronPermille:                    t.IronPermille,
		CopperPermille:                  t.CopperPermille,
		FactoryCooldownTicks:            t.FactoryCooldownTicks,
		UpgraderPowerBase:               t.UpgraderPowerBase,
		UpgraderPowerCostBase:           t.UpgraderPowerCostBase,
		UpgraderPowerCostGrowthPermille: t.UpgraderPowerCostGrowthPermille,
		ViewRadiusTiles:                 t.ViewRadiusTiles,
		SnapshotEveryTicks:              t.SnapshotEveryTicks,
		StarterInventory:                t.StarterInventory,
	}
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickDurationMS <= 0 {
		c.TickDurationMS = 1000
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.SpawnClearHalfWidth < 0 {
		c.SpawnClearHalfWidth = 0
	}
	if c.FactoryCooldownTicks <= 0 {
		c.FactoryCooldownTicks = prodruntime.DefaultFactoryCooldown
	}
	if c.UpgraderPowerBase < 1 {
		c.UpgraderPowerBase = 1
	}
	if c.UpgraderPowerCostBase < 1 {
		c.UpgraderPowerCostBase = 100
	}
	if c.UpgraderPowerCostGrowthPermille < 1000 {
		c.UpgraderPowerCostGrowthPermille = economy.DefaultGrowthPermille
	}
	if c.ViewRadiusTiles <= 0 {
		c.ViewRadiusTiles = 24
	}
}

func (w *World) Config() WorldConfig { return w.cfg }
