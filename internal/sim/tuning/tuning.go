package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickDurationMs     int `yaml:"tick_duration_ms"`
	ChunkSize          int `yaml:"chunk_size"`
	ViewRadiusTiles    int `yaml:"view_radius_tiles"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	SpawnClearHalfWidth int `yaml:"spawn_clear_half_width"`
	IronPermille        int `yaml:"iron_permille"`
	CopperPermille      int `yaml:"copper_permille"`

	FactoryCooldownTicks int `yaml:"factory_cooldown_ticks"`

	UpgraderPowerBase               int `yaml:"upgrader_power_base"`
	UpgraderPowerCostBase           int `yaml:"upgrader_power_cost_base"`
	UpgraderPowerCostGrowthPermille int `yaml:"upgrader_power_cost_growth_permille"`

	StarterInventory map[string]int `yaml:"starter_inventory"`
}

// Defaults matches normal play.
func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:                 "1.0",
		TickDurationMs:                  1000,
		ChunkSize:                       16,
		ViewRadiusTiles:                 24,
		SnapshotEveryTicks:              60,
		SpawnClearHalfWidth:             10,
		IronPermille:                    30,
		CopperPermille:                  20,
		FactoryCooldownTicks:            5,
		UpgraderPowerBase:               1,
		UpgraderPowerCostBase:           100,
		UpgraderPowerCostGrowthPermille: 1500,
	}
}

// Load reads a YAML file over Defaults, so omitted keys keep their default.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickDurationMs <= 0:
		return fmt.Errorf("tick_duration_ms must be > 0")
	case t.ChunkSize != 16:
		return fmt.Errorf("chunk_size must be 16, got %d", t.ChunkSize)
	case t.SpawnClearHalfWidth < 0:
		return fmt.Errorf("spawn_clear_half_width must be >= 0")
	case t.IronPermille < 0 || t.IronPermille > 1000:
		return fmt.Errorf("iron_permille out of range")
	case t.CopperPermille < 0 || t.CopperPermille > 1000:
		return fmt.Errorf("copper_permille out of range")
	case t.FactoryCooldownTicks <= 0:
		return fmt.Errorf("factory_cooldown_ticks must be > 0")
	case t.UpgraderPowerBase < 1:
		return fmt.Errorf("upgrader_power_base must be >= 1")
	case t.UpgraderPowerCostBase < 1:
		return fmt.Errorf("upgrader_power_cost_base must be >= 1")
	case t.UpgraderPowerCostGrowthPermille < 1000:
		return fmt.Errorf("upgrader_power_cost_growth_permille must be >= 1000")
	}
	for k, v := range t.StarterInventory {
		if v < 0 {
			return fmt.Errorf("starter_inventory %s must be >= 0", k)
		}
	}
	return nil
}
