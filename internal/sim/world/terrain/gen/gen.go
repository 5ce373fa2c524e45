package gen

import (
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/logic/mathx"
)

// Salts keep the two ore rolls independent of each other.
const (
	saltIron   = 101
	saltCopper = 102
)

func FloorDiv(a, b int) int {
	return mathx.FloorDiv(a, b)
}

func Mod(a, b int) int {
	return mathx.Mod(a, b)
}

// WithinSpawnClear reports whether a cell lies in the starting safe box
// (|x| < half && |y| < half).
func WithinSpawnClear(x, y, half int) bool {
	if half <= 0 {
		return false
	}
	return mathx.AbsInt(x) < half && mathx.AbsInt(y) < half
}

func ClampPermille(v int) int {
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}

// Roll returns a value in [0,1000) that only depends on seed, salt and cell.
func Roll(seed int64, salt int64, x, y int) uint64 {
	return mathx.Hash2(seed+salt, x, y) % 1000
}

// OreAt decides which resource, if any, a cell receives on first visit.
// Copper is only rolled when the iron roll fails.
func OreAt(seed int64, x, y, ironPermille, copperPermille int) (model.ResourceType, bool) {
	if Roll(seed, saltIron, x, y) < uint64(ClampPermille(ironPermille)) {
		return model.ResourceIron, true
	}
	if Roll(seed, saltCopper, x, y) < uint64(ClampPermille(copperPermille)) {
		return model.ResourceCopper, true
	}
	return 0, false
}
