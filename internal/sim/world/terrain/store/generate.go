package store

import (
	"coinfactory.ai/internal/sim/world/kernel/model"
	genpkg "coinfactory.ai/internal/sim/world/terrain/gen"
)

// GenerateChunk rolls resources for one block the first time it is seen.
// It returns false when the block was already generated.
func (s *ResourceStore) GenerateChunk(cx, cy int) bool {
	k := ChunkKey{CX: cx, CY: cy}
	if _, ok := s.Generated[k]; ok {
		return false
	}
	s.Generated[k] = struct{}{}

	for ly := 0; ly < ChunkSize; ly++ {
		for lx := 0; lx < ChunkSize; lx++ {
			wx := cx*ChunkSize + lx
			wy := cy*ChunkSize + ly
			if genpkg.WithinSpawnClear(wx, wy, s.Gen.SpawnClearHalfWidth) {
				continue
			}
			rt, ok := genpkg.OreAt(s.Gen.Seed, wx, wy, s.Gen.IronPermille, s.Gen.CopperPermille)
			if !ok {
				continue
			}
			p := model.Vec2i{X: wx, Y: wy}
			if _, exists := s.Resources[p]; exists {
				continue
			}
			s.Resources[p] = model.NewResourceNode(rt)
		}
	}
	return true
}

// EnsureArea generates every chunk overlapping the inclusive cell box and
// returns how many were new.
func (s *ResourceStore) EnsureArea(min, max model.Vec2i) int {
	if max.X < min.X {
		min.X, max.X = max.X, min.X
	}
	if max.Y < min.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	lo := ChunkOf(min)
	hi := ChunkOf(max)
	n := 0
	for cy := lo.CY; cy <= hi.CY; cy++ {
		for cx := lo.CX; cx <= hi.CX; cx++ {
			if s.GenerateChunk(cx, cy) {
				n++
			}
		}
	}
	return n
}
