package store

import (
	"sort"

	"coinfactory.ai/internal/sim/world/kernel/model"
)

func (s *ResourceStore) Get(p model.Vec2i) (model.ResourceNode, bool) {
	r, ok := s.Resources[p]
	return r, ok
}

func (s *ResourceStore) Set(p model.Vec2i, r model.ResourceNode) {
	s.Resources[p] = r
}

// Delete removes a node and reports whether one was there.
func (s *ResourceStore) Delete(p model.Vec2i) bool {
	if _, ok := s.Resources[p]; !ok {
		return false
	}
	delete(s.Resources, p)
	return true
}

func (s *ResourceStore) IsGenerated(k ChunkKey) bool {
	_, ok := s.Generated[k]
	return ok
}

func (s *ResourceStore) GeneratedKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Generated))
	for k := range s.Generated {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CX < keys[j].CX
	})
	return keys
}

func (s *ResourceStore) SortedPositions() []model.Vec2i {
	return SortPositions(s.Resources)
}

// SortPositions orders the keys of any cell map by Y then X.
func SortPositions[V any](m map[model.Vec2i]V) []model.Vec2i {
	out := make([]model.Vec2i, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
