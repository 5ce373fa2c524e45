package store

import (
	"fmt"

	snapv1 "coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

// ExportResources flattens resource nodes in position order.
func ExportResources(s *ResourceStore) []snapv1.ResourceV1 {
	out := make([]snapv1.ResourceV1, 0, len(s.Resources))
	for _, p := range s.SortedPositions() {
		r := s.Resources[p]
		out = append(out, snapv1.ResourceV1{Key: p.Key(), Type: r.Type.String(), Color: r.Color})
	}
	return out
}

func ExportChunks(s *ResourceStore) []string {
	keys := s.GeneratedKeys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

// ImportResources rebuilds a store from snapshot lists. Colors are derived
// from the type so stale colors in old files are ignored.
func ImportResources(gen WorldGen, resources []snapv1.ResourceV1, chunks []string) (*ResourceStore, error) {
	s := NewResourceStore(gen)
	for _, r := range resources {
		p, err := model.ParseKey(r.Key)
		if err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
		rt, err := model.ParseResourceType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", r.Key, err)
		}
		if _, dup := s.Resources[p]; dup {
			return nil, fmt.Errorf("duplicate resource at %s", r.Key)
		}
		s.Resources[p] = model.NewResourceNode(rt)
	}
	for _, c := range chunks {
		k, err := ParseChunkKey(c)
		if err != nil {
			return nil, err
		}
		s.Generated[k] = struct{}{}
	}
	return s, nil
}
