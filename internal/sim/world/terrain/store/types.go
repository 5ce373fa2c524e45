package store

import (
	"fmt"
	"strconv"
	"strings"

	"coinfactory.ai/internal/sim/world/kernel/model"
	genpkg "coinfactory.ai/internal/sim/world/terrain/gen"
)

// ChunkSize is the edge length of a generation block in tiles.
const ChunkSize = 16

type ChunkKey struct {
	CX int
	CY int
}

func (k ChunkKey) String() string {
	return strconv.Itoa(k.CX) + "," + strconv.Itoa(k.CY)
}

func ParseChunkKey(s string) (ChunkKey, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return ChunkKey{}, fmt.Errorf("bad chunk key %q", s)
	}
	cx, err := strconv.Atoi(a)
	if err != nil {
		return ChunkKey{}, fmt.Errorf("bad chunk key %q: %w", s, err)
	}
	cy, err := strconv.Atoi(b)
	if err != nil {
		return ChunkKey{}, fmt.Errorf("bad chunk key %q: %w", s, err)
	}
	return ChunkKey{CX: cx, CY: cy}, nil
}

// ChunkOf returns the block containing a cell.
func ChunkOf(p model.Vec2i) ChunkKey {
	return ChunkKey{CX: genpkg.FloorDiv(p.X, ChunkSize), CY: genpkg.FloorDiv(p.Y, ChunkSize)}
}

type WorldGen struct {
	Seed int64

	SpawnClearHalfWidth int
	IronPermille        int
	CopperPermille      int
}

// DefaultWorldGen mirrors the rates of normal play.
func DefaultWorldGen(seed int64) WorldGen {
	return WorldGen{
		Seed:                seed,
		SpawnClearHalfWidth: 10,
		IronPermille:        30,
		CopperPermille:      20,
	}
}

// ResourceStore owns resource nodes and the set of chunks already rolled.
// Generated only grows; Resources shrinks when nodes are mined.
type ResourceStore struct {
	Gen       WorldGen
	Resources map[model.Vec2i]model.ResourceNode
	Generated map[ChunkKey]struct{}
}

func NewResourceStore(gen WorldGen) *ResourceStore {
	return &ResourceStore{
		Gen:       gen,
		Resources: map[model.Vec2i]model.ResourceNode{},
		Generated: map[ChunkKey]struct{}{},
	}
}
