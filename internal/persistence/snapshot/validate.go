package snapshot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxPlayerCoord matches the bound the world enforces on MOVE.
const MaxPlayerCoord = 1 << 40

var (
	buildingTypes = map[string]struct{}{
		"factory": {}, "upgrader": {}, "conveyor": {}, "collector": {}, "generator": {},
	}
	resourceTypes = map[string]struct{}{
		"iron": {}, "copper": {},
	}
	inventorySlots = map[string]struct{}{
		"iron": {}, "copper": {}, "factory": {}, "upgrader": {}, "generator": {},
	}
)

// ErrInvalid wraps every semantic validation failure.
var ErrInvalid = errors.New("invalid snapshot")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks invariants the engine relies on. A snapshot that fails must be
// discarded as a whole.
func (s *SnapshotV1) Validate() error {
	if s.Header.Version != Version {
		return invalid("version %d", s.Header.Version)
	}
	if s.Score < 0 {
		return invalid("negative score %d", s.Score)
	}
	if s.UpgraderPower < 1 {
		return invalid("upgrader_power %d < 1", s.UpgraderPower)
	}
	if s.UpgraderPowerCost < 1 {
		return invalid("upgrader_power_cost %d < 1", s.UpgraderPowerCost)
	}
	if math.IsNaN(s.Player.X) || math.IsNaN(s.Player.Y) || math.IsInf(s.Player.X, 0) || math.IsInf(s.Player.Y, 0) {
		return invalid("player position not finite")
	}
	if math.Abs(s.Player.X) > MaxPlayerCoord || math.Abs(s.Player.Y) > MaxPlayerCoord {
		return invalid("player position out of range")
	}
	for k, v := range s.Player.Inventory {
		if _, ok := inventorySlots[k]; !ok {
			return invalid("unknown inventory slot %q", k)
		}
		if v < 0 {
			return invalid("negative inventory %s=%d", k, v)
		}
	}

	seen := make(map[[2]int]string, len(s.Buildings))
	for _, b := range s.Buildings {
		p, err := parsePair(b.Key)
		if err != nil {
			return invalid("building key: %v", err)
		}
		if _, dup := seen[p]; dup {
			return invalid("duplicate building at %s", b.Key)
		}
		seen[p] = b.Type
		if _, ok := buildingTypes[b.Type]; !ok {
			return invalid("unknown building type %q at %s", b.Type, b.Key)
		}
		if b.Direction < 0 || b.Direction > 3 {
			return invalid("direction %d at %s", b.Direction, b.Key)
		}
		if b.Type == "generator" {
			if _, ok := resourceTypes[b.ResourceType]; !ok {
				return invalid("generator at %s has resource_type %q", b.Key, b.ResourceType)
			}
		}
	}

	seenRes := make(map[[2]int]struct{}, len(s.Resources))
	for _, r := range s.Resources {
		p, err := parsePair(r.Key)
		if err != nil {
			return invalid("resource key: %v", err)
		}
		if _, dup := seenRes[p]; dup {
			return invalid("duplicate resource at %s", r.Key)
		}
		seenRes[p] = struct{}{}
		if _, ok := resourceTypes[r.Type]; !ok {
			return invalid("unknown resource type %q at %s", r.Type, r.Key)
		}
		// Only a generator may sit on a resource node.
		if typ, ok := seen[p]; ok && typ != "generator" {
			return invalid("%s shares cell %s with a resource", typ, r.Key)
		}
	}

	seenItems := make(map[uint64]struct{}, len(s.Items))
	for _, it := range s.Items {
		if it.Value < 1 {
			return invalid("item %d value %d", it.ID, it.Value)
		}
		if _, dup := seenItems[it.ID]; dup {
			return invalid("duplicate item id %d", it.ID)
		}
		seenItems[it.ID] = struct{}{}
	}

	seenChunks := make(map[[2]int]struct{}, len(s.Chunks))
	for _, c := range s.Chunks {
		p, err := parsePair(c)
		if err != nil {
			return invalid("chunk key: %v", err)
		}
		if _, dup := seenChunks[p]; dup {
			return invalid("duplicate chunk %s", c)
		}
		seenChunks[p] = struct{}{}
	}
	return nil
}

func parsePair(s string) ([2]int, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return [2]int{}, fmt.Errorf("bad key %q", s)
	}
	x, err := strconv.Atoi(a)
	if err != nil {
		return [2]int{}, fmt.Errorf("bad key %q", s)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return [2]int{}, fmt.Errorf("bad key %q", s)
	}
	return [2]int{x, y}, nil
}
