package worldtest

import (
	"testing"

	"coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/catalogs"
	world "coinfactory.ai/internal/sim/world"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

// Harness drives a world through its exported API only:
// - Queue() buffers ACTs for the next Step()
// - Step()/StepN() advance through StepOnce and keep the digest trail
// - State() renders the STATE frame around the player
type Harness struct {
	T *testing.T
	W *world.World

	pending []world.RecordedAction
	Digests []string
}

func DefaultConfig() world.WorldConfig {
	return world.WorldConfig{
		ID:                  "test",
		TickDurationMS:      1000,
		Seed:                42,
		SpawnClearHalfWidth: 10,
		IronPermille:        300,
		CopperPermille:      200,
		ViewRadiusTiles:     24,
		SnapshotEveryTicks:  60,
		StarterInventory:    map[string]int{model.ItemIron: 20, model.ItemCopper: 10},
	}
}

func NewHarness(t *testing.T, cfg world.WorldConfig, cats *catalogs.Catalogs) *Harness {
	t.Helper()
	w, err := world.New(cfg, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return &Harness{T: t, W: w}
}

// NewHarnessWithWorld wraps an existing world, e.g. one restored from a snapshot.
func NewHarnessWithWorld(t *testing.T, w *world.World) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	return &Harness{T: t, W: w}
}

func (h *Harness) Queue(act protocol.ActMsg) {
	h.pending = append(h.pending, world.RecordedAction{Act: act})
}

func (h *Harness) QueuePlace(x, y int, building string) {
	h.Queue(protocol.ActMsg{Action: protocol.ActPlace, Pos: &[2]int{x, y}, Building: building})
}

func (h *Harness) QueueRotate(x, y int) {
	h.Queue(protocol.ActMsg{Action: protocol.ActRotate, Pos: &[2]int{x, y}})
}

func (h *Harness) QueueCraft(recipe string) {
	h.Queue(protocol.ActMsg{Action: protocol.ActCraft, Recipe: recipe})
}

func (h *Harness) Step() uint64 {
	h.T.Helper()
	acts := h.pending
	h.pending = nil
	tick, digest := h.W.StepOnce(acts)
	h.Digests = append(h.Digests, digest)
	return tick
}

func (h *Harness) StepN(n int) uint64 {
	var tick uint64
	for i := 0; i < n; i++ {
		tick = h.Step()
	}
	return tick
}

func (h *Harness) State() protocol.StateMsg {
	p := h.W.Player()
	return h.W.BuildState(p.Cell(), h.W.Config().ViewRadiusTiles)
}

func (h *Harness) Snapshot() snapshot.SnapshotV1 {
	return h.W.ExportSnapshot()
}

func (h *Harness) ItemsAt(x, y int) []model.Item {
	return h.W.ItemsOn(model.Vec2i{X: x, Y: y})
}
