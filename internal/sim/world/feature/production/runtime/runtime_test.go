package runtime

import (
	"testing"

	"coinfactory.ai/internal/sim/world/kernel/model"
)

func at(x, y int) model.Vec2i { return model.Vec2i{X: x, Y: y} }

type harness struct {
	items *model.ItemSet
	inv   model.Inventory
}

func newHarness() *harness {
	return &harness{items: model.NewItemSet(), inv: model.NewInventory()}
}

func (h *harness) ops() Ops {
	return Ops{
		SpawnItem: func(p model.Vec2i, v int) *model.Item { return h.items.Spawn(p, v) },
		MergeAt: func(p model.Vec2i) int {
			on := h.items.OnCell(p)
			if len(on) < 2 {
				return 0
			}
			for _, it := range on[1:] {
				on[0].Value += it.Value
			}
			keep := on[0]
			return h.items.Retain(func(it *model.Item) bool { return it.Pos != p || it == keep })
		},
		AddInventory: func(id string, n int) { h.inv.Add(id, n) },
	}
}

func TestFactoryStallsUntilOutletAppears(t *testing.T) {
	f := &model.Factory{}
	b := map[model.Vec2i]model.Building{at(0, 0): f}
	h := newHarness()
	for tick := uint64(1); tick <= 3; tick++ {
		res := RunFactories(tick, b, 5, h.ops())
		if res.Spawned != 0 || res.Stalled != 1 || f.Cooldown != 0 {
			t.Fatalf("tick %d: %+v cooldown=%d", tick, res, f.Cooldown)
		}
	}
	b[at(1, 0)] = &model.Conveyor{}
	res := RunFactories(4, b, 5, h.ops())
	if res.Spawned != 1 || f.Cooldown != 5 {
		t.Fatalf("after outlet: %+v cooldown=%d", res, f.Cooldown)
	}
	if h.items.Len() != 1 || h.items.At(0).Pos != at(1, 0) || h.items.At(0).Value != 1 {
		t.Fatalf("unexpected spawn %+v", h.items.At(0))
	}
}

func TestFactorySpawnsEveryCooldown(t *testing.T) {
	f := &model.Factory{}
	b := map[model.Vec2i]model.Building{at(0, 0): f, at(0, 1): &model.Collector{}}
	h := newHarness()
	spawned := 0
	for tick := uint64(1); tick <= 11; tick++ {
		spawned += RunFactories(tick, b, 5, h.ops()).Spawned
	}
	// Spawns at ticks 1, 6 and 11.
	if spawned != 3 {
		t.Fatalf("spawned: got %d want 3", spawned)
	}
	// Items never moved so they merged onto one cell.
	if h.items.Len() != 1 || h.items.At(0).Value != 3 {
		t.Fatalf("expected merged value 3, got len=%d", h.items.Len())
	}
}

func TestSpawnTargetOrder(t *testing.T) {
	b := map[model.Vec2i]model.Building{
		at(-1, 0): &model.Conveyor{},
		at(0, 1):  &model.Collector{},
		at(0, -1): &model.Factory{},
	}
	got, ok := SpawnTarget(b, at(0, 0))
	if !ok || got != at(0, 1) {
		t.Fatalf("got %v %v want 0,1", got, ok)
	}
}

func TestGeneratorsAddResources(t *testing.T) {
	b := map[model.Vec2i]model.Building{
		at(12, 0): &model.Generator{Resource: model.ResourceIron},
		at(13, 0): &model.Generator{Resource: model.ResourceIron},
		at(14, 0): &model.Generator{Resource: model.ResourceCopper},
	}
	h := newHarness()
	gen := RunGenerators(b, h.ops())
	if gen["iron"] != 2 || gen["copper"] != 1 {
		t.Fatalf("generated: %v", gen)
	}
	if h.inv.Count("iron") != 2 || h.inv.Count("copper") != 1 {
		t.Fatalf("inventory: %v", h.inv)
	}
}
