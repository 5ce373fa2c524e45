package runtime

import (
	"testing"

	"coinfactory.ai/internal/sim/world/kernel/model"
)

type grid map[model.Vec2i]model.Building

func (g grid) ops(score *int) Ops {
	return Ops{
		BuildingAt: func(p model.Vec2i) model.Building { return g[p] },
		AddScore:   func(n int) { *score += n },
	}
}

func at(x, y int) model.Vec2i { return model.Vec2i{X: x, Y: y} }

func TestMergeAtSumsIntoFirst(t *testing.T) {
	items := model.NewItemSet()
	a := items.Spawn(at(2, 2), 3)
	items.Spawn(at(0, 0), 1)
	items.Spawn(at(2, 2), 4)
	if n := MergeAt(items, at(2, 2)); n != 1 {
		t.Fatalf("absorbed: got %d want 1", n)
	}
	on := items.OnCell(at(2, 2))
	if len(on) != 1 || on[0] != a || a.Value != 7 {
		t.Fatalf("expected single item value 7 with first id, got %+v", on)
	}
	if items.Len() != 2 {
		t.Fatalf("len: got %d want 2", items.Len())
	}
	if n := MergeAt(items, at(0, 0)); n != 0 {
		t.Fatalf("single item should not merge, got %d", n)
	}
}

func TestConveyorsConvergeAndMerge(t *testing.T) {
	g := grid{
		at(0, 0): &model.Conveyor{Dir: model.DirRight},
		at(2, 0): &model.Conveyor{Dir: model.DirLeft},
	}
	items := model.NewItemSet()
	items.Spawn(at(0, 0), 3)
	items.Spawn(at(2, 0), 4)
	var score int
	moved, merged := Advance(1, items, 1, g.ops(&score))
	if moved != 2 || merged != 1 {
		t.Fatalf("moved=%d merged=%d", moved, merged)
	}
	if items.Len() != 1 || items.At(0).Pos != at(1, 0) || items.At(0).Value != 7 {
		t.Fatalf("unexpected items: %+v", items.At(0))
	}
}

func TestUpgraderAppliesOncePerTick(t *testing.T) {
	g := grid{at(0, 0): &model.Upgrader{Dir: model.DirRight}}
	items := model.NewItemSet()
	it := items.Spawn(at(0, 0), 1)
	var score int
	PlanMoves(items, 2, g.ops(&score))
	if it.Value != 3 {
		t.Fatalf("value: got %d want 3", it.Value)
	}
	if it.ProcessedThisTick {
		t.Fatalf("processed flag must be cleared before the next tick")
	}
}

func TestItemsOffMoversStay(t *testing.T) {
	g := grid{at(0, 0): &model.Factory{}}
	items := model.NewItemSet()
	items.Spawn(at(0, 0), 1)
	items.Spawn(at(5, 5), 1)
	var score int
	moved, _ := Advance(1, items, 1, g.ops(&score))
	if moved != 0 {
		t.Fatalf("moved: got %d want 0", moved)
	}
	if items.At(0).Pos != at(0, 0) || items.At(1).Pos != at(5, 5) {
		t.Fatalf("items moved off movers")
	}
}

func TestCollectScoresAndRemoves(t *testing.T) {
	g := grid{
		at(1, 1): &model.Collector{},
		at(3, 3): &model.Collector{},
	}
	items := model.NewItemSet()
	items.Spawn(at(1, 1), 7)
	keep := items.Spawn(at(2, 2), 5)
	items.Spawn(at(3, 3), 2)
	var score int
	var audits int
	ops := g.ops(&score)
	ops.AuditEvent = func(uint64, string, model.Vec2i, map[string]any) { audits++ }
	n, total := Collect(4, items, ops)
	if n != 2 || total != 9 || score != 9 {
		t.Fatalf("collected=%d total=%d score=%d", n, total, score)
	}
	if items.Len() != 1 || items.At(0) != keep {
		t.Fatalf("wrong survivors")
	}
	if audits != 2 {
		t.Fatalf("audits: got %d want 2", audits)
	}
}
