package model

import "testing"

func TestParseKeyRoundTrip(t *testing.T) {
	for _, v := range []Vec2i{{X: 0, Y: 0}, {X: -3, Y: 12}, {X: 1000, Y: -1}} {
		got, err := ParseKey(v.Key())
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", v.Key(), err)
		}
		if got != v {
			t.Fatalf("ParseKey(%q)=%v want %v", v.Key(), got, v)
		}
	}
	for _, bad := range []string{"", "1", "a,b", "1,", ",2"} {
		if _, err := ParseKey(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDirectionOffsetsAndRotation(t *testing.T) {
	want := map[Direction]Vec2i{
		DirUp:    {X: 0, Y: -1},
		DirRight: {X: 1, Y: 0},
		DirDown:  {X: 0, Y: 1},
		DirLeft:  {X: -1, Y: 0},
	}
	for d, off := range want {
		if got := d.Offset(); got != off {
			t.Fatalf("%s offset=%v want %v", d, got, off)
		}
	}
	if DirLeft.Next() != DirUp {
		t.Fatalf("rotation should wrap from LEFT to UP")
	}
	c := &Conveyor{Dir: DirDown}
	c.Rotate()
	if c.Direction() != DirLeft {
		t.Fatalf("conveyor dir=%s want LEFT", c.Direction())
	}
}

func TestNewBuildingDefaults(t *testing.T) {
	b, err := NewBuilding(KindFactory, 0)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if f := b.(*Factory); f.Cooldown != 0 {
		t.Fatalf("new factory cooldown=%d want 0", f.Cooldown)
	}
	b, _ = NewBuilding(KindUpgrader, 0)
	if b.(*Upgrader).Dir != DirUp {
		t.Fatalf("new upgrader should face up")
	}
	if _, err := NewBuilding(KindGenerator, 0); err == nil {
		t.Fatalf("generator without resource should fail")
	}
	b, err = NewBuilding(KindGenerator, ResourceCopper)
	if err != nil || b.(*Generator).Resource != ResourceCopper {
		t.Fatalf("generator: b=%v err=%v", b, err)
	}
}

func TestBuildingKindFlags(t *testing.T) {
	if !KindFactory.Refundable() || !KindUpgrader.Refundable() || !KindGenerator.Refundable() {
		t.Fatalf("factory/upgrader/generator must be refundable")
	}
	if KindConveyor.Refundable() || KindCollector.Refundable() {
		t.Fatalf("conveyor/collector must not be refundable")
	}
	if !IsMover(&Conveyor{}) || !IsMover(&Upgrader{}) || IsMover(&Collector{}) {
		t.Fatalf("mover classification mismatch")
	}
	if !AcceptsSpawn(&Conveyor{}) || !AcceptsSpawn(&Collector{}) || AcceptsSpawn(&Upgrader{}) {
		t.Fatalf("spawn target classification mismatch")
	}
	for _, k := range []BuildingKind{KindFactory, KindUpgrader, KindConveyor, KindCollector, KindGenerator} {
		got, err := ParseBuildingKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseBuildingKind(%q)=%v,%v", k.String(), got, err)
		}
	}
}

func TestCloneBuildingIsDeep(t *testing.T) {
	f := &Factory{Cooldown: 3}
	c := CloneBuilding(f).(*Factory)
	c.Cooldown = 9
	if f.Cooldown != 3 {
		t.Fatalf("clone aliased original")
	}
}

func TestItemSetOrderAndRemoval(t *testing.T) {
	s := NewItemSet()
	a := s.Spawn(Vec2i{X: 1, Y: 1}, 1)
	b := s.Spawn(Vec2i{X: 2, Y: 2}, 2)
	c := s.Spawn(Vec2i{X: 1, Y: 1}, 3)
	if a.ID != 1 || b.ID != 2 || c.ID != 3 {
		t.Fatalf("ids=%d,%d,%d", a.ID, b.ID, c.ID)
	}
	on := s.OnCell(Vec2i{X: 1, Y: 1})
	if len(on) != 2 || on[0] != a || on[1] != c {
		t.Fatalf("OnCell order mismatch: %v", on)
	}
	s.RemoveAt(0)
	if s.Len() != 2 || s.At(0) != b || s.At(1) != c {
		t.Fatalf("RemoveAt broke order")
	}
	removed := s.Retain(func(it *Item) bool { return it.Value > 2 })
	if removed != 1 || s.Len() != 1 || s.At(0) != c {
		t.Fatalf("Retain mismatch: removed=%d len=%d", removed, s.Len())
	}
}

func TestItemSetRestoreAdvancesCounter(t *testing.T) {
	s := NewItemSet()
	s.Restore(Item{ID: 41, Pos: Vec2i{X: 0, Y: 0}, Value: 5})
	if got := s.Spawn(Vec2i{}, 1).ID; got != 42 {
		t.Fatalf("next id=%d want 42", got)
	}
}

func TestInventoryTakeNeverNegative(t *testing.T) {
	inv := NewInventory()
	inv.Add(ItemIron, 3)
	if inv.Take(ItemIron, 4) {
		t.Fatalf("Take should refuse overspend")
	}
	if inv.Count(ItemIron) != 3 {
		t.Fatalf("failed Take must not mutate")
	}
	if !inv.Has(map[string]int{ItemIron: 3, ItemCopper: 0}) {
		t.Fatalf("Has should ignore zero costs")
	}
	if !inv.Take(ItemIron, 3) || inv.Count(ItemIron) != 0 {
		t.Fatalf("Take exact amount failed")
	}
}

func TestPlayerCellFloors(t *testing.T) {
	p := Player{X: -0.5, Y: 2.9}
	if got := p.Cell(); got != (Vec2i{X: -1, Y: 2}) {
		t.Fatalf("Cell=%v", got)
	}
}
