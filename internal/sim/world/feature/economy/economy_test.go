package economy

import (
	"testing"

	"coinfactory.ai/internal/sim/catalogs"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

func TestCraftSpendsExactly(t *testing.T) {
	r := catalogs.Default().Recipes.ByID["factory"]
	inv := model.NewInventory()
	inv.Add(model.ItemIron, 6)
	inv.Add(model.ItemCopper, 2)
	if !Craft(inv, r) {
		t.Fatalf("craft failed")
	}
	if inv.Count(model.ItemIron) != 1 || inv.Count(model.ItemCopper) != 0 || inv.Count(model.ItemFactory) != 1 {
		t.Fatalf("inventory: %v", inv)
	}
	if Craft(inv, r) {
		t.Fatalf("second craft should fail")
	}
	if inv.Count(model.ItemIron) != 1 || inv.Count(model.ItemFactory) != 1 {
		t.Fatalf("failed craft changed inventory: %v", inv)
	}
}

func TestShortMessages(t *testing.T) {
	c := catalogs.Default().Recipes
	cases := map[string]string{
		"factory":   "Need 5 Iron, 2 Copper!",
		"upgrader":  "Need 10 Iron, 5 Copper!",
		"generator": "Need 20 Iron, 10 Copper!",
	}
	for id, want := range cases {
		if got := ShortMessage(c.ByID[id]); got != want {
			t.Fatalf("%s: got %q want %q", id, got, want)
		}
	}
	if got := CraftedMessage(c.ByID["factory"]); got != "Crafted Factory!" {
		t.Fatalf("crafted: %q", got)
	}
}

func TestShopCostGrowth(t *testing.T) {
	s := Shop{Power: 1, Cost: 100, GrowthPermille: DefaultGrowthPermille}
	score := 300
	if !s.Buy(&score) || s.Power != 2 || s.Cost != 150 || score != 200 {
		t.Fatalf("first buy: %+v score=%d", s, score)
	}
	if !s.Buy(&score) || s.Power != 3 || s.Cost != 225 || score != 50 {
		t.Fatalf("second buy: %+v score=%d", s, score)
	}
	if s.Buy(&score) {
		t.Fatalf("buy with short score should fail")
	}
	if s.Power != 3 || s.Cost != 225 || score != 50 {
		t.Fatalf("failed buy mutated: %+v score=%d", s, score)
	}
}

func TestNextCostFloorsAndGrows(t *testing.T) {
	if got := NextCost(225, 1500); got != 337 {
		t.Fatalf("got %d want 337", got)
	}
	if got := NextCost(1, 1500); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
	if got := NextCost(3, 1500); got != 4 {
		t.Fatalf("got %d want 4", got)
	}
}
