package world

import (
	"math"
	"testing"
	"time"

	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(WorldConfig{
		ID:                  "test",
		TickDurationMS:      1000,
		Seed:                42,
		SpawnClearHalfWidth: 10,
		IronPermille:        300,
		CopperPermille:      200,
		ViewRadiusTiles:     24,
		SnapshotEveryTicks:  60,
		StarterInventory:    map[string]int{model.ItemIron: 20, model.ItemCopper: 10},
	}, nil)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func mustOK(t *testing.T, what string, r ActionResult) {
	t.Helper()
	if !r.OK {
		t.Fatalf("%s: code=%s msg=%q", what, r.Code, r.Message)
	}
}

func mustFail(t *testing.T, what string, r ActionResult, code, msg string) {
	t.Helper()
	if r.OK {
		t.Fatalf("%s: expected failure", what)
	}
	if r.Code != code {
		t.Fatalf("%s: code=%s want %s", what, r.Code, code)
	}
	if msg != "" && r.Message != msg {
		t.Fatalf("%s: msg=%q want %q", what, r.Message, msg)
	}
}

func firstResource(t *testing.T, w *World) (Vec2i, model.ResourceNode) {
	t.Helper()
	ps := w.terrain.SortedPositions()
	if len(ps) == 0 {
		t.Fatalf("no resources generated")
	}
	return ps[0], w.terrain.Resources[ps[0]]
}

func TestNew_StarterInventory(t *testing.T) {
	w := newTestWorld(t)
	inv := w.Player().Inventory
	if inv[model.ItemIron] != 20 || inv[model.ItemCopper] != 10 || inv[model.ItemFactory] != 0 {
		t.Fatalf("inventory=%v", inv)
	}
	if w.UpgraderPower() != 1 || w.UpgraderPowerCost() != 100 || w.Score() != 0 {
		t.Fatalf("economy power=%d cost=%d score=%d", w.UpgraderPower(), w.UpgraderPowerCost(), w.Score())
	}
}

func TestNew_RejectsUnknownStarterSlot(t *testing.T) {
	if _, err := New(WorldConfig{Seed: 1, StarterInventory: map[string]int{"gold": 1}}, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCraftPlaceAndFirstSpawn(t *testing.T) {
	w := newTestWorld(t)

	r := w.Craft(model.ItemFactory)
	mustOK(t, "craft", r)
	if r.Message != "Crafted Factory!" {
		t.Fatalf("msg=%q", r.Message)
	}
	inv := w.Player().Inventory
	if inv[model.ItemIron] != 15 || inv[model.ItemCopper] != 8 || inv[model.ItemFactory] != 1 {
		t.Fatalf("inventory after craft=%v", inv)
	}

	mustOK(t, "place factory", w.Place(Vec2i{X: 0, Y: 0}, model.KindFactory))
	mustOK(t, "place conveyor", w.Place(Vec2i{X: 0, Y: -1}, model.KindConveyor))
	// Up -> right -> down.
	mustOK(t, "rotate", w.Rotate(Vec2i{X: 0, Y: -1}))
	mustOK(t, "rotate", w.Rotate(Vec2i{X: 0, Y: -1}))
	if d := w.Building(Vec2i{X: 0, Y: -1}).(model.Directional).Direction(); d != model.DirDown {
		t.Fatalf("direction=%v", d)
	}
	if w.Player().Inventory[model.ItemFactory] != 0 {
		t.Fatalf("factory not consumed")
	}

	res := w.RunTick()
	if res.Spawned != 1 {
		t.Fatalf("tick 1 spawned=%d", res.Spawned)
	}
	items := w.Items()
	if len(items) != 1 || items[0].Pos != (Vec2i{X: 0, Y: -1}) || items[0].Value != 1 {
		t.Fatalf("after tick 1 items=%+v", items)
	}

	for i := 0; i < 4; i++ {
		w.RunTick()
	}
	items = w.Items()
	if len(items) != 1 {
		t.Fatalf("after tick 5 items=%+v", items)
	}
	// The conveyor points at the factory, whose cell does not move items.
	if items[0].Pos != (Vec2i{X: 0, Y: 0}) || items[0].Value != 1 {
		t.Fatalf("after tick 5 item=%+v", items[0])
	}

	res = w.RunTick()
	if res.Spawned != 1 || len(w.Items()) != 2 {
		t.Fatalf("tick 6 spawned=%d items=%d", res.Spawned, len(w.Items()))
	}
}

func TestCollectorPickup(t *testing.T) {
	w := newTestWorld(t)
	p := Vec2i{X: 3, Y: 3}
	mustOK(t, "place collector", w.Place(p, model.KindCollector))
	w.items.Spawn(p, 7)

	res := w.RunTick()
	if res.Collected != 1 || res.ScoreGain != 7 || !res.Changed {
		t.Fatalf("res=%+v", res)
	}
	if w.Score() != 7 || len(w.Items()) != 0 {
		t.Fatalf("score=%d items=%d", w.Score(), len(w.Items()))
	}
}

func TestBuyUpgraderPower(t *testing.T) {
	w := newTestWorld(t)
	mustFail(t, "buy broke", w.BuyUpgraderPower(), protocol.ErrNoResource, "Not enough score!")

	w.score = 1000
	r := w.BuyUpgraderPower()
	mustOK(t, "buy 1", r)
	if r.Message != "Upgraders now add +2!" {
		t.Fatalf("msg=%q", r.Message)
	}
	if w.UpgraderPowerCost() != 150 || w.Score() != 900 {
		t.Fatalf("cost=%d score=%d", w.UpgraderPowerCost(), w.Score())
	}
	mustOK(t, "buy 2", w.BuyUpgraderPower())
	if w.UpgraderPowerCost() != 225 || w.UpgraderPower() != 3 || w.Score() != 750 {
		t.Fatalf("cost=%d power=%d score=%d", w.UpgraderPowerCost(), w.UpgraderPower(), w.Score())
	}
}

func TestActionFailures(t *testing.T) {
	w := newTestWorld(t)
	origin := Vec2i{}

	mustOK(t, "place conveyor", w.Place(origin, model.KindConveyor))
	mustFail(t, "place on occupied", w.Place(origin, model.KindCollector), protocol.ErrBlocked, "Cannot build here!")
	mustFail(t, "factory without stock", w.Place(Vec2i{X: 1}, model.KindFactory), protocol.ErrNoResource, "No factories in inventory!")
	mustFail(t, "generator off resource", w.Place(Vec2i{X: 2}, model.KindGenerator), protocol.ErrInvalidTarget, "Must place on a resource node!")
	mustFail(t, "mine empty", w.Mine(Vec2i{X: 4}), protocol.ErrInvalidTarget, "Nothing to mine!")

	mustOK(t, "place collector", w.Place(Vec2i{X: 5}, model.KindCollector))
	mustFail(t, "rotate collector", w.Rotate(Vec2i{X: 5}), protocol.ErrInvalidTarget, "Can only rotate conveyors/upgraders!")
	mustFail(t, "rotate empty", w.Rotate(Vec2i{X: 6}), protocol.ErrInvalidTarget, "Can only rotate conveyors/upgraders!")

	mustFail(t, "craft generator", w.Craft(model.ItemGenerator), protocol.ErrNoResource, "Need 20 Iron, 10 Copper!")
	mustFail(t, "unknown recipe", w.Craft("rocket"), protocol.ErrBadRequest, "")
	mustFail(t, "unknown action", w.Apply("", protocol.ActMsg{Action: "DANCE"}), protocol.ErrBadRequest, "")
	mustFail(t, "unknown building", w.Apply("", protocol.ActMsg{Action: protocol.ActPlace, Pos: &[2]int{7, 7}, Building: "tower"}), protocol.ErrBadRequest, "")
	mustFail(t, "place without pos", w.Apply("", protocol.ActMsg{Action: protocol.ActPlace, Building: "conveyor"}), protocol.ErrBadRequest, "")

	// Removing nothing succeeds.
	mustOK(t, "remove empty", w.Remove(Vec2i{X: 9, Y: 9}))

	if got := len(w.recorded); got != 14 {
		t.Fatalf("recorded=%d want 14", got)
	}
}

func TestRemoveRefundsStockedKinds(t *testing.T) {
	w := newTestWorld(t)
	mustOK(t, "craft", w.Craft(model.ItemFactory))
	mustOK(t, "place", w.Place(Vec2i{}, model.KindFactory))
	mustOK(t, "remove", w.Remove(Vec2i{}))
	if w.Player().Inventory[model.ItemFactory] != 1 {
		t.Fatalf("factory not refunded")
	}
	mustOK(t, "place conveyor", w.Place(Vec2i{}, model.KindConveyor))
	mustOK(t, "remove conveyor", w.Remove(Vec2i{}))
	if w.Building(Vec2i{}) != nil {
		t.Fatalf("conveyor still present")
	}
}

func TestMineAndGenerator(t *testing.T) {
	w := newTestWorld(t)
	mustOK(t, "move", w.MovePlayer(0.5, 0.5))
	if len(w.GeneratedChunks()) == 0 {
		t.Fatalf("no chunks generated")
	}
	p, node := firstResource(t, w)

	before := w.Player().Inventory[node.Type.String()]
	mustOK(t, "mine", w.Mine(p))
	if got := w.Player().Inventory[node.Type.String()]; got != before+1 {
		t.Fatalf("%s=%d want %d", node.Type, got, before+1)
	}
	mustFail(t, "mine twice", w.Mine(p), protocol.ErrInvalidTarget, "Nothing to mine!")

	// Regeneration never restores a mined node.
	w.EnsureVisible(Vec2i{}, 24)
	if _, ok := w.Resource(p); ok {
		t.Fatalf("mined node came back")
	}

	q, qnode := firstResource(t, w)
	w.player.Inventory.Add(model.ItemGenerator, 1)
	mustOK(t, "place generator", w.Place(q, model.KindGenerator))
	if _, ok := w.Resource(q); !ok {
		t.Fatalf("generator consumed its node")
	}
	start := w.Player().Inventory[qnode.Type.String()]
	res := w.RunTick()
	if res.Generated != 1 || !res.Changed {
		t.Fatalf("res=%+v", res)
	}
	if got := w.Player().Inventory[qnode.Type.String()]; got != start+1 {
		t.Fatalf("%s=%d want %d", qnode.Type, got, start+1)
	}
}

func TestMoveRejectsNonFinite(t *testing.T) {
	w := newTestWorld(t)
	mustFail(t, "move nan", w.MovePlayer(math.NaN(), 1), protocol.ErrBadRequest, "")
	mustFail(t, "move missing", w.Apply("", protocol.ActMsg{Action: protocol.ActMove}), protocol.ErrBadRequest, "")
}

func TestMoveRejectsOutOfRange(t *testing.T) {
	w := newTestWorld(t)
	done := make(chan ActionResult, 1)
	go func() { done <- w.MovePlayer(1e300, 0) }()
	select {
	case r := <-done:
		mustFail(t, "move far", r, protocol.ErrBadRequest, "player_pos out of range")
	case <-time.After(5 * time.Second):
		t.Fatalf("move far did not return")
	}
	mustFail(t, "move far y", w.MovePlayer(0, -model.MaxCoord-1), protocol.ErrBadRequest, "player_pos out of range")
	if p := w.Player(); p.X != 0 || p.Y != 0 {
		t.Fatalf("player moved to %v,%v", p.X, p.Y)
	}

	mustOK(t, "move edge", w.MovePlayer(model.MaxCoord, -model.MaxCoord))
	if n := w.EnsureVisible(Vec2i{X: math.MinInt64, Y: math.MaxInt64}, 24); n <= 0 || n > 16 {
		t.Fatalf("clamped view generated %d chunks", n)
	}
}

func TestStateVisibleBox(t *testing.T) {
	w := newTestWorld(t)
	mustOK(t, "near", w.Place(Vec2i{X: 2, Y: 2}, model.KindConveyor))
	mustOK(t, "far", w.Place(Vec2i{X: 50, Y: 0}, model.KindConveyor))
	w.items.Spawn(Vec2i{X: 2, Y: 2}, 1)
	w.items.Spawn(Vec2i{X: 50, Y: 0}, 1)

	st := w.BuildState(Vec2i{}, 5)
	if len(st.Buildings) != 1 || st.Buildings[0].Key != "2,2" {
		t.Fatalf("buildings=%+v", st.Buildings)
	}
	if len(st.Items) != 1 || st.Items[0].X != 2 {
		t.Fatalf("items=%+v", st.Items)
	}
	if st.View.Radius != 5 || st.Player.Inventory[model.ItemIron] != 20 {
		t.Fatalf("state=%+v", st)
	}
}

func TestReset(t *testing.T) {
	w := newTestWorld(t)
	mustOK(t, "place", w.Place(Vec2i{}, model.KindConveyor))
	w.RunTick()
	w.score = 50

	w.Reset()
	if len(w.Buildings()) != 0 || w.Score() != 0 || w.Player().Inventory[model.ItemIron] != 20 {
		t.Fatalf("not reset")
	}
	if w.CurrentTick() != 1 {
		t.Fatalf("tick=%d want 1", w.CurrentTick())
	}
	if len(w.GeneratedChunks()) == 0 {
		t.Fatalf("no terrain around the origin after reset")
	}
	w.step()
	if w.Metrics().ResetTotal != 1 {
		t.Fatalf("reset_total=%d", w.Metrics().ResetTotal)
	}
}
