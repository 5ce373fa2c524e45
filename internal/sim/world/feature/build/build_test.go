package build

import (
	"testing"

	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

type fakeEnv struct {
	buildings map[model.Vec2i]model.Building
	resources map[model.Vec2i]model.ResourceNode
}

func newEnv() *fakeEnv {
	return &fakeEnv{buildings: map[model.Vec2i]model.Building{}, resources: map[model.Vec2i]model.ResourceNode{}}
}

func (e *fakeEnv) Building(p model.Vec2i) model.Building { return e.buildings[p] }
func (e *fakeEnv) Resource(p model.Vec2i) (model.ResourceNode, bool) {
	r, ok := e.resources[p]
	return r, ok
}
func (e *fakeEnv) SetBuilding(p model.Vec2i, b model.Building) { e.buildings[p] = b }
func (e *fakeEnv) DeleteBuilding(p model.Vec2i) bool {
	_, ok := e.buildings[p]
	delete(e.buildings, p)
	return ok
}

func at(x, y int) model.Vec2i { return model.Vec2i{X: x, Y: y} }

func TestPlaceFreeAndStocked(t *testing.T) {
	env := newEnv()
	inv := model.NewInventory()
	if _, d := Place(env, inv, at(0, 0), model.KindConveyor); d != nil {
		t.Fatalf("conveyor: %v", d)
	}
	if _, d := Place(env, inv, at(1, 0), model.KindFactory); d == nil || d.Code != protocol.ErrNoResource || d.Message != "No factories in inventory!" {
		t.Fatalf("factory without stock: %+v", d)
	}
	inv.Add(model.ItemFactory, 1)
	b, d := Place(env, inv, at(1, 0), model.KindFactory)
	if d != nil {
		t.Fatalf("factory: %v", d)
	}
	if f, ok := b.(*model.Factory); !ok || f.Cooldown != 0 {
		t.Fatalf("factory default: %+v", b)
	}
	if inv.Count(model.ItemFactory) != 0 {
		t.Fatalf("stock not consumed")
	}
}

func TestPlaceBlockedKeepsOneBuildingPerCell(t *testing.T) {
	env := newEnv()
	inv := model.NewInventory()
	inv.Add(model.ItemUpgrader, 1)
	Place(env, inv, at(0, 0), model.KindCollector)
	_, d := Place(env, inv, at(0, 0), model.KindUpgrader)
	if d == nil || d.Message != MsgCannotBuild {
		t.Fatalf("expected blocked, got %+v", d)
	}
	if inv.Count(model.ItemUpgrader) != 1 {
		t.Fatalf("blocked placement consumed stock")
	}
	if _, ok := env.buildings[at(0, 0)].(*model.Collector); !ok {
		t.Fatalf("collector replaced")
	}

	env.resources[at(5, 5)] = model.NewResourceNode(model.ResourceIron)
	if _, d := Place(env, inv, at(5, 5), model.KindConveyor); d == nil || d.Message != MsgCannotBuild {
		t.Fatalf("conveyor on resource: %+v", d)
	}
}

func TestPlaceGenerator(t *testing.T) {
	env := newEnv()
	inv := model.NewInventory()
	inv.Add(model.ItemGenerator, 1)
	if _, d := Place(env, inv, at(3, 3), model.KindGenerator); d == nil || d.Message != MsgNeedsResource {
		t.Fatalf("generator off resource: %+v", d)
	}
	env.resources[at(3, 3)] = model.NewResourceNode(model.ResourceCopper)
	b, d := Place(env, inv, at(3, 3), model.KindGenerator)
	if d != nil {
		t.Fatalf("generator: %v", d)
	}
	if g := b.(*model.Generator); g.Resource != model.ResourceCopper {
		t.Fatalf("resource type: %v", g.Resource)
	}
	if _, ok := env.resources[at(3, 3)]; !ok {
		t.Fatalf("resource under generator must stay")
	}
	if _, d := Place(env, inv, at(4, 4), model.KindGenerator); d == nil {
		t.Fatalf("generator with no resource and no stock should fail")
	}
	env.resources[at(4, 4)] = model.NewResourceNode(model.ResourceIron)
	if _, d := Place(env, inv, at(4, 4), model.KindGenerator); d == nil || d.Message != "No generators in inventory!" {
		t.Fatalf("no stock: %+v", d)
	}
}

func TestRemoveRefunds(t *testing.T) {
	env := newEnv()
	inv := model.NewInventory()
	env.buildings[at(0, 0)] = &model.Upgrader{}
	env.buildings[at(1, 0)] = &model.Conveyor{}
	if _, ok := Remove(env, inv, at(0, 0)); !ok || inv.Count(model.ItemUpgrader) != 1 {
		t.Fatalf("upgrader refund")
	}
	if _, ok := Remove(env, inv, at(1, 0)); !ok {
		t.Fatalf("conveyor remove")
	}
	for _, id := range []string{model.ItemFactory, model.ItemGenerator} {
		if inv.Count(id) != 0 {
			t.Fatalf("unexpected refund of %s", id)
		}
	}
	if _, ok := Remove(env, inv, at(9, 9)); ok {
		t.Fatalf("empty cell remove should be a no-op")
	}
}

func TestRotateCycles(t *testing.T) {
	env := newEnv()
	c := &model.Conveyor{}
	env.buildings[at(0, 0)] = c
	for want := model.DirRight; ; want = want.Next() {
		got, d := Rotate(env, at(0, 0))
		if d != nil || got != want {
			t.Fatalf("rotate: got %v want %v (%v)", got, want, d)
		}
		if want == model.DirUp {
			break
		}
	}
	env.buildings[at(1, 0)] = &model.Factory{}
	if _, d := Rotate(env, at(1, 0)); d == nil || d.Message != MsgRotateOnly {
		t.Fatalf("factory rotate: %+v", d)
	}
	if _, d := Rotate(env, at(2, 0)); d == nil {
		t.Fatalf("empty rotate should fail")
	}
}
