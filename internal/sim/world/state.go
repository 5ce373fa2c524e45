package world

import (
	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

func inView(p, center Vec2i, radius int) bool {
	dx, dy := p.X-center.X, p.Y-center.Y
	return dx >= -radius && dx <= radius && dy >= -radius && dy <= radius
}

// BuildState renders the STATE frame for the square view box around center.
// Buildings, resources and items outside the box are omitted.
func (w *World) BuildState(center Vec2i, radius int) protocol.StateMsg {
	msg := protocol.StateMsg{
		Type:              protocol.TypeState,
		ProtocolVersion:   protocol.Version,
		Tick:              w.tick.Load(),
		Score:             w.score,
		UpgraderPower:     w.shop.Power,
		UpgraderPowerCost: w.shop.Cost,
		Player: protocol.PlayerState{
			Pos:       [2]float64{w.player.X, w.player.Y},
			Inventory: w.player.Inventory.Clone(),
		},
		Buildings: []protocol.BuildingState{},
		Resources: []protocol.ResourceState{},
		Items:     []protocol.ItemState{},
		View:      protocol.ViewState{Center: center.ToArray(), Radius: radius},
	}
	for _, p := range store.SortPositions(w.buildings) {
		if !inView(p, center, radius) {
			continue
		}
		msg.Buildings = append(msg.Buildings, buildingState(p, w.buildings[p]))
	}
	for _, p := range w.terrain.SortedPositions() {
		if !inView(p, center, radius) {
			continue
		}
		r := w.terrain.Resources[p]
		msg.Resources = append(msg.Resources, protocol.ResourceState{Key: p.Key(), Type: r.Type.String(), Color: r.Color})
	}
	for _, it := range w.items.All() {
		if !inView(it.Pos, center, radius) {
			continue
		}
		msg.Items = append(msg.Items, protocol.ItemState{ID: it.ID, X: it.Pos.X, Y: it.Pos.Y, Value: it.Value})
	}
	return msg
}

func buildingState(p Vec2i, b model.Building) protocol.BuildingState {
	out := protocol.BuildingState{Key: p.Key(), Type: b.Kind().String()}
	switch v := b.(type) {
	case *model.Factory:
		out.Cooldown = v.Cooldown
	case *model.Generator:
		out.ResourceType = v.Resource.String()
	case model.Directional:
		out.Direction = int(v.Direction())
	}
	return out
}
