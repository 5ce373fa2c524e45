package mining

import (
	"coinfactory.ai/internal/sim/world/kernel/model"
)

// Resources is the slice of the world mining touches.
type Resources interface {
	Get(p model.Vec2i) (model.ResourceNode, bool)
	Delete(p model.Vec2i) bool
}

// Mine moves the node at p into inv. It reports the mined type, or false
// when there is nothing to mine. A node is credited exactly once.
func Mine(res Resources, inv model.Inventory, p model.Vec2i) (model.ResourceType, bool) {
	node, ok := res.Get(p)
	if !ok {
		return 0, false
	}
	if !res.Delete(p) {
		return 0, false
	}
	inv.Add(node.Type.String(), 1)
	return node.Type, true
}
