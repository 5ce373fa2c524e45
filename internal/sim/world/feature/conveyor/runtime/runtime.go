package runtime

import "coinfactory.ai/internal/sim/world/kernel/model"

// Ops is the world-facing callback set used by the item passes. Mutations of
// score and audit state stay in the caller; this package owns the ordering.
type Ops struct {
	BuildingAt func(pos model.Vec2i) model.Building
	AddScore   func(n int)
	AuditEvent func(nowTick uint64, action string, pos model.Vec2i, details map[string]any)
}

func (o Ops) building(p model.Vec2i) model.Building {
	if o.BuildingAt == nil {
		return nil
	}
	return o.BuildingAt(p)
}

func (o Ops) audit(nowTick uint64, action string, pos model.Vec2i, details map[string]any) {
	if o.AuditEvent != nil {
		o.AuditEvent(nowTick, action, pos, details)
	}
}

// Move is one pending relocation computed by Advance.
type Move struct {
	Item *model.Item
	To   model.Vec2i
}

// Collect scores and removes every item standing on a collector. Items are
// visited from the back so removal never skips an entry.
func Collect(nowTick uint64, items *model.ItemSet, ops Ops) (collected int, score int) {
	for i := items.Len() - 1; i >= 0; i-- {
		it := items.At(i)
		if _, ok := ops.building(it.Pos).(*model.Collector); !ok {
			continue
		}
		score += it.Value
		collected++
		if ops.AddScore != nil {
			ops.AddScore(it.Value)
		}
		ops.audit(nowTick, "COLLECT", it.Pos, map[string]any{"item_id": it.ID, "value": it.Value})
		items.RemoveAt(i)
	}
	return collected, score
}

// PlanMoves resolves upgrades and destinations for items on movers, then
// clears both per-tick flags on every item.
func PlanMoves(items *model.ItemSet, upgraderPower int, ops Ops) []Move {
	var moves []Move
	for _, it := range items.All() {
		b := ops.building(it.Pos)
		if model.IsMover(b) {
			if _, ok := b.(*model.Upgrader); ok && !it.ProcessedThisTick {
				it.Value += upgraderPower
				it.ProcessedThisTick = true
			}
			dir := b.(model.Directional).Direction()
			moves = append(moves, Move{Item: it, To: it.Pos.Add(dir.Offset())})
		}
		it.ProcessedThisTick = false
		it.MergedThisTick = false
	}
	return moves
}

// ApplyMoves relocates items in plan order and merges at every destination.
// An item already absorbed by an earlier merge still triggers the merge
// check at its own destination.
func ApplyMoves(nowTick uint64, items *model.ItemSet, moves []Move, ops Ops) (merged int) {
	for _, m := range moves {
		m.Item.Pos = m.To
		n := MergeAt(items, m.To)
		if n > 0 {
			merged += n
			ops.audit(nowTick, "MERGE", m.To, map[string]any{"absorbed": n})
		}
	}
	return merged
}

// Advance runs the movement and upgrade phase followed by the apply phase.
func Advance(nowTick uint64, items *model.ItemSet, upgraderPower int, ops Ops) (moved int, merged int) {
	moves := PlanMoves(items, upgraderPower, ops)
	return len(moves), ApplyMoves(nowTick, items, moves, ops)
}

// MergeAt folds every item on pos into the first one in collection order and
// returns how many items were absorbed.
func MergeAt(items *model.ItemSet, pos model.Vec2i) int {
	on := items.OnCell(pos)
	if len(on) < 2 {
		return 0
	}
	first := on[0]
	total := 0
	absorbed := make(map[*model.Item]struct{}, len(on)-1)
	for _, it := range on {
		total += it.Value
		if it != first {
			absorbed[it] = struct{}{}
		}
	}
	first.Value = total
	first.MergedThisTick = true
	return items.Retain(func(it *model.Item) bool {
		_, gone := absorbed[it]
		return !gone
	})
}
