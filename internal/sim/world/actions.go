package world

import (
	"fmt"
	"math"
	"strings"

	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/feature/build"
	"coinfactory.ai/internal/sim/world/feature/economy"
	"coinfactory.ai/internal/sim/world/feature/work/mining"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

// Place, Remove, Mine, Rotate, Craft, BuyUpgraderPower and MovePlayer are
// typed entry points over Apply, so every action lands in the tick log.

func (w *World) Place(p Vec2i, kind model.BuildingKind) ActionResult {
	pos := p.ToArray()
	return w.Apply("", protocol.ActMsg{Action: protocol.ActPlace, Pos: &pos, Building: kind.String()})
}

func (w *World) Remove(p Vec2i) ActionResult {
	pos := p.ToArray()
	return w.Apply("", protocol.ActMsg{Action: protocol.ActRemove, Pos: &pos})
}

func (w *World) Mine(p Vec2i) ActionResult {
	pos := p.ToArray()
	return w.Apply("", protocol.ActMsg{Action: protocol.ActMine, Pos: &pos})
}

func (w *World) Rotate(p Vec2i) ActionResult {
	pos := p.ToArray()
	return w.Apply("", protocol.ActMsg{Action: protocol.ActRotate, Pos: &pos})
}

func (w *World) Craft(recipeID string) ActionResult {
	return w.Apply("", protocol.ActMsg{Action: protocol.ActCraft, Recipe: recipeID})
}

func (w *World) BuyUpgraderPower() ActionResult {
	return w.Apply("", protocol.ActMsg{Action: protocol.ActBuyUpgraderPower})
}

func (w *World) MovePlayer(x, y float64) ActionResult {
	return w.Apply("", protocol.ActMsg{Action: protocol.ActMove, PlayerPos: &[2]float64{x, y}})
}

// Apply validates and executes one action immediately and records it for the
// next tick log entry. It never panics on bad input.
func (w *World) Apply(clientID string, act protocol.ActMsg) ActionResult {
	act.Type = protocol.TypeAct
	if act.ProtocolVersion == "" {
		act.ProtocolVersion = protocol.Version
	}
	res := w.applyAct(clientID, act)
	w.recorded = append(w.recorded, RecordedAction{ClientID: clientID, Act: act, OK: res.OK, Code: res.Code})
	if res.OK {
		w.dirty = true
	}
	return res
}

func (w *World) applyAct(clientID string, act protocol.ActMsg) ActionResult {
	nowTick := w.tick.Load()
	actor := clientID
	if actor == "" {
		actor = "PLAYER"
	}
	needPos := func() (Vec2i, bool) {
		if act.Pos == nil {
			return Vec2i{}, false
		}
		return model.Vec2iFromArray(*act.Pos), true
	}

	switch strings.ToUpper(strings.TrimSpace(act.Action)) {
	case protocol.ActPlace:
		p, ok := needPos()
		if !ok {
			return failResult(protocol.ErrBadRequest, "missing pos")
		}
		kind, err := model.ParseBuildingKind(strings.ToLower(strings.TrimSpace(act.Building)))
		if err != nil {
			return failResult(protocol.ErrBadRequest, build.MsgUnknownBuilding)
		}
		b, denied := build.Place(w, w.player.Inventory, p, kind)
		if denied != nil {
			return failResult(denied.Code, denied.Message)
		}
		w.auditEvent(nowTick, actor, "PLACE", p, "", map[string]any{"building": b.Kind().String()})
		return okResult("")

	case protocol.ActRemove:
		p, ok := needPos()
		if !ok {
			return failResult(protocol.ErrBadRequest, "missing pos")
		}
		b, removed := build.Remove(w, w.player.Inventory, p)
		if !removed {
			// Removing nothing is a successful no-op.
			return okResult("")
		}
		w.auditEvent(nowTick, actor, "REMOVE", p, "", map[string]any{
			"building": b.Kind().String(),
			"refunded": b.Kind().Refundable(),
		})
		return okResult("")

	case protocol.ActMine:
		p, ok := needPos()
		if !ok {
			return failResult(protocol.ErrBadRequest, "missing pos")
		}
		rt, mined := mining.Mine(w.terrain, w.player.Inventory, p)
		if !mined {
			return failResult(protocol.ErrInvalidTarget, "Nothing to mine!")
		}
		w.auditEvent(nowTick, actor, "MINE", p, "", map[string]any{"resource": rt.String()})
		return okResult("")

	case protocol.ActRotate:
		p, ok := needPos()
		if !ok {
			return failResult(protocol.ErrBadRequest, "missing pos")
		}
		dir, denied := build.Rotate(w, p)
		if denied != nil {
			return failResult(denied.Code, denied.Message)
		}
		w.auditEvent(nowTick, actor, "ROTATE", p, "", map[string]any{"direction": int(dir)})
		return okResult("")

	case protocol.ActCraft:
		id := strings.ToLower(strings.TrimSpace(act.Recipe))
		r, ok := w.catalogs.Recipes.ByID[id]
		if !ok {
			return failResult(protocol.ErrBadRequest, fmt.Sprintf("unknown recipe %q", act.Recipe))
		}
		if !economy.Craft(w.player.Inventory, r) {
			return failResult(protocol.ErrNoResource, economy.ShortMessage(r))
		}
		w.auditEvent(nowTick, actor, "CRAFT", Vec2i{}, "", map[string]any{"recipe": id})
		return okResult(economy.CraftedMessage(r))

	case protocol.ActBuyUpgraderPower:
		cost := w.shop.Cost
		if !w.shop.Buy(&w.score) {
			return failResult(protocol.ErrNoResource, "Not enough score!")
		}
		w.auditEvent(nowTick, actor, "BUY_UPGRADER_POWER", Vec2i{}, "", map[string]any{
			"cost":      cost,
			"power":     w.shop.Power,
			"next_cost": w.shop.Cost,
		})
		return okResult(fmt.Sprintf("Upgraders now add +%d!", w.shop.Power))

	case protocol.ActMove:
		if act.PlayerPos == nil {
			return failResult(protocol.ErrBadRequest, "missing player_pos")
		}
		x, y := act.PlayerPos[0], act.PlayerPos[1]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return failResult(protocol.ErrBadRequest, "player_pos not finite")
		}
		if math.Abs(x) > model.MaxCoord || math.Abs(y) > model.MaxCoord {
			return failResult(protocol.ErrBadRequest, "player_pos out of range")
		}
		w.player.X, w.player.Y = x, y
		w.EnsureVisible(w.player.Cell(), w.cfg.ViewRadiusTiles)
		return okResult("")

	default:
		return failResult(protocol.ErrBadRequest, fmt.Sprintf("unknown action %q", act.Action))
	}
}
