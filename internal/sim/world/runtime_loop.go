package world

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

// Run drives the world on a ticker. Actions and admin requests are served
// between ticks as they arrive. A slow step causes ticker fires to be
// dropped, so missed intervals coalesce into one tick.
func (w *World) Run(ctx context.Context) error {
	interval := time.Duration(w.cfg.TickDurationMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.attach:
			w.handleAttach(req)
		case id := <-w.leave:
			w.handleLeave(id)
		case req := <-w.admin:
			w.handleAdmin(req)
		case env := <-w.inbox:
			w.handleAction(env)
		case <-ticker.C:
			w.step()
		}
	}
}

func (w *World) handleAction(env ActionEnvelope) {
	res := w.Apply(env.ClientID, env.Act)
	if env.Resp != nil {
		select {
		case env.Resp <- ActionResponse{Result: res, Tick: w.tick.Load()}:
		default:
		}
	}
	if res.OK {
		w.pushState()
	}
}

func (w *World) handleAttach(req AttachRequest) {
	id := fmt.Sprintf("S%06d", w.nextSessionNum.Add(1))
	radius := req.ViewRadius
	if radius <= 0 || radius > w.cfg.ViewRadiusTiles {
		radius = w.cfg.ViewRadiusTiles
	}
	cl := &clientState{ID: id, Name: req.Name, ViewRadius: radius, Out: req.Out}
	w.clients[id] = cl

	// Recorded as a MOVE in place so chunk generation replays.
	w.Apply(id, protocol.ActMsg{Action: protocol.ActMove, PlayerPos: &[2]float64{w.player.X, w.player.Y}})

	if req.Resp != nil {
		req.Resp <- AttachResponse{Welcome: w.welcome(id)}
	}
	w.sendState(cl)
}

func (w *World) handleLeave(id string) {
	delete(w.clients, id)
}

func (w *World) welcome(sessionID string) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		WorldID:         w.cfg.ID,
		WorldParams: protocol.WorldParams{
			TickDurationMS:       w.cfg.TickDurationMS,
			ChunkSize:            store.ChunkSize,
			Seed:                 w.cfg.Seed,
			FactoryCooldownTicks: w.cfg.FactoryCooldownTicks,
		},
		Catalogs: protocol.CatalogDigests{
			RecipesDigest:   w.catalogs.Recipes.Digest,
			BuildingsDigest: w.catalogs.Buildings.Digest,
		},
	}
}

func (w *World) pushState() {
	for _, cl := range w.clients {
		w.sendState(cl)
	}
}

func (w *World) sendState(cl *clientState) {
	if cl == nil || cl.Out == nil {
		return
	}
	msg := w.BuildState(w.player.Cell(), cl.ViewRadius)
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	sendLatest(cl.Out, b)
}

// step runs one tick plus its bookkeeping: tick log, state push, periodic
// snapshot and metrics.
func (w *World) step() TickResult {
	stepStart := time.Now()
	res := w.RunTick()
	nowTick := res.Tick
	if res.Changed {
		w.dirty = true
	}

	digest := w.StateDigest()
	if w.tickLogger != nil {
		actions := make([]RecordedAction, len(w.recorded))
		copy(actions, w.recorded)
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:          nowTick,
			Actions:       actions,
			Result:        res,
			Digest:        digest,
			Discontinuity: w.discontinuity,
		})
	}
	hadActions := len(w.recorded) > 0
	w.recorded = w.recorded[:0]
	w.discontinuity = ""

	if res.Active() || hadActions {
		w.pushState()
	}

	// Snapshot every N ticks, only when something changed since the last one.
	if w.snapshotSink != nil && w.cfg.SnapshotEveryTicks > 0 && w.dirty {
		if nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
			snap := w.ExportSnapshot()
			select {
			case w.snapshotSink <- snap:
				w.dirty = false
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}

	w.publishMetrics(float64(time.Since(stepStart).Microseconds()) / 1000.0)
	return res
}

// StepOnce applies the given actions in order, then advances one tick using
// the same bookkeeping as the server loop. It is intended for deterministic
// replays and tests.
func (w *World) StepOnce(actions []RecordedAction) (tick uint64, digest string) {
	for _, a := range actions {
		w.Apply(a.ClientID, a.Act)
	}
	res := w.step()
	return res.Tick, w.StateDigest()
}
