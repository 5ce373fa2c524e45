package world

import (
	"fmt"
	"sync"
	"sync/atomic"

	"coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/sim/catalogs"
	"coinfactory.ai/internal/sim/world/feature/economy"
	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs

	// Completed ticks.
	tick atomic.Uint64

	metricsMu sync.RWMutex
	metrics   WorldMetrics

	buildings map[Vec2i]model.Building
	terrain   *store.ResourceStore
	items     *model.ItemSet
	player    model.Player
	score     int
	shop      economy.Shop

	// Actions applied since the last tick, in arrival order.
	recorded      []RecordedAction
	discontinuity string
	dirty         bool

	clients map[string]*clientState

	inbox  chan ActionEnvelope
	attach chan AttachRequest
	leave  chan string
	admin  chan adminReq
	stop   chan struct{}

	nextSessionNum atomic.Uint64
	resetTotal     uint64
	lastResult     TickResult

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	// Optional snapshot sink (may be nil). Snapshot writing should be off-thread.
	snapshotSink chan<- snapshot.SnapshotV1
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	cfg.applyDefaults()
	if cats == nil {
		cats = catalogs.Default()
	}
	for _, id := range []string{model.ItemFactory, model.ItemUpgrader, model.ItemGenerator} {
		if _, ok := cats.Recipes.ByID[id]; !ok {
			return nil, fmt.Errorf("missing recipe: %s", id)
		}
	}
	for k := range cfg.StarterInventory {
		if !model.IsInventorySlot(k) {
			return nil, fmt.Errorf("starter inventory: unknown slot %q", k)
		}
	}
	w := &World{
		cfg:      cfg,
		catalogs: cats,
		clients:  map[string]*clientState{},
		inbox:    make(chan ActionEnvelope, 1024),
		attach:   make(chan AttachRequest, 64),
		leave:    make(chan string, 64),
		admin:    make(chan adminReq, 16),
		stop:     make(chan struct{}),
	}
	w.resetState()
	w.publishMetrics(0)
	return w, nil
}

func (w *World) worldGen() store.WorldGen {
	return store.WorldGen{
		Seed:                w.cfg.Seed,
		SpawnClearHalfWidth: w.cfg.SpawnClearHalfWidth,
		IronPermille:        w.cfg.IronPermille,
		CopperPermille:      w.cfg.CopperPermille,
	}
}

// resetState restores a new game: empty grid, default economy, player at
// the origin with the starter inventory.
func (w *World) resetState() {
	w.buildings = map[Vec2i]model.Building{}
	w.terrain = store.NewResourceStore(w.worldGen())
	w.items = model.NewItemSet()
	w.player = model.Player{Inventory: model.NewInventory()}
	for k, v := range w.cfg.StarterInventory {
		w.player.Inventory.Add(k, v)
	}
	w.score = 0
	w.shop = economy.Shop{
		Power:          w.cfg.UpgraderPowerBase,
		Cost:           w.cfg.UpgraderPowerCostBase,
		GrowthPermille: w.cfg.UpgraderPowerCostGrowthPermille,
	}
	w.lastResult = TickResult{}
}

// Reset starts a new game on the same seed. The tick counter keeps running.
func (w *World) Reset() {
	w.resetState()
	w.EnsureVisible(w.player.Cell(), w.cfg.ViewRadiusTiles)
	w.resetTotal++
	w.recorded = w.recorded[:0]
	w.discontinuity = "reset"
	w.dirty = true
	w.auditEvent(w.tick.Load(), "SYSTEM", "WORLD_RESET", Vec2i{}, "RESET", map[string]any{
		"world_id": w.cfg.ID,
		"seed":     w.cfg.Seed,
	})
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger)                  { w.auditLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

func (w *World) Inbox() chan<- ActionEnvelope { return w.inbox }
func (w *World) Attach() chan<- AttachRequest { return w.attach }
func (w *World) Leave() chan<- string         { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Seed() int64 { return w.cfg.Seed }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) Stop() { close(w.stop) }

func (w *World) auditEvent(nowTick uint64, actor, action string, pos Vec2i, reason string, details map[string]any) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:    nowTick,
		Actor:   actor,
		Action:  action,
		Pos:     pos.ToArray(),
		Reason:  reason,
		Details: details,
	})
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
