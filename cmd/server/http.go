package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/sim/world"
	"coinfactory.ai/internal/transport/ws"
)

type muxConfig struct {
	WorldID     string
	EnableAdmin bool
	Index       runtimeIndex
	Logger      *log.Logger
}

func buildMux(w *world.World, cfg muxConfig) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(rw, cfg.WorldID, w.Metrics(), cfg.Index)
	})

	if cfg.EnableAdmin {
		// Local-only admin endpoints.
		mux.HandleFunc("/admin/v1/state", loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
			writeJSON(rw, http.StatusOK, map[string]any{
				"world_id": cfg.WorldID,
				"tick":     w.CurrentTick(),
				"metrics":  w.Metrics(),
			})
		}))
		mux.HandleFunc("/admin/v1/snapshot", postOnly(loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			tick, err := w.RequestSnapshot(ctx)
			writeAdminResult(rw, tick, err)
		})))
		mux.HandleFunc("/admin/v1/export", loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			snap, err := w.RequestExport(ctx)
			if err != nil {
				writeAdminResult(rw, 0, err)
				return
			}
			b, err := snapshot.EncodeJSON(snap)
			if err != nil {
				writeAdminResult(rw, snap.Header.Tick, err)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_, _ = rw.Write(b)
		}))
		mux.HandleFunc("/admin/v1/restore", postOnly(loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, 64<<20))
			if err != nil {
				writeJSON(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
				return
			}
			snap, err := snapshot.DecodeJSON(body)
			if err != nil {
				writeJSON(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
				return
			}
			if snap.Header.WorldID != "" && snap.Header.WorldID != cfg.WorldID {
				writeJSON(rw, http.StatusBadRequest, map[string]any{"ok": false, "error": "world id mismatch"})
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			tick, err := w.RequestRestore(ctx, snap)
			if err == nil && cfg.Logger != nil {
				cfg.Logger.Printf("restored snapshot tick=%d", tick)
			}
			writeAdminResult(rw, tick, err)
		})))
		mux.HandleFunc("/admin/v1/reset", postOnly(loopbackOnly(func(rw http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			tick, err := w.RequestReset(ctx)
			if err == nil && cfg.Logger != nil {
				cfg.Logger.Printf("world reset at tick=%d", tick)
			}
			writeAdminResult(rw, tick, err)
		})))
	} else if cfg.Logger != nil {
		cfg.Logger.Printf("admin endpoints disabled (CF_ENABLE_ADMIN_HTTP=false)")
	}

	mux.HandleFunc("/v1/ws", ws.NewServer(w, cfg.Logger).Handler())
	return mux
}

func loopbackOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		h(rw, r)
	}
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(rw, r)
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeAdminResult(rw http.ResponseWriter, tick uint64, err error) {
	if err != nil {
		writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"ok": false, "tick": tick, "error": err.Error()})
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"ok": true, "tick": tick})
}

// writeMetrics renders the minimal Prometheus exposition format.
func writeMetrics(rw io.Writer, worldID string, m world.WorldMetrics, idx runtimeIndex) {
	gauge := func(name, help string, v any) {
		fmt.Fprintf(rw, "# HELP %s %s\n", name, help)
		fmt.Fprintf(rw, "# TYPE %s gauge\n", name)
		fmt.Fprintf(rw, "%s{world=%q} %v\n", name, worldID, v)
	}
	gauge("coinfactory_world_tick", "Completed world ticks.", m.Tick)
	gauge("coinfactory_world_clients", "Current number of attached clients.", m.Clients)
	gauge("coinfactory_world_buildings", "Placed buildings.", m.Buildings)
	gauge("coinfactory_world_items", "Items on the grid.", m.Items)
	gauge("coinfactory_world_resources", "Unmined resource nodes.", m.Resources)
	gauge("coinfactory_world_generated_chunks", "Generated chunk count.", m.GeneratedChunks)
	gauge("coinfactory_world_score", "Current score.", m.Score)
	gauge("coinfactory_world_upgrader_power", "Value added per upgrader pass.", m.UpgraderPower)
	gauge("coinfactory_world_upgrader_power_cost", "Price of the next upgrader power level.", m.UpgraderPowerCost)
	gauge("coinfactory_world_step_ms", "Last tick step duration in milliseconds.", fmt.Sprintf("%.3f", m.StepMS))

	fmt.Fprintf(rw, "# HELP coinfactory_world_reset_total New games started on this process.\n")
	fmt.Fprintf(rw, "# TYPE coinfactory_world_reset_total counter\n")
	fmt.Fprintf(rw, "coinfactory_world_reset_total{world=%q} %d\n", worldID, m.ResetTotal)

	fmt.Fprintf(rw, "# HELP coinfactory_world_queue_depth Channel backlog depth.\n")
	fmt.Fprintf(rw, "# TYPE coinfactory_world_queue_depth gauge\n")
	fmt.Fprintf(rw, "coinfactory_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "inbox", m.QueueDepths.Inbox)
	fmt.Fprintf(rw, "coinfactory_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "attach", m.QueueDepths.Attach)
	fmt.Fprintf(rw, "coinfactory_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "leave", m.QueueDepths.Leave)
	fmt.Fprintf(rw, "coinfactory_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "admin", m.QueueDepths.Admin)

	fmt.Fprintf(rw, "# HELP coinfactory_last_tick Counts from the last tick.\n")
	fmt.Fprintf(rw, "# TYPE coinfactory_last_tick gauge\n")
	for _, kv := range []struct {
		k string
		v int
	}{
		{"collected", m.LastTick.Collected},
		{"moved", m.LastTick.Moved},
		{"spawned", m.LastTick.Spawned},
		{"merged", m.LastTick.Merged},
		{"generated", m.LastTick.Generated},
	} {
		fmt.Fprintf(rw, "coinfactory_last_tick{world=%q,metric=%q} %d\n", worldID, kv.k, kv.v)
	}

	if idx == nil {
		return
	}
	st := idx.Stats()
	fmt.Fprintf(rw, "# HELP coinfactory_index_queue_depth Index writer backlog.\n")
	fmt.Fprintf(rw, "# TYPE coinfactory_index_queue_depth gauge\n")
	fmt.Fprintf(rw, "coinfactory_index_queue_depth{world=%q} %d\n", worldID, st.QueueDepth)
	fmt.Fprintf(rw, "# HELP coinfactory_index_dropped_total Index entries dropped on a full queue.\n")
	fmt.Fprintf(rw, "# TYPE coinfactory_index_dropped_total counter\n")
	fmt.Fprintf(rw, "coinfactory_index_dropped_total{world=%q,kind=%q} %d\n", worldID, "tick", st.DropTickTotal)
	fmt.Fprintf(rw, "coinfactory_index_dropped_total{world=%q,kind=%q} %d\n", worldID, "audit", st.DropAuditTotal)
	fmt.Fprintf(rw, "coinfactory_index_dropped_total{world=%q,kind=%q} %d\n", worldID, "snapshot", st.DropSnapshotTotal)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
