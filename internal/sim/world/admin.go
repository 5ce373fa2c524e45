package world

import (
	"context"
	"errors"

	"coinfactory.ai/internal/persistence/snapshot"
)

type adminOp int

const (
	adminSnapshot adminOp = iota + 1
	adminExport
	adminRestore
	adminReset
)

type adminReq struct {
	Op   adminOp
	Snap snapshot.SnapshotV1
	Resp chan adminResp
}

type adminResp struct {
	Tick uint64
	Snap snapshot.SnapshotV1
	Err  string
}

func (w *World) adminCall(ctx context.Context, req adminReq) (adminResp, error) {
	if w == nil || w.admin == nil {
		return adminResp{}, errors.New("admin requests not available")
	}
	resp := make(chan adminResp, 1)
	req.Resp = resp

	select {
	case w.admin <- req:
	case <-ctx.Done():
		return adminResp{}, ctx.Err()
	}

	select {
	case r := <-resp:
		if r.Err != "" {
			return r, errors.New(r.Err)
		}
		return r, nil
	case <-ctx.Done():
		return adminResp{}, ctx.Err()
	}
}

// RequestSnapshot asks the world loop goroutine to enqueue a snapshot.
// It is safe to call from other goroutines (e.g. HTTP handlers).
func (w *World) RequestSnapshot(ctx context.Context) (uint64, error) {
	r, err := w.adminCall(ctx, adminReq{Op: adminSnapshot})
	return r.Tick, err
}

// RequestExport returns a snapshot value of the current state.
func (w *World) RequestExport(ctx context.Context) (snapshot.SnapshotV1, error) {
	r, err := w.adminCall(ctx, adminReq{Op: adminExport})
	return r.Snap, err
}

// RequestRestore replaces the whole state with snap. An invalid snapshot is
// rejected and the running state is kept.
func (w *World) RequestRestore(ctx context.Context, snap snapshot.SnapshotV1) (uint64, error) {
	r, err := w.adminCall(ctx, adminReq{Op: adminRestore, Snap: snap})
	return r.Tick, err
}

// RequestReset starts a new game. The previous state is offered to the
// snapshot sink first.
func (w *World) RequestReset(ctx context.Context) (uint64, error) {
	r, err := w.adminCall(ctx, adminReq{Op: adminReset})
	return r.Tick, err
}

func (w *World) handleAdmin(req adminReq) {
	resp := adminResp{Tick: w.tick.Load()}
	switch req.Op {
	case adminSnapshot:
		if w.snapshotSink == nil {
			resp.Err = "snapshot sink not configured"
			break
		}
		select {
		case w.snapshotSink <- w.ExportSnapshot():
			w.dirty = false
		default:
			resp.Err = "snapshot sink backpressure"
		}
	case adminExport:
		resp.Snap = w.ExportSnapshot()
	case adminRestore:
		if err := w.ImportSnapshot(req.Snap); err != nil {
			resp.Err = err.Error()
			break
		}
		resp.Tick = w.tick.Load()
		w.pushState()
	case adminReset:
		if w.snapshotSink != nil {
			select {
			case w.snapshotSink <- w.ExportSnapshot():
			default:
				resp.Err = "snapshot sink backpressure"
			}
		}
		if resp.Err == "" {
			w.Reset()
			w.pushState()
		}
	default:
		resp.Err = "unknown admin request"
	}
	w.publishMetrics(w.Metrics().StepMS)

	if req.Resp != nil {
		select {
		case req.Resp <- resp:
		default:
			// Client timed out; don't block the sim loop.
		}
	}
}
