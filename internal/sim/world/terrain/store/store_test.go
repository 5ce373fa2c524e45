package store

import (
	"testing"

	"coinfactory.ai/internal/sim/world/kernel/model"
)

func TestGenerateChunkIsIdempotent(t *testing.T) {
	s := NewResourceStore(DefaultWorldGen(42))
	if !s.GenerateChunk(3, -2) {
		t.Fatalf("first generation should report new")
	}
	before := len(s.Resources)

	// Mine one node; a second generation must not restore it.
	var mined model.Vec2i
	for p := range s.Resources {
		mined = p
		break
	}
	if before > 0 {
		s.Delete(mined)
	}
	if s.GenerateChunk(3, -2) {
		t.Fatalf("second generation should be a no-op")
	}
	if before > 0 {
		if _, ok := s.Get(mined); ok {
			t.Fatalf("mined node %v came back", mined)
		}
		if len(s.Resources) != before-1 {
			t.Fatalf("resources: got %d want %d", len(s.Resources), before-1)
		}
	}
}

func TestSpawnBoxStaysClear(t *testing.T) {
	gen := DefaultWorldGen(7)
	gen.IronPermille = 1000
	s := NewResourceStore(gen)
	s.EnsureArea(model.Vec2i{X: -16, Y: -16}, model.Vec2i{X: 15, Y: 15})
	if len(s.Generated) != 4 {
		t.Fatalf("chunks: got %d want 4", len(s.Generated))
	}
	for p := range s.Resources {
		if p.X > -10 && p.X < 10 && p.Y > -10 && p.Y < 10 {
			t.Fatalf("resource inside spawn box at %v", p)
		}
	}
	// Every cell outside the box gets iron at 1000 permille.
	if _, ok := s.Get(model.Vec2i{X: 10, Y: 0}); !ok {
		t.Fatalf("expected node at 10,0")
	}
	if _, ok := s.Get(model.Vec2i{X: -10, Y: -10}); !ok {
		t.Fatalf("expected node at -10,-10")
	}
}

func TestSeededGenerationIgnoresVisitOrder(t *testing.T) {
	a := NewResourceStore(DefaultWorldGen(99))
	b := NewResourceStore(DefaultWorldGen(99))
	a.GenerateChunk(0, 0)
	a.GenerateChunk(5, 5)
	a.GenerateChunk(-3, 1)
	b.GenerateChunk(-3, 1)
	b.GenerateChunk(5, 5)
	b.GenerateChunk(0, 0)
	if len(a.Resources) != len(b.Resources) {
		t.Fatalf("resource counts differ: %d vs %d", len(a.Resources), len(b.Resources))
	}
	for p, r := range a.Resources {
		if got, ok := b.Resources[p]; !ok || got != r {
			t.Fatalf("mismatch at %v: %+v vs %+v", p, r, got)
		}
	}
}

func TestEnsureAreaNegativeCoordinates(t *testing.T) {
	s := NewResourceStore(DefaultWorldGen(1))
	n := s.EnsureArea(model.Vec2i{X: -1, Y: -1}, model.Vec2i{X: 0, Y: 0})
	if n != 4 {
		t.Fatalf("new chunks: got %d want 4", n)
	}
	if !s.IsGenerated(ChunkKey{CX: -1, CY: -1}) {
		t.Fatalf("missing chunk -1,-1")
	}
	if n := s.EnsureArea(model.Vec2i{X: -1, Y: -1}, model.Vec2i{X: 0, Y: 0}); n != 0 {
		t.Fatalf("repeat: got %d new chunks", n)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	gen := DefaultWorldGen(5)
	s := NewResourceStore(gen)
	s.EnsureArea(model.Vec2i{X: -20, Y: -20}, model.Vec2i{X: 20, Y: 20})
	s.Set(model.Vec2i{X: 1, Y: 1}, model.NewResourceNode(model.ResourceCopper))

	res := ExportResources(s)
	chunks := ExportChunks(s)
	got, err := ImportResources(gen, res, chunks)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got.Resources) != len(s.Resources) || len(got.Generated) != len(s.Generated) {
		t.Fatalf("sizes differ: %d/%d vs %d/%d", len(got.Resources), len(got.Generated), len(s.Resources), len(s.Generated))
	}
	if r, ok := got.Get(model.Vec2i{X: 1, Y: 1}); !ok || r.Type != model.ResourceCopper || r.Color != "#e67e22" {
		t.Fatalf("copper node lost: %+v %v", r, ok)
	}
}

func TestParseChunkKeyRejectsGarbage(t *testing.T) {
	if _, err := ParseChunkKey("1;2"); err == nil {
		t.Fatalf("expected error")
	}
	k, err := ParseChunkKey("-4,7")
	if err != nil || k != (ChunkKey{CX: -4, CY: 7}) {
		t.Fatalf("got %+v %v", k, err)
	}
}
