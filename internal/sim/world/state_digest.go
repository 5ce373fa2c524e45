package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"coinfactory.ai/internal/sim/world/kernel/model"
	"coinfactory.ai/internal/sim/world/terrain/store"
)

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// StateDigest hashes the canonical simulation state. Two worlds with equal
// digests behave identically from here on.
func (w *World) StateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, w.tick.Load())
	digestWriteI64(h, &tmp, w.cfg.Seed)
	digestWriteI64(h, &tmp, int64(w.score))
	digestWriteI64(h, &tmp, int64(w.shop.Power))
	digestWriteI64(h, &tmp, int64(w.shop.Cost))

	digestWriteU64(h, &tmp, math.Float64bits(w.player.X))
	digestWriteU64(h, &tmp, math.Float64bits(w.player.Y))
	for _, k := range w.player.Inventory.SortedKeys() {
		if w.player.Inventory[k] == 0 {
			continue
		}
		h.Write([]byte(k))
		digestWriteI64(h, &tmp, int64(w.player.Inventory[k]))
	}

	for _, p := range store.SortPositions(w.buildings) {
		b := w.buildings[p]
		digestWriteI64(h, &tmp, int64(p.X))
		digestWriteI64(h, &tmp, int64(p.Y))
		h.Write([]byte{byte(b.Kind())})
		switch v := b.(type) {
		case *model.Factory:
			digestWriteI64(h, &tmp, int64(v.Cooldown))
		case *model.Generator:
			h.Write([]byte{byte(v.Resource)})
		case model.Directional:
			h.Write([]byte{byte(v.Direction())})
		}
	}

	for _, p := range w.terrain.SortedPositions() {
		digestWriteI64(h, &tmp, int64(p.X))
		digestWriteI64(h, &tmp, int64(p.Y))
		h.Write([]byte{byte(w.terrain.Resources[p].Type)})
	}

	for _, k := range w.terrain.GeneratedKeys() {
		digestWriteI64(h, &tmp, int64(k.CX))
		digestWriteI64(h, &tmp, int64(k.CY))
	}

	digestWriteU64(h, &tmp, w.items.NextID())
	for _, it := range w.items.All() {
		digestWriteU64(h, &tmp, it.ID)
		digestWriteI64(h, &tmp, int64(it.Pos.X))
		digestWriteI64(h, &tmp, int64(it.Pos.Y))
		digestWriteI64(h, &tmp, int64(it.Value))
		h.Write([]byte{boolByte(it.ProcessedThisTick), boolByte(it.MergedThisTick)})
	}

	return hex.EncodeToString(h.Sum(nil))
}
