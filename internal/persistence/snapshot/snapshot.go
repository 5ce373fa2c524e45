package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

// SnapshotV1 is the flattened world state. Maps are stored as lists keyed by
// their canonical "x,y" string so the shape survives any serializer.
type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed int64 `json:"seed"`

	// Tuning echoes (captured for deterministic replay/resume).
	TickDurationMS       int `json:"tick_duration_ms,omitempty"`
	SpawnClearHalfWidth  int `json:"spawn_clear_half_width,omitempty"`
	IronPermille         int `json:"iron_permille,omitempty"`
	CopperPermille       int `json:"copper_permille,omitempty"`
	FactoryCooldownTicks int `json:"factory_cooldown_ticks,omitempty"`

	Score             int `json:"score"`
	UpgraderPower     int `json:"upgrader_power"`
	UpgraderPowerCost int `json:"upgrader_power_cost"`

	Player    PlayerV1     `json:"player"`
	Buildings []BuildingV1 `json:"buildings"`
	Resources []ResourceV1 `json:"resources"`
	Items     []ItemV1     `json:"items"`
	Chunks    []string     `json:"chunks"`

	Counters CountersV1 `json:"counters"`
}

type PlayerV1 struct {
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Inventory map[string]int `json:"inventory"`
}

// BuildingV1 carries every variant's payload; only the fields of Type are meaningful.
type BuildingV1 struct {
	Key          string `json:"key"`
	Type         string `json:"type"`
	Direction    int    `json:"direction,omitempty"`
	Cooldown     int    `json:"cooldown,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

type ResourceV1 struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

type ItemV1 struct {
	ID                uint64 `json:"id"`
	X                 int    `json:"x"`
	Y                 int    `json:"y"`
	Value             int    `json:"value"`
	ProcessedThisTick bool   `json:"processed_this_tick,omitempty"`
	MergedThisTick    bool   `json:"merged_this_tick,omitempty"`
}

type CountersV1 struct {
	NextItem uint64 `json:"next_item"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := encodeTo(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func encodeTo(f *os.File, snap SnapshotV1) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadSnapshot decodes a .snap.zst file and rejects it unless Validate passes.
func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line; gob repeats it.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return SnapshotV1{}, fmt.Errorf("gob decode: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return SnapshotV1{}, err
	}
	return snap, nil
}

// ReadHeader returns only the JSON header line of a snapshot file.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	return h, nil
}
