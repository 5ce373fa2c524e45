package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	persistlog "coinfactory.ai/internal/persistence/log"
	"coinfactory.ai/internal/persistence/snapshot"
	"coinfactory.ai/internal/sim/world"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "audit":
			auditCmd(os.Args[2:])
			return
		case "inspect":
			inspectCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state", "snapshot", "reset", "export", "restore":
			httpCmd(os.Args[1], os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID != "" {
		base = filepath.Join(base, *worldID, "snapshots")
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

// inspectCmd prints the header and counts of one snapshot file.
func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (used when -snapshot is empty)")
	snapPath := fs.String("snapshot", "", "snapshot path (optional; defaults to latest)")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*snapPath)
	if path == "" && *worldID != "" {
		path = latestSnapshot(filepath.Join(*dataDir, "worlds", *worldID))
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no snapshot found; provide -snapshot or -world")
		os.Exit(2)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	printJSON(summarize(path, snap))
}

type snapshotSummary struct {
	Path              string         `json:"path"`
	WorldID           string         `json:"world_id"`
	Tick              uint64         `json:"tick"`
	Seed              int64          `json:"seed"`
	Score             int            `json:"score"`
	UpgraderPower     int            `json:"upgrader_power"`
	UpgraderPowerCost int            `json:"upgrader_power_cost"`
	Buildings         map[string]int `json:"buildings"`
	Resources         int            `json:"resources"`
	Items             int            `json:"items"`
	Chunks            int            `json:"chunks"`
	Inventory         map[string]int `json:"inventory"`
}

func summarize(path string, snap snapshot.SnapshotV1) snapshotSummary {
	s := snapshotSummary{
		Path:              path,
		WorldID:           snap.Header.WorldID,
		Tick:              snap.Header.Tick,
		Seed:              snap.Seed,
		Score:             snap.Score,
		UpgraderPower:     snap.UpgraderPower,
		UpgraderPowerCost: snap.UpgraderPowerCost,
		Buildings:         map[string]int{},
		Resources:         len(snap.Resources),
		Items:             len(snap.Items),
		Chunks:            len(snap.Chunks),
		Inventory:         snap.Player.Inventory,
	}
	for _, b := range snap.Buildings {
		s.Buildings[b.Type]++
	}
	return s
}

var errStop = errors.New("stop")

// auditCmd filters the audit log by tick range, box and action.
func auditCmd(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	box := fs.String("box", "", "box filter: x1,y1:x2,y2 (optional)")
	action := fs.String("action", "", "action filter, e.g. PLACE (optional)")
	sinceTick := fs.Uint64("since_tick", 0, "first tick (inclusive)")
	toTick := fs.Uint64("to_tick", 0, "last tick (inclusive, optional)")
	limit := fs.Int("limit", 0, "stop after this many entries (optional)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}
	f := auditFilter{SinceTick: *sinceTick, ToTick: *toTick, Action: strings.ToUpper(strings.TrimSpace(*action))}
	if strings.TrimSpace(*box) != "" {
		min, max, err := parseBox(*box)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad -box:", err)
			os.Exit(2)
		}
		f.Box, f.Min, f.Max = true, min, max
	}

	n := 0
	err := persistlog.ReadAudits(filepath.Join(*dataDir, "worlds", *worldID), func(e world.AuditEntry) error {
		if !f.match(e) {
			return nil
		}
		printJSON(e)
		n++
		if *limit > 0 && n >= *limit {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		fmt.Fprintln(os.Stderr, "read audit:", err)
		os.Exit(1)
	}
}

type auditFilter struct {
	SinceTick uint64
	ToTick    uint64
	Action    string
	Box       bool
	Min, Max  [2]int
}

func (f auditFilter) match(e world.AuditEntry) bool {
	if e.Tick < f.SinceTick || (f.ToTick != 0 && e.Tick > f.ToTick) {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.Box && !withinBox(e.Pos, f.Min, f.Max) {
		return false
	}
	return true
}

func withinBox(pos [2]int, min, max [2]int) bool {
	return pos[0] >= min[0] && pos[0] <= max[0] &&
		pos[1] >= min[1] && pos[1] <= max[1]
}

func parseBox(s string) (min, max [2]int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return min, max, fmt.Errorf("expected x1,y1:x2,y2")
	}
	a, err := parseVec2(parts[0])
	if err != nil {
		return min, max, err
	}
	b, err := parseVec2(parts[1])
	if err != nil {
		return min, max, err
	}
	for i := 0; i < 2; i++ {
		if a[i] <= b[i] {
			min[i], max[i] = a[i], b[i]
		} else {
			min[i], max[i] = b[i], a[i]
		}
	}
	return min, max, nil
}

func parseVec2(s string) ([2]int, error) {
	var v [2]int
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return v, fmt.Errorf("expected x,y")
	}
	for i := 0; i < 2; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return v, err
		}
		v[i] = n
	}
	return v, nil
}

func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}
