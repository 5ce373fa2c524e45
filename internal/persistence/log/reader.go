package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"coinfactory.ai/internal/sim/world"
)

func logFiles(worldDir, sub, prefix string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(worldDir, sub, prefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	// The hour stamp sorts lexically.
	sort.Strings(files)
	return files, nil
}

// TickFiles lists the tick log files under worldDir in chronological order.
func TickFiles(worldDir string) ([]string, error) { return logFiles(worldDir, "events", "ticks") }

// AuditFiles lists the audit log files under worldDir in chronological order.
func AuditFiles(worldDir string) ([]string, error) { return logFiles(worldDir, "audit", "audit") }

func readFile[T any](path string, fn func(T) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e T
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	// A file still being written ends mid-frame.
	if err := sc.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	return nil
}

func readAll[T any](files []string, fn func(T) error) error {
	for _, p := range files {
		if err := readFile(p, fn); err != nil {
			return err
		}
	}
	return nil
}

// ReadTickFile decodes every entry of one tick log file in order.
func ReadTickFile(path string, fn func(world.TickLogEntry) error) error {
	return readFile(path, fn)
}

// ReadTicks walks every tick log file of a world directory.
func ReadTicks(worldDir string, fn func(world.TickLogEntry) error) error {
	files, err := TickFiles(worldDir)
	if err != nil {
		return err
	}
	return readAll(files, fn)
}

// ReadAudits walks every audit log file of a world directory.
func ReadAudits(worldDir string, fn func(world.AuditEntry) error) error {
	files, err := AuditFiles(worldDir)
	if err != nil {
		return err
	}
	return readAll(files, fn)
}
