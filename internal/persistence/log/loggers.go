package log

import (
	"path/filepath"

	"coinfactory.ai/internal/sim/world"
)

// TickLogger writes one entry per tick, with the actions that preceded it.
type TickLogger struct{ w *RotatingWriter }

func NewTickLogger(worldDir string) *TickLogger {
	return &TickLogger{w: NewRotatingWriter(filepath.Join(worldDir, "events"), "ticks")}
}

func (l *TickLogger) WriteTick(e world.TickLogEntry) error { return l.w.Write(e) }
func (l *TickLogger) Close() error                         { return l.w.Close() }

type AuditLogger struct{ w *RotatingWriter }

func NewAuditLogger(worldDir string) *AuditLogger {
	return &AuditLogger{w: NewRotatingWriter(filepath.Join(worldDir, "audit"), "audit")}
}

func (l *AuditLogger) WriteAudit(e world.AuditEntry) error { return l.w.Write(e) }
func (l *AuditLogger) Close() error                        { return l.w.Close() }
