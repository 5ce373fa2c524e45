package world

import (
	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

type Vec2i = model.Vec2i

// ActionResult is the outcome of one player action. Failures carry a
// protocol error code and the advisory shown to the player.
type ActionResult struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func okResult(msg string) ActionResult { return ActionResult{OK: true, Message: msg} }

func failResult(code, msg string) ActionResult {
	return ActionResult{OK: false, Code: code, Message: msg}
}

// TickResult summarises one engine step.
type TickResult struct {
	Tick      uint64 `json:"tick"`
	Collected int    `json:"collected"`
	Moved     int    `json:"moved"`
	Spawned   int    `json:"spawned"`
	Merged    int    `json:"merged"`
	Generated int    `json:"generated"`
	ScoreGain int    `json:"score_gain"`

	// Changed is set when score or inventory changed.
	Changed bool `json:"changed"`
}

// Active reports whether anything a renderer would draw differently happened.
func (r TickResult) Active() bool {
	return r.Changed || r.Moved > 0 || r.Spawned > 0 || r.Merged > 0
}

type ActionEnvelope struct {
	ClientID string
	Act      protocol.ActMsg
	Resp     chan ActionResponse
}

type ActionResponse struct {
	Result ActionResult
	Tick   uint64
}

type AttachRequest struct {
	Name       string
	ViewRadius int
	Out        chan []byte
	Resp       chan AttachResponse
}

type AttachResponse struct {
	Welcome protocol.WelcomeMsg
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

// TickLogEntry records the actions applied since the previous tick, the
// tick's own counts and the digest after it ran.
type TickLogEntry struct {
	Tick    uint64           `json:"tick"`
	Actions []RecordedAction `json:"actions,omitempty"`
	Result  TickResult       `json:"result"`
	Digest  string           `json:"digest"`

	// Discontinuity marks a reset or restore that happened before this tick;
	// replays cannot cross it.
	Discontinuity string `json:"discontinuity,omitempty"`
}

type RecordedAction struct {
	ClientID string          `json:"client_id,omitempty"`
	Act      protocol.ActMsg `json:"act"`
	OK       bool            `json:"ok"`
	Code     string          `json:"code,omitempty"`
}

type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"` // e.g. "PLACE"
	Pos     [2]int         `json:"pos"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type clientState struct {
	ID         string
	Name       string
	ViewRadius int
	Out        chan []byte
}
