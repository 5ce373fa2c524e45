package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Tick uint64 `json:"tick"`

	Clients         int    `json:"clients"`
	Buildings       int    `json:"buildings"`
	Items           int    `json:"items"`
	Resources       int    `json:"resources"`
	GeneratedChunks int    `json:"generated_chunks"`
	ResetTotal      uint64 `json:"reset_total"`

	Score             int `json:"score"`
	UpgraderPower     int `json:"upgrader_power"`
	UpgraderPowerCost int `json:"upgrader_power_cost"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS   float64    `json:"step_ms"`
	LastTick TickResult `json:"last_tick"`
}

type QueueDepths struct {
	Inbox  int `json:"inbox"`
	Attach int `json:"attach"`
	Leave  int `json:"leave"`
	Admin  int `json:"admin"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	w.metricsMu.RLock()
	defer w.metricsMu.RUnlock()
	return w.metrics
}

func (w *World) publishMetrics(stepMS float64) {
	m := WorldMetrics{
		Tick:              w.tick.Load(),
		Clients:           len(w.clients),
		Buildings:         len(w.buildings),
		Items:             w.items.Len(),
		Resources:         len(w.terrain.Resources),
		GeneratedChunks:   len(w.terrain.Generated),
		ResetTotal:        w.resetTotal,
		Score:             w.score,
		UpgraderPower:     w.shop.Power,
		UpgraderPowerCost: w.shop.Cost,
		QueueDepths: QueueDepths{
			Inbox:  len(w.inbox),
			Attach: len(w.attach),
			Leave:  len(w.leave),
			Admin:  len(w.admin),
		},
		StepMS:   stepMS,
		LastTick: w.lastResult,
	}
	w.metricsMu.Lock()
	w.metrics = m
	w.metricsMu.Unlock()
}
