package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"coinfactory.ai/internal/protocol"
)

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "client name")
		x    = flag.Int("x", 0, "factory x")
		y    = flag.Int("y", 0, "factory y")
		buy  = flag.Bool("buy", true, "buy upgrader power whenever the score allows it")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 8},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	b := newBot(buildPlan(*x, *y), *buy)
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		var out *protocol.ActMsg
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s world=%s seed=%d tick_ms=%d", w.SessionID, w.WorldID, w.WorldParams.Seed, w.WorldParams.TickDurationMS)
			out = b.next()

		case protocol.TypeResult:
			var r protocol.ResultMsg
			if err := json.Unmarshal(msg, &r); err != nil {
				continue
			}
			if !r.OK {
				logger.Printf("RESULT %s failed code=%s msg=%q", r.Ref, r.Code, r.Message)
			}
			out = b.onResult(r)

		case protocol.TypeState:
			var s protocol.StateMsg
			if err := json.Unmarshal(msg, &s); err != nil {
				continue
			}
			if s.Tick%50 == 0 {
				logger.Printf("tick=%d score=%d power=%d cost=%d items=%d", s.Tick, s.Score, s.UpgraderPower, s.UpgraderPowerCost, len(s.Items))
			}
			out = b.onState(s)
		}
		if out != nil {
			if err := conn.WriteJSON(out); err != nil {
				logger.Printf("send ACT: %v", err)
				return
			}
		}
	}
}

// buildPlan lays out a factory at (x,y) feeding a two-tile conveyor that
// ends in a collector to its right. New conveyors face up, so each one is
// rotated once to face right.
func buildPlan(x, y int) []protocol.ActMsg {
	at := func(dx int) *[2]int { return &[2]int{x + dx, y} }
	return []protocol.ActMsg{
		{Action: protocol.ActMove, PlayerPos: &[2]float64{float64(x), float64(y)}},
		{Action: protocol.ActCraft, Recipe: "factory"},
		{Action: protocol.ActPlace, Pos: at(0), Building: "factory"},
		{Action: protocol.ActPlace, Pos: at(1), Building: "conveyor"},
		{Action: protocol.ActRotate, Pos: at(1)},
		{Action: protocol.ActPlace, Pos: at(2), Building: "conveyor"},
		{Action: protocol.ActRotate, Pos: at(2)},
		{Action: protocol.ActPlace, Pos: at(3), Building: "collector"},
	}
}

type bot struct {
	plan    []protocol.ActMsg
	step    int
	seq     int
	buy     bool
	pending string
}

func newBot(plan []protocol.ActMsg, buy bool) *bot {
	return &bot{plan: plan, buy: buy}
}

func (b *bot) stamp(act protocol.ActMsg) *protocol.ActMsg {
	b.seq++
	act.Type = protocol.TypeAct
	act.ProtocolVersion = protocol.Version
	act.ID = fmt.Sprintf("A%06d", b.seq)
	b.pending = act.ID
	return &act
}

// next returns the next scripted action, or nil once the plan is done or an
// action is still in flight.
func (b *bot) next() *protocol.ActMsg {
	if b.pending != "" || b.step >= len(b.plan) {
		return nil
	}
	act := b.plan[b.step]
	b.step++
	return b.stamp(act)
}

func (b *bot) onResult(r protocol.ResultMsg) *protocol.ActMsg {
	if r.Ref != b.pending {
		return nil
	}
	b.pending = ""
	return b.next()
}

func (b *bot) onState(s protocol.StateMsg) *protocol.ActMsg {
	if b.pending != "" || b.step < len(b.plan) {
		return nil
	}
	if b.buy && s.UpgraderPowerCost > 0 && s.Score >= s.UpgraderPowerCost {
		return b.stamp(protocol.ActMsg{Action: protocol.ActBuyUpgraderPower})
	}
	return nil
}
