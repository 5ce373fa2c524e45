package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world"
)

func startWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.New(world.WorldConfig{
		ID:               "ws_test",
		Seed:             5,
		TickDurationMS:   60_000,
		ViewRadiusTiles:  8,
		StarterInventory: map[string]int{"iron": 20, "copper": 10},
	}, nil)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()
	t.Cleanup(cancel)
	return w
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readType(t *testing.T, conn *websocket.Conn, typ string) []byte {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %s: %v", typ, err)
		}
		base, err := protocol.DecodeBase(b)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if base.Type == typ {
			return b
		}
	}
}

func TestServer_HelloActResult(t *testing.T) {
	w := startWorld(t)
	srv := httptest.NewServer(NewServer(w, log.New(io.Discard, "", 0)).Handler())
	defer srv.Close()
	conn := dial(t, srv)

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "tester",
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 4, ViewRadius: 6},
	}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(readType(t, conn, protocol.TypeWelcome), &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.SessionID == "" || welcome.WorldID != "ws_test" || welcome.WorldParams.ChunkSize != 16 {
		t.Fatalf("welcome=%+v", welcome)
	}
	var st protocol.StateMsg
	if err := json.Unmarshal(readType(t, conn, protocol.TypeState), &st); err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.View.Radius != 6 {
		t.Fatalf("view radius=%d", st.View.Radius)
	}

	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "a1",
		Action:          protocol.ActCraft,
		Recipe:          "factory",
	}
	if err := conn.WriteJSON(act); err != nil {
		t.Fatalf("write act: %v", err)
	}
	var res protocol.ResultMsg
	if err := json.Unmarshal(readType(t, conn, protocol.TypeResult), &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Ref != "a1" || !res.OK || res.Message != "Crafted Factory!" {
		t.Fatalf("result=%+v", res)
	}

	act.ID = "a2"
	act.Recipe = "generator"
	_ = conn.WriteJSON(act)
	if err := json.Unmarshal(readType(t, conn, protocol.TypeResult), &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Ref != "a2" || res.OK || res.Code != protocol.ErrNoResource {
		t.Fatalf("result=%+v", res)
	}

	act.ID = "a3"
	act.ProtocolVersion = "0.1"
	_ = conn.WriteJSON(act)
	if err := json.Unmarshal(readType(t, conn, protocol.TypeResult), &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Ref != "a3" || res.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("result=%+v", res)
	}
}

func TestServer_RejectsMissingHello(t *testing.T) {
	w := startWorld(t)
	srv := httptest.NewServer(NewServer(w, log.New(io.Discard, "", 0)).Handler())
	defer srv.Close()
	conn := dial(t, srv)

	_ = conn.WriteJSON(protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version})
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("err=%v want policy violation close", err)
	}
}
