package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"coinfactory.ai/internal/protocol"
	"coinfactory.ai/internal/sim/world"
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, out := s.handshake(conn)
		if sessionID == "" {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// RESULT frames must never be dropped, unlike STATE frames on out.
		results := make(chan []byte, 16)

		// Writer goroutine: the only writer after the handshake.
		go func() {
			for {
				var b []byte
				select {
				case <-ctx.Done():
					return
				case b = <-results:
				case b = <-out:
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			res, ok := s.handleMessage(ctx, sessionID, msg)
			if !ok {
				continue
			}
			b, err := json.Marshal(res)
			if err != nil {
				continue
			}
			select {
			case results <- b:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		cancel()

		// Cleanup.
		s.world.Leave() <- sessionID
	}
}

// handleMessage turns one client frame into a RESULT. Frames that are not
// ACTs are ignored.
func (s *Server) handleMessage(ctx context.Context, sessionID string, msg []byte) (protocol.ResultMsg, bool) {
	res := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		Tick:            s.world.CurrentTick(),
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		res.Code, res.Message = protocol.ErrProtoBadRequest, "malformed json"
		return res, true
	}
	if base.Type != protocol.TypeAct {
		return res, false
	}
	var act protocol.ActMsg
	if err := json.Unmarshal(msg, &act); err != nil {
		res.Code, res.Message = protocol.ErrProtoBadRequest, "malformed ACT"
		return res, true
	}
	res.Ref = act.ID
	if act.ProtocolVersion != protocol.Version {
		res.Code, res.Message = protocol.ErrProtoBadRequest, "bad protocol_version"
		return res, true
	}

	resp := make(chan world.ActionResponse, 1)
	select {
	case s.world.Inbox() <- world.ActionEnvelope{ClientID: sessionID, Act: act, Resp: resp}:
	case <-ctx.Done():
		return res, false
	}
	select {
	case r := <-resp:
		res.OK = r.Result.OK
		res.Code = r.Result.Code
		res.Message = r.Result.Message
		res.Tick = r.Tick
	case <-time.After(10 * time.Second):
		res.Code, res.Message = protocol.ErrInternal, "world did not answer"
	case <-ctx.Done():
		return res, false
	}
	return res, true
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	respCh := make(chan world.AttachResponse, 1)
	s.world.Attach() <- world.AttachRequest{
		Name:       hello.ClientName,
		ViewRadius: hello.Capabilities.ViewRadius,
		Out:        out,
		Resp:       respCh,
	}
	var resp world.AttachResponse
	select {
	case resp = <-respCh:
	case <-time.After(10 * time.Second):
		s.log.Printf("attach timeout for %q", hello.ClientName)
		return "", nil
	}

	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.world.Leave() <- resp.Welcome.SessionID
		return "", nil
	}
	s.log.Printf("session %s attached name=%q", resp.Welcome.SessionID, hello.ClientName)
	return resp.Welcome.SessionID, out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
