package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"cyberquest/internal/arena"
	"cyberquest/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.CountdownTickMillis = 10
	cfg.ObstacleIntervalMillis = 1000
	cfg.EndGraceMillis = 20
	cfg.MessagesPerSecond = 1000
	cfg.MessageBurst = 1000
	return cfg
}

// newArenaServer starts a loop and a server for it. The loop stops with the test.
func newArenaServer(t *testing.T, cfg config.Config, deps Deps) (*Server, *httptest.Server) {
	t.Helper()
	loop := arena.NewLoop(64)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()

	srv := New(cfg, loop, deps)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Ack   *int            `json:"ack"`
}

// sendWS writes one envelope. A negative ack sends the event without an ack id.
func sendWS(t *testing.T, conn *websocket.Conn, event string, data any, ack int) {
	t.Helper()
	msg := map[string]any{"event": event}
	if data != nil {
		msg["data"] = data
	}
	if ack >= 0 {
		msg["ack"] = ack
	}
	require.NoError(t, conn.WriteJSON(msg))
}

func readWS(t *testing.T, conn *websocket.Conn, timeout time.Duration) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	var msg wsMessage
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err, "read websocket message")
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

// waitForWS skips unrelated events until one named event arrives.
func waitForWS(t *testing.T, conn *websocket.Conn, event string) wsMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msg := readWS(t, conn, time.Until(deadline))
		if msg.Event == event {
			return msg
		}
	}
	t.Fatalf("no %s message within deadline", event)
	return wsMessage{}
}

func waitForAck(t *testing.T, conn *websocket.Conn, ack int, dest any) {
	t.Helper()
	for {
		msg := waitForWS(t, conn, "ack")
		if msg.Ack != nil && *msg.Ack == ack {
			require.NoError(t, json.Unmarshal(msg.Data, dest))
			return
		}
	}
}

func getJSON(t *testing.T, url string, dest any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}
