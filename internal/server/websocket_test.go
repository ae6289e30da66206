package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberquest/internal/arena"
)

type roomAck struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
	Lane     int    `json:"lane"`
	Error    string `json:"error"`
}

type capturingRecorder struct {
	mu      sync.Mutex
	records []arena.MatchRecord
}

func (r *capturingRecorder) RecordMatch(record arena.MatchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func (r *capturingRecorder) all() []arena.MatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]arena.MatchRecord(nil), r.records...)
}

func openRoom(t *testing.T, host, guest *websocket.Conn) string {
	t.Helper()
	sendWS(t, host, "create-room", map[string]any{"displayName": "Host", "avatarRef": "owl"}, 1)
	var created roomAck
	waitForAck(t, host, 1, &created)
	require.True(t, created.Success)
	require.Len(t, created.RoomCode, 6)

	sendWS(t, guest, "join-room", map[string]any{"roomCode": created.RoomCode, "displayName": "Guest"}, 2)
	var joined roomAck
	waitForAck(t, guest, 2, &joined)
	require.True(t, joined.Success)
	assert.Equal(t, 1, joined.Lane)
	return created.RoomCode
}

func TestWebsocketLobbyFlow(t *testing.T) {
	_, ts := newArenaServer(t, testConfig(), Deps{})
	host := dialWS(t, ts)
	guest := dialWS(t, ts)

	openRoom(t, host, guest)

	var msg wsMessage
	for {
		msg = waitForWS(t, host, arena.EventPlayersUpdated)
		var players struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(msg.Data, &players))
		if players.Count == 2 {
			break
		}
	}

	sendWS(t, guest, "player-ready", true, -1)
	for {
		msg = waitForWS(t, host, arena.EventCanStartGame)
		if string(msg.Data) == "true" {
			break
		}
	}

	sendWS(t, host, "start-game", nil, -1)
	waitForWS(t, guest, arena.EventGameStarting)
	tick := waitForWS(t, guest, arena.EventCountdownTick)
	assert.Equal(t, "3", string(tick.Data))
	waitForWS(t, guest, arena.EventGameStarted)

	sendWS(t, host, "player-update", map[string]any{"position": map[string]float64{"x": 40, "y": 0}, "score": 12}, -1)
	moved := waitForWS(t, guest, arena.EventPlayerMoved)
	var move struct {
		Score int `json:"score"`
	}
	require.NoError(t, json.Unmarshal(moved.Data, &move))
	assert.Equal(t, 12, move.Score)
}

func TestWebsocketJoinUnknownRoom(t *testing.T) {
	_, ts := newArenaServer(t, testConfig(), Deps{})
	conn := dialWS(t, ts)

	sendWS(t, conn, "join-room", map[string]any{"roomCode": "ZZZZZZ", "displayName": "Lost"}, 9)
	var ack roomAck
	waitForAck(t, conn, 9, &ack)

	assert.False(t, ack.Success)
	assert.Equal(t, "Room not found", ack.Error)
}

func TestWebsocketInvalidMessage(t *testing.T) {
	_, ts := newArenaServer(t, testConfig(), Deps{})
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{oops")))
	msg := waitForWS(t, conn, arena.EventErrorMessage)
	assert.Equal(t, `"Invalid message"`, string(msg.Data))

	sendWS(t, conn, "start-game", nil, -1)
	expectNoWSMessage(t, conn, 200*time.Millisecond)
}

func TestWebsocketHostDisconnectPromotesGuest(t *testing.T) {
	srv, ts := newArenaServer(t, testConfig(), Deps{})
	host := dialWS(t, ts)
	guest := dialWS(t, ts)
	openRoom(t, host, guest)

	require.NoError(t, host.Close())

	waitForWS(t, guest, arena.EventYouAreHost)
	require.Eventually(t, func() bool { return srv.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebsocketGameEndsAndIsRecorded(t *testing.T) {
	recorder := &capturingRecorder{}
	_, ts := newArenaServer(t, testConfig(), Deps{Recorder: recorder})
	host := dialWS(t, ts)
	guest := dialWS(t, ts)
	code := openRoom(t, host, guest)

	sendWS(t, guest, "player-ready", true, -1)
	sendWS(t, host, "start-game", nil, -1)
	waitForWS(t, host, arena.EventGameStarted)
	waitForWS(t, guest, arena.EventGameStarted)

	sendWS(t, host, "player-eliminated", map[string]int{"score": 10}, -1)
	waitForWS(t, guest, arena.EventPlayerEliminated)
	sendWS(t, guest, "quiz-answer", map[string]bool{"correct": false}, -1)

	ended := waitForWS(t, host, arena.EventGameEnded)
	var payload struct {
		Results []arena.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(ended.Data, &payload))
	require.Len(t, payload.Results, 2)
	assert.Equal(t, "Guest", payload.Results[0].DisplayName)
	assert.Equal(t, 1, payload.Results[0].Rank)

	require.Eventually(t, func() bool { return len(recorder.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, code, recorder.all()[0].RoomCode)
}

func TestWebsocketRateLimitDropsMessages(t *testing.T) {
	cfg := testConfig()
	cfg.MessagesPerSecond = 0.001
	cfg.MessageBurst = 1
	_, ts := newArenaServer(t, cfg, Deps{})
	conn := dialWS(t, ts)

	sendWS(t, conn, "create-room", map[string]any{"displayName": "Ada"}, 1)
	var ack roomAck
	waitForAck(t, conn, 1, &ack)
	require.True(t, ack.Success)
	waitForWS(t, conn, arena.EventCanStartGame)

	sendWS(t, conn, "join-room", map[string]any{"roomCode": "ZZZZZZ", "displayName": "Ada"}, 2)
	expectNoWSMessage(t, conn, 200*time.Millisecond)
}

func expectNoWSMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("expected no websocket message within %s, got %s", timeout, payload)
	}
}
