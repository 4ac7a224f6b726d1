package server

import (
	"context"
	"echoes-server/internal/content"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine"
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, *engine.GameService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := engine.Config{Seed: 1, PeerPrefix: "echoes-", Difficulty: domain.DifficultyNormal}
	svc := engine.NewService(ctx, cfg, content.NewService(nil, content.NewFallback(1)), nil)
	ts := httptest.NewServer(New(svc, "0").Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func createRoom(t *testing.T, ts *httptest.Server) api.CreateRoomResponse {
	t.Helper()
	resp, err := http.Post(ts.URL+"/rooms", "application/json", strings.NewReader(`{"difficulty":"hard"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out api.CreateRoomResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func dial(t *testing.T, ts *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil читает сообщения, пока одно не подойдет под условие
func readUntil(t *testing.T, conn *websocket.Conn, match func(api.ServerMessage) bool) api.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg api.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func isError(msg api.ServerMessage) bool { return msg.Type == api.MsgError }

func TestServer_CreateRoom(t *testing.T) {
	ts, svc := newTestServer(t)

	room := createRoom(t, ts)
	assert.Len(t, room.RoomCode, 6)
	assert.Equal(t, "echoes-"+room.RoomCode, room.PeerID)

	inst, err := svc.Room(room.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyHard, inst.Session.Difficulty)

	resp, err := http.Get(ts.URL + "/rooms")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var info struct {
		Commit string `json:"commit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "unknown", info.Commit)
}

func TestServer_UnknownRoom(t *testing.T) {
	ts, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=ZZZZZZ"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_WebSocketFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	room := createRoom(t, ts)
	conn := dial(t, ts, room.RoomCode)

	first := readUntil(t, conn, func(m api.ServerMessage) bool { return m.Type == api.MsgSync })
	require.NotNil(t, first.State)
	assert.Equal(t, domain.PhaseLobby, first.State.Phase)

	// До регистрации действия не принимаются
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ACTION_END_TURN"}))
	msg := readUntil(t, conn, isError)
	assert.Contains(t, msg.Error, "register")

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p1", "name": "Alice", "investigatorId": "nun"},
	}))
	msg = readUntil(t, conn, func(m api.ServerMessage) bool {
		return m.Type == api.MsgSync && m.State != nil && len(m.State.Players) == 1
	})
	assert.Equal(t, "p1", msg.State.HostID)
	assert.Equal(t, "nun", msg.State.Players[0].InvestigatorID)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "BOGUS"}))
	msg = readUntil(t, conn, isError)
	assert.Contains(t, msg.Error, "unknown message type")

	// Соединение уже привязано к p1
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p2", "name": "Mallory"},
	}))
	msg = readUntil(t, conn, isError)
	assert.Equal(t, "ACTION_REGISTER_PLAYER", msg.Action)

	// Отказ движка тоже приходит только автору
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ACTION_START_GAME"}))
	msg = readUntil(t, conn, isError)
	assert.Equal(t, "ACTION_START_GAME", msg.Action)

	resp, err := http.Get(ts.URL + "/debug/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	var rooms []api.RoomSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, rooms[0].Players)
	assert.Equal(t, "LOBBY", rooms[0].Phase)

	jr, err := http.Get(ts.URL + "/debug/journal?room=" + room.RoomCode)
	require.NoError(t, err)
	defer jr.Body.Close()
	var entries []domain.JournalEntry
	require.NoError(t, json.NewDecoder(jr.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionRegisterPlayer, entries[0].Action)
}

func TestServer_SecondConnectionSeesSameState(t *testing.T) {
	ts, _ := newTestServer(t)
	room := createRoom(t, ts)

	host := dial(t, ts, room.RoomCode)
	readUntil(t, host, func(m api.ServerMessage) bool { return m.Type == api.MsgSync })
	require.NoError(t, host.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p1", "name": "Alice"},
	}))
	readUntil(t, host, func(m api.ServerMessage) bool { return m.State != nil && len(m.State.Players) == 1 })

	guest := dial(t, ts, room.RoomCode)
	msg := readUntil(t, guest, func(m api.ServerMessage) bool { return m.Type == api.MsgSync })
	require.Len(t, msg.State.Players, 1)
	assert.Equal(t, "Alice", msg.State.Players[0].Name)
}

func TestServer_RejectedRegistrationLeavesConnectionUnbound(t *testing.T) {
	ts, _ := newTestServer(t)
	room := createRoom(t, ts)

	host := dial(t, ts, room.RoomCode)
	readUntil(t, host, func(m api.ServerMessage) bool { return m.Type == api.MsgSync })
	require.NoError(t, host.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p1", "name": "Alice"},
	}))
	require.NoError(t, host.WriteJSON(map[string]any{"type": "ACTION_START_SETUP"}))
	readUntil(t, host, func(m api.ServerMessage) bool {
		return m.State != nil && m.State.Phase == domain.PhaseSetup
	})

	guest := dial(t, ts, room.RoomCode)
	readUntil(t, guest, func(m api.ServerMessage) bool { return m.Type == api.MsgSync })

	// Лобби закрыто: новый игрок не принят, соединение не привязано
	require.NoError(t, guest.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p9", "name": "Late"},
	}))
	msg := readUntil(t, guest, isError)
	assert.Contains(t, msg.Error, "registration closed")

	// Тот же сокет может вернуться под существующим игроком
	require.NoError(t, guest.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p1", "name": "Alice Again"},
	}))
	msg = readUntil(t, guest, func(m api.ServerMessage) bool {
		return m.Type == api.MsgError || (m.State != nil && len(m.State.Players) == 1 && m.State.Players[0].Name == "Alice Again")
	})
	require.Equal(t, api.MsgSync, msg.Type, "re-register failed: %s", msg.Error)

	// Теперь соединение привязано к p1
	require.NoError(t, guest.WriteJSON(map[string]any{
		"type":    "ACTION_REGISTER_PLAYER",
		"payload": map[string]any{"id": "p9", "name": "Late"},
	}))
	msg = readUntil(t, guest, isError)
	assert.Contains(t, msg.Error, "already bound")
}
