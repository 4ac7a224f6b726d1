package agent

import (
	"context"
	"echoes-server/internal/content"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine"
	"echoes-server/internal/server"
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func snapshot(room string, rev int64) *domain.Session {
	s := domain.NewSession(room, domain.DifficultyNormal)
	s.Revision = rev
	return s
}

func TestMirror_DropsOlderRevisions(t *testing.T) {
	var m Mirror
	assert.Nil(t, m.State())

	assert.True(t, m.Apply(api.ServerMessage{Type: api.MsgSync, State: snapshot("ABC234", 3)}))
	assert.False(t, m.Apply(api.ServerMessage{Type: api.MsgSync, State: snapshot("ABC234", 2)}))
	assert.Equal(t, int64(3), m.State().Revision)

	assert.True(t, m.Apply(api.ServerMessage{Type: api.MsgSync, State: snapshot("ABC234", 4)}))
	assert.Equal(t, int64(4), m.State().Revision)

	// Другая комната - новый хост, ревизии начинаются заново
	assert.True(t, m.Apply(api.ServerMessage{Type: api.MsgSync, State: snapshot("XYZ789", 1)}))
	assert.Equal(t, "XYZ789", m.State().RoomCode)
}

func TestMirror_ErrorsAndReset(t *testing.T) {
	var m Mirror
	m.Apply(api.ServerMessage{Type: api.MsgSync, State: snapshot("ABC234", 1)})
	assert.False(t, m.Apply(api.ServerMessage{Type: api.MsgError, Error: "not your turn", Action: "ACTION_END_TURN"}))

	e, ok := m.LastError()
	require.True(t, ok)
	assert.Equal(t, "ACTION_END_TURN", e.Action)

	m.Reset()
	assert.Nil(t, m.State())
	_, ok = m.LastError()
	assert.False(t, ok)
}

func TestNextMove(t *testing.T) {
	playing := func() *domain.Session {
		s := snapshot("ABC234", 1)
		s.Phase = domain.PhasePlaying
		s.HostID = "p1"
		s.Players = []*domain.Player{
			domain.NewPlayer("p1", "Alice", domain.Investigators[0]),
			domain.NewPlayer("p2", "Bob", domain.Investigators[1]),
		}
		return s
	}

	t.Run("not my turn", func(t *testing.T) {
		_, _, ok := NextMove(playing(), "p2")
		assert.False(t, ok)
	})

	t.Run("search under feet", func(t *testing.T) {
		s := playing()
		s.Tokens = []*domain.Token{{ID: "search_1", Type: domain.TokenSearch}}
		action, fields, ok := NextMove(s, "p1")
		require.True(t, ok)
		assert.Equal(t, domain.ActionTokenClick, action)
		assert.Equal(t, "search_1", fields["tokenId"])
	})

	t.Run("end turn", func(t *testing.T) {
		action, _, ok := NextMove(playing(), "p1")
		require.True(t, ok)
		assert.Equal(t, domain.ActionEndTurn, action)
	})

	t.Run("complete own roll", func(t *testing.T) {
		s := playing()
		ac := domain.ActionContext{Kind: domain.ContextMythosTest, PlayerID: "p2", Attribute: domain.AttrWill}
		require.NoError(t, s.BeginDiceRoll(domain.DiceRequest{PlayerID: "p2", PoolSize: 2, Target: 1, Context: ac}))

		_, _, ok := NextMove(s, "p1")
		assert.False(t, ok, "someone else's roll")

		action, fields, ok := NextMove(s, "p2")
		require.True(t, ok)
		assert.Equal(t, domain.ActionCompleteTask, action)
		assert.Equal(t, ac, fields["context"])
		assert.NotContains(t, fields, "success")
	})

	t.Run("host continues mythos", func(t *testing.T) {
		s := playing()
		s.Phase = domain.PhaseMythos
		action, _, ok := NextMove(s, "p1")
		require.True(t, ok)
		assert.Equal(t, domain.ActionContinue, action)

		_, _, ok = NextMove(s, "p2")
		assert.False(t, ok)

		s.MythosPending = true
		_, _, ok = NextMove(s, "p1")
		assert.False(t, ok, "event still on its way")
	})

	t.Run("game over", func(t *testing.T) {
		s := playing()
		s.Phase = domain.PhaseGameOver
		_, _, ok := NextMove(s, "p1")
		assert.False(t, ok)
	})
}

func TestBot_PlaysARound(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := engine.Config{Seed: 5, PeerPrefix: "echoes-", Difficulty: domain.DifficultyNormal}
	svc := engine.NewService(ctx, cfg, content.NewService(nil, content.NewFallback(5)), nil)
	ts := httptest.NewServer(server.New(svc, "0").Handler())
	defer ts.Close()

	inst, err := svc.CreateRoom("")
	require.NoError(t, err)

	bot, err := Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), inst.Code, "bot-1", "Robo")
	require.NoError(t, err)

	// В лобби бот не ходит, стратегия включается сразу
	bot.AutoPlay = true
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	require.Eventually(t, func() bool { return bot.Mirror.State() != nil }, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, bot.Register("drifter"))
	require.Eventually(t, func() bool {
		s := bot.Mirror.State()
		return s != nil && len(s.Players) == 1
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, bot.Send(domain.ActionStartSetup, nil))
	require.NoError(t, bot.Send(domain.ActionStartGame, nil))

	require.Eventually(t, func() bool {
		s := bot.Mirror.State()
		return s != nil && (s.Round >= 2 || s.Phase.IsTerminal())
	}, 5*time.Second, 10*time.Millisecond)

	// Зеркало совпадает с последним снимком хоста по ревизии
	require.Eventually(t, func() bool {
		return bot.Mirror.State().Revision <= inst.Snapshot().Revision
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("bot did not stop")
	}
	assert.Nil(t, bot.Mirror.State(), "mirror is reset when the host goes away")
}
