package engine

import (
	"context"
	"echoes-server/internal/content"
	"echoes-server/internal/domain"
	"echoes-server/pkg/logger"
	"encoding/json"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

const testRoom = "ABC234"

// newTestInstance - комната без запущенного цикла, контент только офлайн
func newTestInstance(t *testing.T, seed int64) *Instance {
	t.Helper()
	cfg := Config{Seed: seed, PeerPrefix: "echoes-", Difficulty: domain.DifficultyNormal, Cheats: true}
	svc := NewService(context.Background(), cfg, content.NewService(nil, content.NewFallback(seed)), nil)
	return NewInstance(domain.NewSession(testRoom, domain.DifficultyNormal), svc, seed)
}

// settle дожидается всех асинхронных работ и применяет их результаты по одному,
// как это делает цикл комнаты
func (i *Instance) settle() {
	for {
		i.jobs.Wait()
		select {
		case apply := <-i.TaskChan:
			i.applyTask(apply)
		default:
			return
		}
	}
}

// do выполняет действие синхронно и дожидается асинхронных последствий
func (i *Instance) do(t *testing.T, playerID string, action domain.ActionType, fields map[string]any) error {
	t.Helper()
	msg := map[string]any{"type": action.String()}
	for k, v := range fields {
		msg[k] = v
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	err = i.executeCommand(InstanceCommand{PlayerID: playerID, Action: action, Raw: raw})
	i.settle()
	return err
}

func (i *Instance) mustDo(t *testing.T, playerID string, action domain.ActionType, fields map[string]any) {
	t.Helper()
	if err := i.do(t, playerID, action, fields); err != nil {
		t.Fatalf("%s by %s: %v", action, playerID, err)
	}
}

func register(t *testing.T, i *Instance, id, name, investigator string) {
	t.Helper()
	i.mustDo(t, id, domain.ActionRegisterPlayer, map[string]any{
		"payload": map[string]any{"id": id, "name": name, "investigatorId": investigator},
	})
}

// startedGame - два сыщика, игра началась
func startedGame(t *testing.T, seed int64) *Instance {
	t.Helper()
	i := newTestInstance(t, seed)
	register(t, i, "p1", "Alice", "detective")
	register(t, i, "p2", "Bob", "athlete")
	i.mustDo(t, "p1", domain.ActionStartSetup, nil)
	i.mustDo(t, "p1", domain.ActionStartGame, nil)
	if i.Session.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want PLAYING", i.Session.Phase)
	}
	return i
}

// resolvePending завершает ожидающий бросок или головоломку
func resolvePending(t *testing.T, i *Instance, success bool) {
	t.Helper()
	s := i.Session
	ac, ok := s.PendingContext()
	if !ok {
		t.Fatal("nothing pending")
	}

	fields := map[string]any{"context": ac}
	if req := s.ActiveDiceRoll; req != nil {
		face := domain.FaceBlank
		if success {
			face = domain.FaceSuccess
		}
		faces := make([]domain.DieFace, req.PoolSize)
		for k := range faces {
			faces[k] = face
		}
		fields["data"] = map[string]any{"faces": faces}
	} else {
		fields["success"] = success
	}
	i.mustDo(t, ac.PlayerID, domain.ActionCompleteTask, fields)
}
