package engine

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/engine/handlers/actions"
	"echoes-server/internal/network"
	"echoes-server/pkg/api"
	"echoes-server/pkg/dungeon"
	"echoes-server/pkg/logger"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Сколько последних действий держим в памяти для /debug/journal
const replayTail = 200

// InstanceCommand обертка, чтобы передать команду и того, кто её вызвал
type InstanceCommand struct {
	ConnID   string            // соединение, куда вернуть ошибку
	PlayerID string            // игрок, привязанный к соединению
	Action   domain.ActionType // что делаем
	Raw      json.RawMessage   // сообщение целиком

	// Reply - если задан (с буфером), сюда уходит итог выполнения
	Reply chan<- error
}

// Instance - одна комната: единственная авторитетная сессия и ее цикл.
// Session мутирует только горутина Run.
type Instance struct {
	Code    string
	Session *domain.Session

	// Каналы коммуникации
	CommandChan chan InstanceCommand     // Команды от игроков, строго по порядку
	TaskChan    chan handlers.ApplyFunc // Результаты асинхронных запросов
	JoinChan    chan string             // Новое соединение (ConnID)
	LeaveChan   chan string             // Соединение закрыто

	Hub *network.Broadcaster

	// Ссылка на Service для хендлеров, контента и журнала
	Service *GameService

	Rng  *rand.Rand // Локальный генератор
	Seed int64      // Сид, с которого началась комната

	dungeon *dungeon.Generator
	ctx     context.Context
	jobs    sync.WaitGroup

	// Последний разосланный снимок и хвост журнала, для чтения из других горутин
	snapshot atomic.Pointer[domain.Session]
	replayMu sync.RWMutex
	replay   []domain.JournalEntry
}

func NewInstance(session *domain.Session, service *GameService, seed int64) *Instance {
	rng := rand.New(rand.NewSource(seed))
	i := &Instance{
		Code:        session.RoomCode,
		Session:     session,
		CommandChan: make(chan InstanceCommand, 100),
		TaskChan:    make(chan handlers.ApplyFunc, 64),
		JoinChan:    make(chan string, 10),
		LeaveChan:   make(chan string, 10),
		Hub:         network.NewBroadcaster(session.RoomCode),
		Service:     service,
		Rng:         rng,
		Seed:        seed,
		dungeon:     dungeon.NewGenerator(rng),
		ctx:         context.Background(),
	}
	if snap, err := session.Clone(); err == nil {
		i.snapshot.Store(snap)
	}
	return i
}

// Run запускает цикл ЭТОЙ комнаты. Команды, результаты генерации и подключения
// обрабатываются по одной, поэтому сессии не нужен мьютекс.
func (i *Instance) Run(ctx context.Context) {
	i.ctx = ctx
	log := logger.Log.WithField("room", i.Code)
	log.Info("Room loop started")
	defer log.Info("Room loop stopped")
	// Опоздавшие запросы видят отмененный ctx и не держат комнату
	defer i.jobs.Wait()

	// Восстановленная комната могла потерять ответы генератора
	actions.ResumePending(i.handlerContext(""))

	for {
		select {
		case <-ctx.Done():
			return

		case connID := <-i.JoinChan:
			i.sendSnapshot(connID)

		case connID := <-i.LeaveChan:
			i.Hub.Unregister(connID)
			log.WithField("conn_id", connID).Info("Client left, game continues")

		case cmd := <-i.CommandChan:
			err := i.executeCommand(cmd)
			if cmd.Reply != nil {
				cmd.Reply <- err
			}

		case apply := <-i.TaskChan:
			i.applyTask(apply)
		}
	}
}

// Submit ставит команду в очередь комнаты
func (i *Instance) Submit(ctx context.Context, cmd InstanceCommand) error {
	select {
	case i.CommandChan <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// executeCommand выполняет команду в контексте комнаты.
// Ошибка уже залогирована и отправлена автору, вызывающему она нужна только для тестов.
func (i *Instance) executeCommand(cmd InstanceCommand) error {
	handler, ok := i.Service.actionHandlers[cmd.Action]
	if !ok {
		return i.reject(cmd, fmt.Errorf("unsupported action %s", cmd.Action))
	}
	if cmd.PlayerID == "" {
		return i.reject(cmd, domain.ErrUnknownPlayer)
	}

	result, err := handler(i.handlerContext(cmd.PlayerID), cmd.Raw)
	if err != nil {
		return i.reject(cmd, err)
	}

	i.commit(result)
	i.recordAction(cmd)
	return nil
}

// applyTask применяет результат асинхронной работы к текущей сессии
func (i *Instance) applyTask(apply handlers.ApplyFunc) {
	result, err := apply(i.handlerContext(""))
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"room":      i.Code,
			"component": "async",
		}).WithError(err).Info("Stale async result dropped")
		return
	}
	i.commit(result)
}

func (i *Instance) handlerContext(actor string) handlers.Context {
	return handlers.Context{
		Session: i.Session,
		Actor:   actor,
		Rng:     i.Rng,
		Dungeon: i.dungeon,
		Content: i.Service.content,
		Defer:   i.spawn,
		Cheats:  i.Service.cfg.Cheats,
	}
}

// spawn запускает асинхронную работу на контексте комнаты.
// Отмены нет: опоздавший результат применяется по возможности.
func (i *Instance) spawn(job handlers.Job) {
	ctx := i.ctx
	i.jobs.Add(1)
	go func() {
		defer i.jobs.Done()
		apply := job(ctx)
		if apply == nil {
			return
		}
		select {
		case i.TaskChan <- apply:
		case <-ctx.Done():
		}
	}()
}

// commit пишет строку в журнал партии и рассылает новый снимок
func (i *Instance) commit(result handlers.Result) {
	if result.Msg != "" {
		i.AddLog(result.Msg, result.MsgType)
	}
	if result.Silent && result.Msg == "" {
		return
	}
	i.Session.Revision++
	i.publish()
}

// publish - один снимок на каждое изменение, всем открытым соединениям
func (i *Instance) publish() {
	snap, err := i.Session.Clone()
	if err != nil {
		logger.Log.WithField("room", i.Code).WithError(err).Error("Snapshot failed")
		return
	}
	i.snapshot.Store(snap)
	i.Hub.Broadcast(api.ServerMessage{Type: api.MsgSync, State: snap})

	if journal := i.Service.journal; journal != nil {
		if err := journal.SaveSnapshot(i.ctx, snap); err != nil {
			logger.Log.WithField("room", i.Code).WithError(err).Warn("Failed to persist snapshot")
		}
	}
}

func (i *Instance) sendSnapshot(connID string) {
	snap := i.snapshot.Load()
	if snap == nil {
		return
	}
	i.Hub.SendTo(connID, api.ServerMessage{Type: api.MsgSync, State: snap})
}

// reject - невалидное действие не фатально: лог и ошибка только автору
func (i *Instance) reject(cmd InstanceCommand, err error) error {
	logger.Log.WithFields(logrus.Fields{
		"room":      i.Code,
		"player_id": cmd.PlayerID,
		"action":    cmd.Action.String(),
		"phase":     i.Session.Phase.String(),
	}).WithError(err).Warn("Action rejected")

	if cmd.ConnID != "" {
		i.Hub.SendTo(cmd.ConnID, api.ServerMessage{
			Type:   api.MsgError,
			Error:  err.Error(),
			Action: cmd.Action.String(),
		})
	}
	return err
}

func (i *Instance) recordAction(cmd InstanceCommand) {
	entry := domain.JournalEntry{
		RoomCode:  i.Code,
		Revision:  i.Session.Revision,
		PlayerID:  cmd.PlayerID,
		Action:    cmd.Action,
		Payload:   cmd.Raw,
		Timestamp: time.Now().UnixMilli(),
	}

	i.replayMu.Lock()
	i.replay = append(i.replay, entry)
	if over := len(i.replay) - replayTail; over > 0 {
		i.replay = append([]domain.JournalEntry(nil), i.replay[over:]...)
	}
	i.replayMu.Unlock()

	if journal := i.Service.journal; journal != nil {
		if err := journal.Record(i.ctx, entry); err != nil {
			logger.Log.WithField("room", i.Code).WithError(err).Warn("Failed to record action")
		}
	}
}

// Snapshot - последний разосланный снимок. Безопасно из любой горутины.
func (i *Instance) Snapshot() *domain.Session {
	return i.snapshot.Load()
}

// Journal - копия хвоста журнала действий
func (i *Instance) Journal() []domain.JournalEntry {
	i.replayMu.RLock()
	defer i.replayMu.RUnlock()
	return append([]domain.JournalEntry(nil), i.replay...)
}

// Summary - строка для /debug/rooms
func (i *Instance) Summary() api.RoomSummary {
	sum := api.RoomSummary{RoomCode: i.Code, Clients: i.Hub.SubscriberCount()}
	if snap := i.Snapshot(); snap != nil {
		sum.Phase = snap.Phase.String()
		sum.Round = snap.Round
		sum.Players = len(snap.Players)
		sum.Revision = snap.Revision
	}
	return sum
}
