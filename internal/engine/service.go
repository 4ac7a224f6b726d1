package engine

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/internal/engine/handlers/actions"
	"echoes-server/internal/engine/handlers/admin"
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"echoes-server/pkg/utils"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Сколько раз пробуем подобрать свободный код комнаты
const roomCodeAttempts = 16

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// Journal - долговременное хранилище действий и снимков (может отсутствовать)
type Journal interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
	SaveSnapshot(ctx context.Context, s *domain.Session) error
}

// GameService - реестр комнат процесса. Каждая комната живет в своей горутине.
type GameService struct {
	cfg     Config
	content handlers.Content
	journal Journal
	ctx     context.Context

	mu    sync.RWMutex
	rooms map[string]*Instance

	actionHandlers map[domain.ActionType]handlers.HandlerFunc
}

// NewService создает реестр. journal может быть nil.
// Комнаты живут, пока не отменен ctx.
func NewService(ctx context.Context, cfg Config, content handlers.Content, journal Journal) *GameService {
	s := &GameService{
		cfg:            cfg,
		content:        content,
		journal:        journal,
		ctx:            ctx,
		rooms:          make(map[string]*Instance),
		actionHandlers: make(map[domain.ActionType]handlers.HandlerFunc),
	}
	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.actionHandlers[domain.ActionRegisterPlayer] = handlers.WithPayload(actions.HandleRegister)
	s.actionHandlers[domain.ActionSetReady] = handlers.WithPayload(actions.HandleSetReady)
	s.actionHandlers[domain.ActionStartSetup] = handlers.WithPayload(actions.HandleStartSetup)
	s.actionHandlers[domain.ActionAssignItem] = handlers.WithPayload(actions.HandleAssignItem)
	s.actionHandlers[domain.ActionStartGame] = handlers.WithEmptyPayload(actions.HandleStartGame)
	s.actionHandlers[domain.ActionTileClick] = handlers.WithPayload(actions.HandleTileClick)
	s.actionHandlers[domain.ActionTokenClick] = handlers.WithPayload(actions.HandleTokenClick)
	s.actionHandlers[domain.ActionMonsterClick] = handlers.WithPayload(actions.HandleMonsterClick)
	s.actionHandlers[domain.ActionEndTurn] = handlers.WithEmptyPayload(actions.HandleEndTurn)
	s.actionHandlers[domain.ActionUseItem] = handlers.WithPayload(actions.HandleUseItem)
	s.actionHandlers[domain.ActionCompleteTask] = handlers.WithPayload(actions.HandleCompleteTask)
	s.actionHandlers[domain.ActionContinue] = handlers.WithEmptyPayload(actions.HandleContinue)

	s.actionHandlers[domain.ActionDebugSpawn] = handlers.WithPayload(admin.HandleSpawn)
	s.actionHandlers[domain.ActionDebugGrant] = handlers.WithPayload(admin.HandleGrant)
	s.actionHandlers[domain.ActionDebugTeleport] = handlers.WithPayload(admin.HandleTeleport)
}

// CreateRoom создает лобби с новым кодом и запускает его цикл
func (s *GameService) CreateRoom(difficulty domain.Difficulty) (*Instance, error) {
	if difficulty == "" {
		difficulty = s.cfg.Difficulty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		code := utils.GenerateRoomCode()
		if _, taken := s.rooms[code]; taken {
			continue
		}
		return s.startLocked(domain.NewSession(code, difficulty)), nil
	}
	return nil, fmt.Errorf("no free room code after %d attempts", roomCodeAttempts)
}

// Restore поднимает комнату из сохраненного снимка
func (s *GameService) Restore(session *domain.Session) (*Instance, error) {
	code := utils.NormalizeRoomCode(session.RoomCode)
	if code == "" {
		return nil, fmt.Errorf("restore: invalid room code %q", session.RoomCode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.rooms[code]; taken {
		return nil, fmt.Errorf("restore %s: %w", code, ErrRoomExists)
	}
	session.RoomCode = code
	return s.startLocked(session), nil
}

func (s *GameService) startLocked(session *domain.Session) *Instance {
	// Ревизия в зерне: восстановленная комната не повторяет уже выпавшие броски
	seed := s.cfg.Seed ^ utils.StringToSeed(session.RoomCode) ^ session.Revision
	inst := NewInstance(session, s, seed)
	s.rooms[session.RoomCode] = inst
	go inst.Run(s.ctx)

	logger.Log.WithFields(logrus.Fields{
		"room":       session.RoomCode,
		"phase":      session.Phase.String(),
		"difficulty": session.Difficulty,
		"seed":       seed,
	}).Info("Room opened")
	return inst
}

// Room ищет комнату по коду (без учета регистра)
func (s *GameService) Room(code string) (*Instance, error) {
	code = utils.NormalizeRoomCode(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.rooms[code]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", code, ErrRoomNotFound)
	}
	return inst, nil
}

// Rooms - сводка по всем комнатам, отсортированная по коду
func (s *GameService) Rooms() []api.RoomSummary {
	s.mu.RLock()
	out := make([]api.RoomSummary, 0, len(s.rooms))
	for _, inst := range s.rooms {
		out = append(out, inst.Summary())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool { return out[a].RoomCode < out[b].RoomCode })
	return out
}

// PeerID - идентификатор транспорта для кода комнаты
func (s *GameService) PeerID(code string) string {
	return utils.PeerID(s.cfg.PeerPrefix, code)
}
