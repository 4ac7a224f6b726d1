package handlers

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/pkg/dungeon"
	"encoding/json"
	"math/rand"
)

// Content - источник текста и описаний комнат.
// Методы не возвращают ошибок: при сбое живого сервиса подставляется запасной генератор.
type Content interface {
	Intro(ctx context.Context, difficulty domain.Difficulty, players []domain.PlayerSummary) domain.Intro
	RoomDiscovery(ctx context.Context, req domain.RoomRequest) domain.RoomDescriptor
	InvestigationOutcome(ctx context.Context, description string, success bool, storyContext, foundObject string) string
	MythosEvent(ctx context.Context, storyContext string, threat int) domain.MythosEvent
	InsanityCondition(ctx context.Context, storyContext string) string
}

// ApplyFunc применяется в цикле комнаты к ТЕКУЩЕЙ сессии.
// Все, что было прочитано до ожидания, надо проверить заново.
type ApplyFunc func(ctx Context) (Result, error)

// Job - асинхронная работа (запрос к генератору контента).
// Выполняется вне цикла комнаты и не имеет права трогать сессию,
// результат возвращается как ApplyFunc.
type Job func(ctx context.Context) ApplyFunc

// Context передает хендлеру состояние комнаты.
// Session - живая авторитетная копия, хендлер мутирует ее напрямую.
type Context struct {
	Session *domain.Session
	Actor   string // ID игрока, привязанный к соединению
	Rng     *rand.Rand
	Dungeon *dungeon.Generator
	Content Content

	// Defer запускает асинхронную работу. Результат вернется в цикл комнаты.
	Defer func(job Job)

	// Cheats - разрешены ли отладочные команды
	Cheats bool
}

// Player возвращает сыщика, от имени которого выполняется команда
func (c Context) Player() (*domain.Player, error) {
	p := c.Session.Player(c.Actor)
	if p == nil {
		return nil, domain.ErrUnknownPlayer
	}
	return p, nil
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, COMBAT, STORY, MYTHOS)

	// Silent - состояние не изменилось, рассылать снимок не нужно
	Silent bool
}

// HandlerFunc - это контракт для любой команды (TILE_CLICK, END_TURN, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Info - строка в журнал партии
func Info(msg string) Result {
	return Result{Msg: msg, MsgType: domain.LogInfo}
}
