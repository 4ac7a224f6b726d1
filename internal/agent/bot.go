package agent

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Это ВНЕШНИЙ клиент: он подключается к хосту по WebSocket так же, как обычный игрок,
// держит зеркало сессии и отправляет действия обратно.
//
// Жизненный цикл:
//  1. Dial -> подключение к комнате, первый SYNC приходит сразу.
//  2. Register -> привязка соединения к игроку.
//  3. Run -> читает снимки и заменяет зеркало целиком.
//     Если AutoPlay включен и сейчас ход бота, вызывается makeMove.
//  4. Обрыв соединения -> зеркало сбрасывается, Run возвращает ошибку.
type Bot struct {
	PlayerID string
	Name     string
	AutoPlay bool

	Mirror Mirror

	conn *websocket.Conn
	wmu  sync.Mutex
	log  *logrus.Entry

	// ревизия, на которую бот уже ответил, чтобы не слать один ход дважды
	actedRevision int64
}

// Dial подключается к комнате. base - адрес хоста вида ws://host:port.
func Dial(ctx context.Context, base, room, playerID, name string) (*Bot, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse host url: %w", err)
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"room": {room}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", room, err)
	}

	logger.Log.WithField("player_id", playerID).Info("[BOT] Agent connected")
	return &Bot{
		PlayerID:      playerID,
		Name:          name,
		conn:          conn,
		actedRevision: -1,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"room":      room,
			"player_id": playerID,
		}),
	}, nil
}

// Register - ACTION_REGISTER_PLAYER от имени бота
func (b *Bot) Register(investigator string) error {
	return b.Send(domain.ActionRegisterPlayer, map[string]any{
		"payload": api.PlayerInfo{ID: b.PlayerID, Name: b.Name, InvestigatorID: investigator},
	})
}

// Send отправляет действие. Поля кладутся на верхний уровень сообщения рядом с type.
func (b *Bot) Send(action domain.ActionType, fields map[string]any) error {
	msg := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		msg[k] = v
	}
	msg["type"] = action.String()

	b.wmu.Lock()
	defer b.wmu.Unlock()
	if err := b.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", action, err)
	}
	return nil
}

// Run читает сообщения хоста до обрыва или отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = b.conn.Close() })
	defer stop()
	defer b.log.Info("[BOT] Agent shut down")

	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			b.Mirror.Reset()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("host connection lost: %w", err)
		}

		var msg api.ServerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			b.log.WithError(err).Warn("[BOT] Malformed message from host")
			continue
		}
		if msg.Type == api.MsgError {
			b.log.WithField("action", msg.Action).Debug("[BOT] Action rejected: " + msg.Error)
		}
		if !b.Mirror.Apply(msg) || !b.AutoPlay {
			continue
		}
		b.makeMove(b.Mirror.State())
	}
}

// Close закрывает соединение
func (b *Bot) Close() error {
	return b.conn.Close()
}

// makeMove - мозг бота. Решение принимается только по зеркалу.
func (b *Bot) makeMove(s *domain.Session) {
	if s == nil || s.Revision == b.actedRevision {
		return
	}
	action, fields, ok := NextMove(s, b.PlayerID)
	if !ok {
		return
	}
	b.actedRevision = s.Revision
	if err := b.Send(action, fields); err != nil {
		b.log.WithError(err).Warn("[BOT] Failed to send move")
	}
}

// NextMove - простая стратегия: завершить свой бросок (кубики бросает хост),
// сдаться в головоломке, обыскать маркер под ногами, иначе закончить ход.
// В фазе мифа бот продолжает игру, когда атаки разобраны и событие применено.
func NextMove(s *domain.Session, playerID string) (domain.ActionType, map[string]any, bool) {
	if s == nil || s.Phase.IsTerminal() || s.Player(playerID) == nil {
		return domain.ActionUnknown, nil, false
	}

	if ac, ok := s.PendingContext(); ok {
		if ac.PlayerID != playerID {
			return domain.ActionUnknown, nil, false
		}
		fields := map[string]any{"context": ac}
		if s.ActivePuzzle != nil {
			fields["success"] = false
		}
		return domain.ActionCompleteTask, fields, true
	}

	switch s.Phase {
	case domain.PhaseMythos:
		if len(s.AttackQueue) == 0 && !s.MythosPending && s.HostID == playerID {
			return domain.ActionContinue, nil, true
		}
	case domain.PhasePlaying:
		me := s.CurrentPlayer()
		if me == nil || me.ID != playerID {
			break
		}
		if me.ActionsRemaining > 0 {
			for _, tok := range s.Tokens {
				if tok.Type == domain.TokenSearch && tok.Pos == me.Pos {
					return domain.ActionTokenClick, map[string]any{"tokenId": tok.ID}, true
				}
			}
		}
		return domain.ActionEndTurn, nil, true
	}
	return domain.ActionUnknown, nil, false
}
