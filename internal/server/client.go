package server

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/internal/engine"
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"echoes-server/pkg/utils"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var (
	errNotRegistered = errors.New("register before sending actions")
	errIdentityTaken = errors.New("connection is already bound to another player")
)

// Client - посредник между Websocket и комнатой.
// Соединение привязывается к игроку первым ПРИНЯТЫМ ACTION_REGISTER_PLAYER и дальше
// действует только от его имени.
type Client struct {
	ctx      context.Context
	Room     *engine.Instance
	Conn     *websocket.Conn
	ConnID   string
	PlayerID string

	updates <-chan api.ServerMessage
	log     *logrus.Entry
}

func NewClient(ctx context.Context, room *engine.Instance, conn *websocket.Conn) *Client {
	connID := utils.GenerateID()
	return &Client{
		ctx:    ctx,
		Room:   room,
		Conn:   conn,
		ConnID: connID,
		log: logger.Log.WithFields(logrus.Fields{
			"room":    room.Code,
			"conn_id": connID,
		}),
	}
}

// Start подписывает соединение на снимки комнаты и запускает пампы
func (c *Client) Start() {
	c.updates = c.Room.Hub.Register(c.ConnID)
	select {
	case c.Room.JoinChan <- c.ConnID:
	case <-c.ctx.Done():
	}
	c.log.Info("Client connected")

	go c.writePump()
	go c.readPump()
}

// readPump читает действия от клиента
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Room.LeaveChan <- c.ConnID:
		default:
			// Цикл комнаты занят - отписываемся сами
			c.Room.Hub.Unregister(c.ConnID)
		}
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.WithField("player_id", c.PlayerID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS error")
			}
			return
		}

		cmd, err := c.command(raw)
		if err != nil {
			c.fail(cmd.Action, err)
			continue
		}
		if c.PlayerID == "" {
			// Первая регистрация: привязка только после того, как комната ее приняла
			if !c.bind(cmd) {
				return
			}
			continue
		}
		if err := c.Room.Submit(c.ctx, cmd); err != nil {
			return
		}
	}
}

// bind отправляет регистрацию и ждет ответа комнаты. false - соединение пора закрыть.
func (c *Client) bind(cmd engine.InstanceCommand) bool {
	reply := make(chan error, 1)
	cmd.Reply = reply
	if err := c.Room.Submit(c.ctx, cmd); err != nil {
		return false
	}
	select {
	case err := <-reply:
		if err == nil {
			c.PlayerID = cmd.PlayerID
			c.log = c.log.WithField("player_id", c.PlayerID)
		}
		return true
	case <-c.ctx.Done():
		return false
	}
}

// command разбирает конверт и проставляет автора
func (c *Client) command(raw []byte) (engine.InstanceCommand, error) {
	var msg api.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return engine.InstanceCommand{}, fmt.Errorf("malformed message: %w", err)
	}
	action := domain.ParseAction(msg.Type)
	cmd := engine.InstanceCommand{ConnID: c.ConnID, Action: action, Raw: raw}
	if action == domain.ActionUnknown {
		return cmd, fmt.Errorf("unknown message type %q", msg.Type)
	}

	if action == domain.ActionRegisterPlayer {
		var reg api.RegisterPayload
		if err := json.Unmarshal(raw, &reg); err != nil {
			return cmd, fmt.Errorf("malformed registration: %w", err)
		}
		switch {
		case reg.Payload.ID == "":
			return cmd, errors.New("registration requires an id")
		case c.PlayerID != "" && c.PlayerID != reg.Payload.ID:
			return cmd, errIdentityTaken
		}
		cmd.PlayerID = reg.Payload.ID
		return cmd, nil
	}
	if c.PlayerID == "" {
		return cmd, errNotRegistered
	}

	cmd.PlayerID = c.PlayerID
	return cmd, nil
}

// fail - ошибка разбора возвращается только этому соединению
func (c *Client) fail(action domain.ActionType, err error) {
	c.log.WithError(err).Warn("Message rejected")
	c.Room.Hub.SendTo(c.ConnID, api.ServerMessage{
		Type:   api.MsgError,
		Error:  err.Error(),
		Action: action.String(),
	})
}

// writePump отправляет снимки клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Hub закрыл подписку
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
