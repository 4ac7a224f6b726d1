package network

import (
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"sync"

	"github.com/sirupsen/logrus"
)

// SubscriberBuffer - сколько сообщений может ждать медленный клиент
const SubscriberBuffer = 64

// Broadcaster занимается только рассылкой сообщений подписчикам одной комнаты
type Broadcaster struct {
	room string
	mu   sync.RWMutex
	// Мапа: ConnID -> Личный канал
	subscribers map[string]chan api.ServerMessage
}

func NewBroadcaster(room string) *Broadcaster {
	return &Broadcaster{
		room:        room,
		subscribers: make(map[string]chan api.ServerMessage),
	}
}

// Register создает личный канал для соединения
func (b *Broadcaster) Register(connID string) <-chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[connID]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, SubscriberBuffer)
	b.subscribers[connID] = ch
	return ch
}

// Unregister удаляет подписчика. Повторный вызов безопасен.
func (b *Broadcaster) Unregister(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[connID]; ok {
		close(ch)
		delete(b.subscribers, connID)
	}
}

// SendTo отправляет сообщение конкретному соединению (Unicast)
func (b *Broadcaster) SendTo(connID string, msg api.ServerMessage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[connID]
	if !ok {
		return false
	}
	return b.offer(connID, ch, msg)
}

// Broadcast отправляет всем. Без повторов: переполненный клиент пропускает сообщение,
// следующий снимок все равно заменит состояние целиком.
func (b *Broadcaster) Broadcast(msg api.ServerMessage) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for id, ch := range b.subscribers {
		if b.offer(id, ch, msg) {
			delivered++
		}
	}
	return delivered
}

func (b *Broadcaster) offer(connID string, ch chan api.ServerMessage, msg api.ServerMessage) bool {
	select {
	case ch <- msg:
		return true
	default:
		logger.Log.WithFields(logrus.Fields{
			"component": "hub",
			"room":      b.room,
			"conn_id":   connID,
			"type":      msg.Type,
		}).Warn("Subscriber channel full, message dropped")
		return false
	}
}

// HasSubscriber проверяет, подключено ли соединение
func (b *Broadcaster) HasSubscriber(connID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[connID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
