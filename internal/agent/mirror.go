package agent

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/api"
	"sync/atomic"
)

// Mirror - локальная копия сессии на стороне клиента. Только для чтения:
// каждый SYNC заменяет ее целиком, частичных обновлений нет.
type Mirror struct {
	state     atomic.Pointer[domain.Session]
	lastError atomic.Pointer[api.ServerMessage]
}

// Apply принимает сообщение хоста. Снимок старше текущего отбрасывается.
// Возвращает true, если состояние заменено.
func (m *Mirror) Apply(msg api.ServerMessage) bool {
	switch msg.Type {
	case api.MsgError:
		m.lastError.Store(&msg)
		return false
	case api.MsgSync:
	default:
		return false
	}
	if msg.State == nil {
		return false
	}

	for {
		cur := m.state.Load()
		if cur != nil && cur.RoomCode == msg.State.RoomCode && msg.State.Revision < cur.Revision {
			return false
		}
		if m.state.CompareAndSwap(cur, msg.State) {
			return true
		}
	}
}

// State - текущий снимок или nil. Вызывающий не должен его менять.
func (m *Mirror) State() *domain.Session {
	return m.state.Load()
}

// LastError - последний отказ хоста
func (m *Mirror) LastError() (api.ServerMessage, bool) {
	if e := m.lastError.Load(); e != nil {
		return *e, true
	}
	return api.ServerMessage{}, false
}

// Reset - хост пропал, зеркало больше ничего не знает
func (m *Mirror) Reset() {
	m.state.Store(nil)
	m.lastError.Store(nil)
}
