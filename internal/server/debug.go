package server

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine"
	"encoding/json"
	"net/http"
)

// DebugHandler предоставляет доступ к внутреннему состоянию комнат.
// Только чтение: все берется из последнего разосланного снимка.
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/rooms", h.handleListRooms)
	mux.HandleFunc("/debug/session", h.handleSession)
	mux.HandleFunc("/debug/journal", h.handleJournal)
}

// /debug/rooms - список комнат с фазой, раундом и числом подключений
func (h *DebugHandler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Rooms())
}

// /debug/session?room=ABC234 - полный снимок, включая тайные цели и секрет головоломки
func (h *DebugHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	inst, err := h.Service.Room(r.URL.Query().Get("room"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, inst.Snapshot())
}

// /debug/journal?room=ABC234 - последние принятые действия
func (h *DebugHandler) handleJournal(w http.ResponseWriter, r *http.Request) {
	inst, err := h.Service.Room(r.URL.Query().Get("room"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	entries := inst.Journal()
	if entries == nil {
		// Пустой журнал отдаем как [], а не null
		entries = []domain.JournalEntry{}
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	// Разрешаем запросы с любого источника (нужно для локального отладочного клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(data)
}
