package api

import (
	"echoes-server/internal/domain"
	"encoding/json"
)

// Типы сообщений
const (
	MsgSync  = "SYNC"
	MsgError = "ERROR"
)

// --- ХОСТ -> КЛИЕНТ ---

// ServerMessage - корневой объект от хоста.
// SYNC несет полный снимок сессии; клиент заменяет свою копию целиком.
type ServerMessage struct {
	Type string `json:"type"`

	// State - снимок для SYNC
	State *domain.Session `json:"state,omitempty"`

	// Error - причина отказа, отправляется только автору действия
	Error string `json:"error,omitempty"`

	// Action - какое действие было отклонено
	Action string `json:"action,omitempty"`
}

// --- КЛИЕНТ -> ХОСТ ---

// ClientMessage - конверт входящего сообщения. Поля действия лежат на верхнем уровне
// ({"type":"ACTION_TILE_CLICK","tileId":"..."}), поэтому обработчик получает все сообщение
// целиком и сам разбирает нужную ему структуру.
type ClientMessage struct {
	Type string `json:"type"`
}

// --- Payloads ---

// PlayerInfo - то, что клиент сообщает о себе при регистрации
type PlayerInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	InvestigatorID string `json:"investigatorId,omitempty"`
	Color          string `json:"color,omitempty"`
}

// RegisterPayload - ACTION_REGISTER_PLAYER{payload}
type RegisterPayload struct {
	Payload PlayerInfo `json:"payload"`
}

// ReadyPayload - ACTION_SET_READY{ready}
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// StartSetupPayload - ACTION_START_SETUP{difficulty?}
type StartSetupPayload struct {
	Difficulty string `json:"difficulty,omitempty"`
}

// AssignItemPayload - ACTION_ASSIGN_ITEM{item, playerId}
type AssignItemPayload struct {
	Item     string `json:"item"`
	PlayerID string `json:"playerId"`
}

// TilePayload - ACTION_TILE_CLICK{tileId}
type TilePayload struct {
	TileID string `json:"tileId"`
}

// TokenPayload - ACTION_TOKEN_CLICK{tokenId}
type TokenPayload struct {
	TokenID string `json:"tokenId"`
}

// MonsterPayload - ACTION_MONSTER_CLICK{monsterId}
type MonsterPayload struct {
	MonsterID string `json:"monsterId"`
}

// ItemPayload - ACTION_USE_ITEM{item}
type ItemPayload struct {
	Item string `json:"item"`
}

// CompleteTaskPayload - ACTION_COMPLETE_TASK{context, success, data}.
// Context должен в точности совпадать с ожидающим разрешением.
type CompleteTaskPayload struct {
	Context *domain.ActionContext `json:"context"`
	Success *bool                 `json:"success,omitempty"`
	Data    json.RawMessage       `json:"data,omitempty"`
}

// DiceData - бросок, сделанный клиентом. Без граней хост бросает сам.
type DiceData struct {
	Faces      []domain.DieFace `json:"faces,omitempty"`
	CluesSpent int              `json:"cluesSpent,omitempty"`
}

// PuzzleData - история попыток для проверки взлома кода
type PuzzleData struct {
	Guesses [][]string `json:"guesses,omitempty"`
}

// --- HTTP ---

// CreateRoomRequest - POST /rooms
type CreateRoomRequest struct {
	Difficulty string `json:"difficulty,omitempty"`
}

// CreateRoomResponse - код комнаты и идентификатор для транспорта
type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
	PeerID   string `json:"peerId"`
}

// RoomSummary - строка в /debug/rooms
type RoomSummary struct {
	RoomCode string `json:"roomCode"`
	Phase    string `json:"phase"`
	Round    int    `json:"round"`
	Players  int    `json:"players"`
	Clients  int    `json:"clients"`
	Revision int64  `json:"revision"`
}
