package domain

import "encoding/json"

// JournalEntry - запись одного принятого хостом действия
type JournalEntry struct {
	RoomCode  string          `json:"roomCode"`
	Revision  int64           `json:"revision"` // ревизия снимка после применения
	PlayerID  string          `json:"playerId"` // кто сделал
	Action    ActionType      `json:"action"`   // что сделал
	Payload   json.RawMessage `json:"payload"`  // с какими параметрами
	Timestamp int64           `json:"timestamp"`
}
