package utils

import (
	crand "crypto/rand"
	"hash/fnv"
	"math/big"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Алфавит кода комнаты без похожих символов (0/O, 1/I)
const (
	RoomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLength = 6
)

// GenerateID создает случайный уникальный ID
func GenerateID() string {
	return uuid.NewString()
}

// GenerateDeterministicID создает ID из сидированного генератора.
// Одинаковый сид дает одинаковые ID, что нужно для воспроизводимых карт.
func GenerateDeterministicID(rng *rand.Rand, prefix string) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return prefix + uuid.NewString()[:8]
	}
	return prefix + id.String()[:8]
}

// GenerateRoomCode - короткий код комнаты, который удобно продиктовать
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			code[i] = RoomCodeChars[rand.Intn(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// NormalizeRoomCode приводит ввод пользователя к каноническому виду.
// Пустая строка - код невалиден.
func NormalizeRoomCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != RoomCodeLength {
		return ""
	}
	for _, r := range s {
		if !strings.ContainsRune(RoomCodeChars, r) {
			return ""
		}
	}
	return s
}

// PeerID - идентификатор транспорта для кода комнаты
func PeerID(prefix, roomCode string) string {
	return prefix + roomCode
}

// StringToSeed превращает строку в зерно генератора.
// Одна и та же строка всегда дает одно и то же зерно.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
