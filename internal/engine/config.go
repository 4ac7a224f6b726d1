package engine

import (
	"echoes-server/internal/domain"
	"time"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. Зерно комнаты = Seed ^ hash(код комнаты).
	Seed int64

	// PeerPrefix - префикс идентификатора транспорта для кода комнаты
	PeerPrefix string

	// Difficulty - сложность новых комнат, если клиент не указал свою
	Difficulty domain.Difficulty

	// Cheats разрешает ACTION_DEBUG_* от хоста
	Cheats bool
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:       time.Now().UnixNano(),
		PeerPrefix: "echoes-",
		Difficulty: domain.DifficultyNormal,
	}
}
