package config

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config - параметры процесса из окружения. Флаги командной строки в cmd/server
// перекрывают Port и Seed.
type Config struct {
	Port string `env:"ECHOES_PORT" envDefault:"8080"`

	// Seed = 0 - случайное мастер-зерно
	Seed int64 `env:"ECHOES_SEED" envDefault:"0"`

	// DBPath - файл SQLite для журнала и снимков. Пусто - без хранилища.
	DBPath string `env:"ECHOES_DB_PATH" envDefault:"echoes.db"`

	LLMAPIKey  string        `env:"ECHOES_LLM_API_KEY"`
	LLMBaseURL string        `env:"ECHOES_LLM_BASE_URL"`
	LLMModel   string        `env:"ECHOES_LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMRetries uint          `env:"ECHOES_LLM_RETRIES" envDefault:"1"`
	LLMBackoff time.Duration `env:"ECHOES_LLM_BACKOFF" envDefault:"500ms"`

	PeerPrefix        string `env:"ECHOES_PEER_PREFIX" envDefault:"echoes-"`
	DefaultDifficulty string `env:"ECHOES_DEFAULT_DIFFICULTY" envDefault:"normal"`

	// Cheats разрешает отладочные команды хоста
	Cheats bool `env:"ECHOES_CHEATS" envDefault:"false"`
}

// Load читает конфиг из окружения
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Engine - параметры движка. Нулевое зерно заменяется случайным.
func (c Config) Engine() engine.Config {
	ec := engine.NewConfig()
	if c.Seed != 0 {
		ec.Seed = c.Seed
	}
	if c.PeerPrefix != "" {
		ec.PeerPrefix = c.PeerPrefix
	}
	ec.Difficulty = domain.ParseDifficulty(c.DefaultDifficulty)
	ec.Cheats = c.Cheats
	return ec
}

// LiveContent - настроен ли живой генератор
func (c Config) LiveContent() bool {
	return c.LLMAPIKey != ""
}
