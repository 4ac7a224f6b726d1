// Package content - мост к внешнему генератору повествования.
// Живой генератор может быть недоступен; Service всегда возвращает результат,
// при необходимости подставляя детерминированный запасной контент.
package content

import (
	"context"
	"echoes-server/internal/domain"
	"errors"
)

var (
	// ErrQuota - исчерпана квота или превышен лимит запросов. Выключает живой генератор навсегда.
	ErrQuota = errors.New("content quota exhausted")
	// ErrOffline - живой генератор выключен или не настроен
	ErrOffline = errors.New("content service offline")
	// ErrMalformed - ответ не удалось разобрать
	ErrMalformed = errors.New("malformed content response")
)

// Generator - живой источник контента (LLM). Методы могут вернуть ошибку.
type Generator interface {
	GenerateIntro(ctx context.Context, difficulty domain.Difficulty, players []domain.PlayerSummary) (domain.Intro, error)
	GenerateRoomDiscovery(ctx context.Context, req domain.RoomRequest) (domain.RoomDescriptor, error)
	GenerateInvestigationOutcome(ctx context.Context, description string, success bool, storyContext, foundObject string) (string, error)
	GenerateMythosEvent(ctx context.Context, storyContext string, threat int) (domain.MythosEvent, error)
	GenerateInsanityCondition(ctx context.Context, storyContext string) (string, error)
}
