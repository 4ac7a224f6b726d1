package content

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/pkg/logger"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRetries        = 1
	DefaultInitialBackoff = 500 * time.Millisecond
)

// Service - фасад для движка: повтор с экспоненциальной задержкой,
// предохранитель и запасной контент. Методы никогда не возвращают ошибку.
type Service struct {
	live     Generator
	fallback *Fallback

	retries        uint
	initialBackoff time.Duration

	// offline взводится один раз и больше не сбрасывается
	offline atomic.Bool
}

type Option func(*Service)

// WithRetries - число повторов после первой попытки
func WithRetries(n uint) Option {
	return func(s *Service) { s.retries = n }
}

func WithInitialBackoff(d time.Duration) Option {
	return func(s *Service) { s.initialBackoff = d }
}

// NewService. live == nil - сразу офлайн.
func NewService(live Generator, fallback *Fallback, opts ...Option) *Service {
	s := &Service{
		live:           live,
		fallback:       fallback,
		retries:        DefaultRetries,
		initialBackoff: DefaultInitialBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	if live == nil {
		s.offline.Store(true)
	}
	return s
}

// Offline - живой генератор больше не вызывается
func (s *Service) Offline() bool {
	return s.offline.Load()
}

func (s *Service) trip(op string, err error) {
	if s.offline.CompareAndSwap(false, true) {
		logger.Log.WithFields(logrus.Fields{
			"component": "content_service",
			"op":        op,
			"error":     err,
		}).Warn("Content quota exhausted, switching to offline generation for good.")
	}
}

// call выполняет живой вызов с повтором. ok=false - нужно брать запасной вариант.
func call[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, bool) {
	var zero T
	if s.Offline() {
		return zero, false
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialBackoff

	res, err := backoff.Retry(ctx, func() (T, error) {
		if s.Offline() {
			return zero, backoff.Permanent(ErrOffline)
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if IsQuotaError(err) {
			s.trip(op, err)
			return zero, backoff.Permanent(err)
		}
		return zero, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.retries+1))

	if err != nil {
		if !errors.Is(err, ErrOffline) {
			logger.Log.WithFields(logrus.Fields{
				"component": "content_service",
				"op":        op,
				"error":     err,
			}).Warn("Live content failed, using fallback.")
		}
		return zero, false
	}
	return res, true
}

func (s *Service) Intro(ctx context.Context, difficulty domain.Difficulty, players []domain.PlayerSummary) domain.Intro {
	if v, ok := call(ctx, s, "intro", func(ctx context.Context) (domain.Intro, error) {
		return s.live.GenerateIntro(ctx, difficulty, players)
	}); ok {
		return v
	}
	v, _ := s.fallback.GenerateIntro(ctx, difficulty, players)
	return v
}

// RoomDiscovery. Ответ живого генератора не проверяется здесь: правила категорий
// применяет генератор карты при раскладке.
func (s *Service) RoomDiscovery(ctx context.Context, req domain.RoomRequest) domain.RoomDescriptor {
	if v, ok := call(ctx, s, "room", func(ctx context.Context) (domain.RoomDescriptor, error) {
		return s.live.GenerateRoomDiscovery(ctx, req)
	}); ok {
		return v
	}
	v, _ := s.fallback.GenerateRoomDiscovery(ctx, req)
	return v
}

func (s *Service) InvestigationOutcome(ctx context.Context, description string, success bool, storyContext, foundObject string) string {
	if v, ok := call(ctx, s, "investigation", func(ctx context.Context) (string, error) {
		return s.live.GenerateInvestigationOutcome(ctx, description, success, storyContext, foundObject)
	}); ok && v != "" {
		return v
	}
	v, _ := s.fallback.GenerateInvestigationOutcome(ctx, description, success, storyContext, foundObject)
	return v
}

func (s *Service) MythosEvent(ctx context.Context, storyContext string, threat int) domain.MythosEvent {
	if v, ok := call(ctx, s, "mythos", func(ctx context.Context) (domain.MythosEvent, error) {
		return s.live.GenerateMythosEvent(ctx, storyContext, threat)
	}); ok {
		return v
	}
	v, _ := s.fallback.GenerateMythosEvent(ctx, storyContext, threat)
	return v
}

func (s *Service) InsanityCondition(ctx context.Context, storyContext string) string {
	if v, ok := call(ctx, s, "insanity", func(ctx context.Context) (string, error) {
		return s.live.GenerateInsanityCondition(ctx, storyContext)
	}); ok && v != "" {
		return v
	}
	v, _ := s.fallback.GenerateInsanityCondition(ctx, storyContext)
	return v
}
