package content

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/pkg/logger"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// stubGenerator отдает заранее заданные ошибки по очереди, затем успех
type stubGenerator struct {
	calls atomic.Int32
	errs  []error
}

func (g *stubGenerator) next() error {
	n := int(g.calls.Add(1)) - 1
	if n < len(g.errs) {
		return g.errs[n]
	}
	return nil
}

func (g *stubGenerator) GenerateIntro(context.Context, domain.Difficulty, []domain.PlayerSummary) (domain.Intro, error) {
	if err := g.next(); err != nil {
		return domain.Intro{}, err
	}
	return domain.Intro{Title: "Live", IntroText: "live intro"}, nil
}

func (g *stubGenerator) GenerateRoomDiscovery(context.Context, domain.RoomRequest) (domain.RoomDescriptor, error) {
	if err := g.next(); err != nil {
		return domain.RoomDescriptor{}, err
	}
	return domain.RoomDescriptor{Name: "Live Room", VisualCategory: domain.RoomHallway}, nil
}

func (g *stubGenerator) GenerateInvestigationOutcome(context.Context, string, bool, string, string) (string, error) {
	if err := g.next(); err != nil {
		return "", err
	}
	return "live outcome", nil
}

func (g *stubGenerator) GenerateMythosEvent(context.Context, string, int) (domain.MythosEvent, error) {
	if err := g.next(); err != nil {
		return domain.MythosEvent{}, err
	}
	return domain.MythosEvent{Kind: domain.MythosFlavor, Narrative: "live omen"}, nil
}

func (g *stubGenerator) GenerateInsanityCondition(context.Context, string) (string, error) {
	if err := g.next(); err != nil {
		return "", err
	}
	return "live objective", nil
}

func newTestService(live Generator, retries uint) *Service {
	return NewService(live, NewFallback(1), WithRetries(retries), WithInitialBackoff(time.Millisecond))
}

func TestService_LiveSuccess(t *testing.T) {
	live := &stubGenerator{}
	svc := newTestService(live, 1)

	intro := svc.Intro(context.Background(), domain.DifficultyNormal, nil)
	assert.Equal(t, "Live", intro.Title)
	assert.EqualValues(t, 1, live.calls.Load())
	assert.False(t, svc.Offline())
}

func TestService_RetriesOnceThenSucceeds(t *testing.T) {
	live := &stubGenerator{errs: []error{errors.New("connection reset")}}
	svc := newTestService(live, 1)

	out := svc.InvestigationOutcome(context.Background(), "desk", true, "", "")
	assert.Equal(t, "live outcome", out)
	assert.EqualValues(t, 2, live.calls.Load())
}

func TestService_FallbackAfterRetries(t *testing.T) {
	boom := errors.New("server error")
	live := &stubGenerator{errs: []error{boom, boom, boom}}
	svc := newTestService(live, 1)

	desc := svc.RoomDiscovery(context.Background(), domain.RoomRequest{FromCategory: domain.RoomKitchen})
	assert.Equal(t, domain.RoomHallway, desc.VisualCategory, "fallback from a room is a hallway")
	assert.NotEqual(t, "Live Room", desc.Name)
	assert.EqualValues(t, 2, live.calls.Load(), "one attempt plus one retry")
	assert.False(t, svc.Offline(), "ordinary errors do not trip the breaker")
}

func TestService_QuotaTripsBreakerForGood(t *testing.T) {
	live := &stubGenerator{errs: []error{ErrQuota}}
	svc := newTestService(live, 3)

	objective := svc.InsanityCondition(context.Background(), "")
	require.NotEmpty(t, objective)
	assert.NotEqual(t, "live objective", objective)
	assert.True(t, svc.Offline())
	assert.EqualValues(t, 1, live.calls.Load(), "quota errors are not retried")

	// Следующие вызовы не доходят до живого генератора, хотя он уже исправен
	ev := svc.MythosEvent(context.Background(), "", 5)
	assert.NotEmpty(t, ev.Narrative)
	assert.EqualValues(t, 1, live.calls.Load())
}

func TestService_NilLiveIsOffline(t *testing.T) {
	svc := newTestService(nil, 1)
	assert.True(t, svc.Offline())
	intro := svc.Intro(context.Background(), domain.DifficultyEasy, []domain.PlayerSummary{{Name: "Joe"}})
	assert.NotEmpty(t, intro.Title)
	assert.Contains(t, intro.IntroText, "Joe")
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, IsQuotaError(ErrQuota))
	assert.True(t, IsQuotaError(errors.New("You exceeded your current quota")))
	assert.True(t, IsQuotaError(errors.New("Rate limit reached")))
	assert.False(t, IsQuotaError(errors.New("timeout")))
	assert.False(t, IsQuotaError(nil))
}
