package content

import (
	"context"
	"echoes-server/internal/domain"
	"echoes-server/pkg/dungeon"
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

var introTitles = []string{
	"The Hollow House on Carver Hill",
	"Whispers Beneath Blackwood Manor",
	"The Last Guest of Ravensmoor",
}

var introTexts = []string{
	"A letter arrived without a return address, begging for help. The handwriting belonged to a friend who died a year ago.",
	"The manor has stood empty since the family vanished. Tonight, every window is lit.",
	"Three guests went in for a dinner party last week. None came out, and the doors are still locked from the inside.",
}

var startingRooms = []string{
	"The front door slams behind you. Dust settles on a grand staircase that leads nowhere.",
	"Rain drips through the ceiling of the foyer. A trail of muddy footprints leads deeper into the house.",
}

var successOutcomes = []string{
	"Your careful search pays off.",
	"Hidden beneath the clutter, something waits for you.",
	"Patience rewards you; the room gives up one of its secrets.",
}

var failureOutcomes = []string{
	"You find nothing but dust and a growing sense of being watched.",
	"Your hands come away empty and strangely cold.",
	"Something skitters away just as you reach for it.",
}

var flavorEvents = []string{
	"The house groans as if something vast shifts beneath it.",
	"Every clock in the house strikes thirteen.",
	"A cold wind carries whispers in a language older than words.",
	"Blood seeps from the wallpaper and spells out a name none of you know.",
}

var testEvents = []string{
	"A wave of dread washes over the investigators.",
	"Visions of drowned cities flood your minds.",
}

var spawnEvents = []string{
	"Something crawls out of the shadows.",
	"The floor splits open and a shape rises from below.",
}

var insanityObjectives = []string{
	"You must be the last one to leave the house alive.",
	"Collect every book you can find; the words must not be lost.",
	"Keep the others from opening the final door at any cost.",
	"Whisper the name you heard to every investigator before dawn.",
	"Never let the lights go out. Never.",
}

// Fallback - детерминированный запасной генератор.
// Безопасен для вызова из нескольких горутин.
type Fallback struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewFallback(seed int64) *Fallback {
	return &Fallback{rng: rand.New(rand.NewSource(seed))}
}

func (f *Fallback) pick(pool []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pool[f.rng.Intn(len(pool))]
}

func (f *Fallback) intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(n)
}

func (f *Fallback) GenerateIntro(_ context.Context, difficulty domain.Difficulty, players []domain.PlayerSummary) (domain.Intro, error) {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	text := f.pick(introTexts)
	if len(names) > 0 {
		text = fmt.Sprintf("%s %s answer the call.", text, strings.Join(names, ", "))
	}
	if difficulty == domain.DifficultyHard {
		text += " Few who enter ever return."
	}
	return domain.Intro{
		Title:                   f.pick(introTitles),
		IntroText:               text,
		StartingRoomDescription: f.pick(startingRooms),
	}, nil
}

func (f *Fallback) GenerateRoomDiscovery(_ context.Context, req domain.RoomRequest) (domain.RoomDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dungeon.FallbackRoom(f.rng, req), nil
}

func (f *Fallback) GenerateInvestigationOutcome(_ context.Context, description string, success bool, _ string, foundObject string) (string, error) {
	var text string
	if success {
		text = f.pick(successOutcomes)
		if foundObject != "" {
			text = fmt.Sprintf("%s You find %s.", text, foundObject)
		}
	} else {
		text = f.pick(failureOutcomes)
	}
	if description != "" {
		text = fmt.Sprintf("%s: %s", description, text)
	}
	return text, nil
}

// GenerateMythosEvent - чем выше угроза, тем чаще появляются монстры
func (f *Fallback) GenerateMythosEvent(_ context.Context, _ string, threat int) (domain.MythosEvent, error) {
	roll := f.intn(domain.MaxThreat * 2)
	switch {
	case roll < threat:
		return domain.MythosEvent{Kind: domain.MythosSpawn, Narrative: f.pick(spawnEvents)}, nil
	case roll < threat+domain.MaxThreat/2:
		ev := domain.MythosEvent{Kind: domain.MythosTest, Narrative: f.pick(testEvents)}
		if f.intn(2) == 0 {
			ev.Param = string(domain.AttrWill)
		}
		return ev, nil
	default:
		return domain.MythosEvent{Kind: domain.MythosFlavor, Narrative: f.pick(flavorEvents)}, nil
	}
}

func (f *Fallback) GenerateInsanityCondition(_ context.Context, _ string) (string, error) {
	return f.pick(insanityObjectives), nil
}
