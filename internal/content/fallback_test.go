package content

import (
	"context"
	"echoes-server/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback_Deterministic(t *testing.T) {
	a, b := NewFallback(42), NewFallback(42)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ea, _ := a.GenerateMythosEvent(ctx, "", i)
		eb, _ := b.GenerateMythosEvent(ctx, "", i)
		assert.Equal(t, ea, eb)
	}
}

func TestFallback_MythosKinds(t *testing.T) {
	f := NewFallback(7)
	seen := map[domain.MythosKind]int{}
	for i := 0; i < 500; i++ {
		ev, err := f.GenerateMythosEvent(context.Background(), "", domain.MaxThreat)
		assert.NoError(t, err)
		assert.NotEmpty(t, ev.Narrative)
		seen[ev.Kind]++
	}
	assert.Len(t, seen, 3)

	// При нулевой угрозе монстры не появляются
	for i := 0; i < 200; i++ {
		ev, _ := f.GenerateMythosEvent(context.Background(), "", 0)
		assert.NotEqual(t, domain.MythosSpawn, ev.Kind)
	}
}

func TestFallback_InvestigationMentionsFind(t *testing.T) {
	f := NewFallback(1)
	text, _ := f.GenerateInvestigationOutcome(context.Background(), "The desk", true, "", "a Revolver")
	assert.Contains(t, text, "a Revolver")
	assert.Contains(t, text, "The desk")
}

func TestFallback_RoomRules(t *testing.T) {
	f := NewFallback(1)
	desc, _ := f.GenerateRoomDiscovery(context.Background(), domain.RoomRequest{
		FromCategory:       domain.RoomHallway,
		ExistingCategories: []string{"foyer", "hallway"},
	})
	assert.Equal(t, domain.RoomKitchen, desc.VisualCategory)
	assert.GreaterOrEqual(t, len(desc.SearchPoints), 2)
}
