package systems

import (
	"echoes-server/internal/domain"
	"errors"
	"testing"
)

func TestUseItem(t *testing.T) {
	p := newPlayer("p1", 0, 0)
	p.Health = 1
	p.Items = []string{domain.ItemBandages, domain.ItemElderSign, domain.ItemKnife}

	if _, err := UseItem(p, domain.ItemBandages, 1); err != nil {
		t.Fatalf("UseItem bandages: %v", err)
	}
	if p.Health != 3 || p.HasItem(domain.ItemBandages) {
		t.Errorf("Bandages must heal 2 and be consumed, health=%d items=%v", p.Health, p.Items)
	}

	actions := p.ActionsRemaining
	if _, err := UseItem(p, domain.ItemElderSign, 1); err != nil {
		t.Fatalf("UseItem elder sign: %v", err)
	}
	if p.ActionsRemaining != actions+1 {
		t.Errorf("Elder sign must grant an action")
	}
	if _, err := UseItem(p, domain.ItemElderSign, 1); !errors.Is(err, domain.ErrItemUnavailable) {
		t.Errorf("Elder sign twice per round must fail, got %v", err)
	}
	if _, err := UseItem(p, domain.ItemElderSign, 2); err != nil {
		t.Errorf("Elder sign next round: %v", err)
	}

	if _, err := UseItem(p, domain.ItemKnife, 2); !errors.Is(err, domain.ErrItemUnavailable) {
		t.Errorf("Weapons have no active effect, got %v", err)
	}
	if _, err := UseItem(p, domain.ItemWhiskey, 2); !errors.Is(err, domain.ErrItemUnavailable) {
		t.Errorf("Item not held must fail, got %v", err)
	}
}
