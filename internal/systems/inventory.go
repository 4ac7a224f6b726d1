package systems

import (
	"echoes-server/internal/domain"
	"fmt"
)

// UseItem применяет активный эффект предмета.
// Расходники исчезают, Знак Древних работает раз в раунд.
func UseItem(p *domain.Player, name string, round int) (string, error) {
	if !p.HasItem(name) {
		return "", fmt.Errorf("%s: %w", name, domain.ErrItemUnavailable)
	}
	def, ok := domain.FindItem(name)
	if !ok || def.Effect == domain.EffectNone {
		return "", fmt.Errorf("%s has no active effect: %w", name, domain.ErrItemUnavailable)
	}
	if !def.IsConsumable && p.UsedItemAbilityRound == round {
		return "", fmt.Errorf("%s already used this round: %w", def.Name, domain.ErrItemUnavailable)
	}

	var msg string
	switch def.Effect {
	case domain.EffectHeal:
		before := p.Health
		p.Health = min(p.MaxHealth, p.Health+def.EffectValue)
		msg = fmt.Sprintf("%s uses %s and recovers %d health.", p.Name, def.Name, p.Health-before)
	case domain.EffectCalm:
		before := p.Sanity
		p.Sanity = min(p.MaxSanity, p.Sanity+def.EffectValue)
		msg = fmt.Sprintf("%s uses %s and recovers %d sanity.", p.Name, def.Name, p.Sanity-before)
	case domain.EffectExtraAction:
		p.ActionsRemaining += def.EffectValue
		msg = fmt.Sprintf("%s invokes the %s and gains an action.", p.Name, def.Name)
	}

	if def.IsConsumable {
		p.RemoveItem(def.Name)
	} else {
		p.UsedItemAbilityRound = round
	}
	return msg, nil
}
