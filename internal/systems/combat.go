package systems

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// WeaponBonus - бонус к попаданиям от оружия.
// Дробовик дает +2, любое другое оружие +1. Несколько стволов не складываются.
func WeaponBonus(items []string) int {
	bonus := 0
	for _, name := range items {
		def, ok := domain.FindItem(name)
		if !ok || !def.IsWeapon {
			continue
		}
		if def.Name == domain.ItemShotgun {
			return 2
		}
		bonus = 1
	}
	return bonus
}

// CombatResult - итог атаки сыщика
type CombatResult struct {
	Hits    int
	Instant bool
	Killed  bool
	Log     string
}

// ResolveAttack применяет атаку к монстру.
// successes - число успехов после конверсий (для головоломки: 1 при успехе, 0 при провале).
// Без единого успеха атака промахивается. Святая вода убивает призраков сразу.
func ResolveAttack(p *domain.Player, m *domain.Monster, successes int) CombatResult {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "combat_system",
		"player_id":    p.ID,
		"player_name":  p.Name,
		"monster_id":   m.ID,
		"monster_name": m.Name,
	})

	if successes <= 0 {
		combatLogger.Info("Attack missed.")
		return CombatResult{Log: fmt.Sprintf("%s misses the %s.", p.Name, m.Name)}
	}

	res := CombatResult{Hits: successes + WeaponBonus(p.Items)}
	if p.HasItem(domain.ItemHolyWater) && m.IsSpectral() {
		res.Instant = true
		res.Hits = m.Health
	}

	hpBefore := m.Health
	m.Health -= res.Hits
	res.Killed = m.Health <= 0

	combatLogger.WithFields(logrus.Fields{
		"successes":   successes,
		"hits":        res.Hits,
		"instant":     res.Instant,
		"hp_before":   hpBefore,
		"hp_after":    m.Health,
		"target_died": res.Killed,
	}).Info("Attack resolved.")

	switch {
	case res.Instant:
		res.Log = fmt.Sprintf("%s banishes the %s with holy water!", p.Name, m.Name)
	case res.Killed:
		res.Log = fmt.Sprintf("%s deals %d damage. The %s is destroyed.", p.Name, res.Hits, m.Name)
	default:
		res.Log = fmt.Sprintf("%s deals %d damage to the %s (%d/%d).", p.Name, res.Hits, m.Name, m.Health, m.MaxHealth)
	}
	return res
}
