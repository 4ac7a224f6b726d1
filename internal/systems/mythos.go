package systems

import (
	"echoes-server/internal/domain"
	"math/rand"
)

// ThreatLevel = раунд + бонус за размер карты (тайлы/4), не больше 10.
// Когда выход открыт, угроза всегда максимальная.
func ThreatLevel(round, tiles int, escapeOpen bool) int {
	if escapeOpen {
		return domain.MaxThreat
	}
	return min(domain.MaxThreat, max(0, round+tiles/4))
}

// MaxTierForThreat - самый сильный уровень монстра при данной угрозе
func MaxTierForThreat(threat int) int {
	switch {
	case threat < 4:
		return 1
	case threat < 8:
		return 2
	default:
		return 3
	}
}

// PickSpawn выбирает шаблон для спавна мифа.
// preferred - параметр события (id шаблона или пусто). Уровень ограничен угрозой,
// число слабых монстров - сложностью, общее число - MaxMonsters. Босса миф не призывает.
func PickSpawn(rng *rand.Rand, s *domain.Session, threat int, preferred string) (domain.MonsterTemplate, bool) {
	if len(s.Monsters) >= domain.MaxMonsters {
		return domain.MonsterTemplate{}, false
	}
	maxTier := MaxTierForThreat(threat)

	allowed := func(t domain.MonsterTemplate) bool {
		if t.IsBoss() || t.Tier > maxTier {
			return false
		}
		if t.Tier == 1 && s.CountMonstersOfTier(1) >= s.Difficulty.LesserMonsterCap() {
			return false
		}
		return true
	}

	if t, ok := domain.FindMonsterTemplate(preferred); ok && allowed(t) {
		return t, true
	}

	var pool []domain.MonsterTemplate
	for _, t := range domain.MonsterTemplates {
		if allowed(t) {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		return domain.MonsterTemplate{}, false
	}
	return pool[rng.Intn(len(pool))], true
}

// RandomTile - случайный тайл поля (nil на пустом поле)
func RandomTile(rng *rand.Rand, s *domain.Session) *domain.Tile {
	if len(s.Tiles) == 0 {
		return nil
	}
	return s.Tiles[rng.Intn(len(s.Tiles))]
}

// EvidenceThresholdReached - собрано достаточно доказательств, чтобы открыть выход
func EvidenceThresholdReached(s *domain.Session) bool {
	return s.EvidenceRequired > 0 && s.EvidenceCollected >= s.EvidenceRequired
}
