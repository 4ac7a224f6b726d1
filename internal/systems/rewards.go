package systems

import (
	"echoes-server/internal/domain"
	"math/rand"
)

// RewardKind - награда за успешный обыск
type RewardKind string

const (
	RewardEvidence RewardKind = "EVIDENCE"
	RewardItem     RewardKind = "ITEM"
	RewardClue     RewardKind = "CLUE"
)

// DrawReward - взвешенный выбор: улика-доказательство 20% (пока выход закрыт),
// предмет 45%, иначе подсказка. Пустая колода проверяется при применении, а не здесь.
func DrawReward(rng *rand.Rand, escapeOpen bool) RewardKind {
	n := rng.Intn(100)
	switch {
	case n < domain.RewardEvidenceChance:
		if escapeOpen {
			return RewardClue
		}
		return RewardEvidence
	case n < domain.RewardEvidenceChance+domain.RewardItemChance:
		return RewardItem
	default:
		return RewardClue
	}
}

// DrawItem снимает предмет с конца колоды. Пустая колода - ok=false.
func DrawItem(s *domain.Session) (string, bool) {
	n := len(s.ItemDeck)
	if n == 0 {
		return "", false
	}
	item := s.ItemDeck[n-1]
	s.ItemDeck = s.ItemDeck[:n-1]
	return item, true
}

// ShuffleDeck собирает колоду: нераспределенные стартовые предметы
// плюс каталог без уже розданных, затем перемешивает.
func ShuffleDeck(rng *rand.Rand, unassigned []string, distributed []string) []string {
	taken := make(map[string]int)
	for _, it := range distributed {
		taken[it]++
	}

	deck := append([]string{}, unassigned...)
	for _, name := range domain.CatalogNames() {
		if taken[name] > 0 {
			taken[name]--
			continue
		}
		deck = append(deck, name)
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
