package systems

import (
	"echoes-server/internal/domain"
	"fmt"
	"math/rand"
)

// RollFace бросает одну кость: 3 успеха, 2 улики, 3 пустых из 8 граней
func RollFace(rng *rand.Rand) domain.DieFace {
	n := rng.Intn(domain.DieSides)
	switch {
	case n < domain.DieSuccessFaces:
		return domain.FaceSuccess
	case n < domain.DieSuccessFaces+domain.DieClueFaces:
		return domain.FaceClue
	default:
		return domain.FaceBlank
	}
}

// RollDice бросает пул из n костей (не меньше одной)
func RollDice(rng *rand.Rand, n int) []domain.DieFace {
	if n < 1 {
		n = 1
	}
	faces := make([]domain.DieFace, n)
	for i := range faces {
		faces[i] = RollFace(rng)
	}
	return faces
}

// CountSuccesses считает только грани Success. Clue и Blank не влияют.
func CountSuccesses(faces []domain.DieFace) int {
	n := 0
	for _, f := range faces {
		if f == domain.FaceSuccess {
			n++
		}
	}
	return n
}

func countFace(faces []domain.DieFace, face domain.DieFace) int {
	n := 0
	for _, f := range faces {
		if f == face {
			n++
		}
	}
	return n
}

// Passes - проверка пройдена, если успехов не меньше цели
func Passes(faces []domain.DieFace, target int) bool {
	return CountSuccesses(faces) >= target
}

// ApplyClueConversions превращает до want граней Clue в Success.
// Каждая конверсия стоит игроку ровно одну улику, улики не уходят в минус.
// Возвращает новые грани и число фактически потраченных улик.
func ApplyClueConversions(p *domain.Player, faces []domain.DieFace, want int) ([]domain.DieFace, int) {
	out := make([]domain.DieFace, len(faces))
	copy(out, faces)

	if want <= 0 || p.Clues <= 0 {
		return out, 0
	}

	spent := 0
	for i, f := range out {
		if spent >= want || p.Clues == 0 {
			break
		}
		if f == domain.FaceClue {
			out[i] = domain.FaceSuccess
			p.Clues--
			spent++
		}
	}
	return out, spent
}

// ValidateRoll проверяет бросок, присланный клиентом.
// Хост не доверяет клиенту: размер пула, алфавит граней и число конверсий должны сходиться.
func ValidateRoll(p *domain.Player, req *domain.DiceRequest, faces []domain.DieFace, conversions int) error {
	if len(faces) != req.PoolSize {
		return fmt.Errorf("%w: expected %d dice, got %d", domain.ErrInvalidOutcome, req.PoolSize, len(faces))
	}
	for _, f := range faces {
		if !f.Valid() {
			return fmt.Errorf("%w: unknown face %q", domain.ErrInvalidOutcome, f)
		}
	}
	if conversions < 0 {
		return fmt.Errorf("%w: negative clue conversions", domain.ErrInvalidOutcome)
	}
	if conversions > countFace(faces, domain.FaceClue) {
		return fmt.Errorf("%w: %d conversions for %d clue faces", domain.ErrInvalidOutcome, conversions, countFace(faces, domain.FaceClue))
	}
	if conversions > p.Clues {
		return fmt.Errorf("%w: %d conversions with %d clues", domain.ErrInvalidOutcome, conversions, p.Clues)
	}
	return nil
}

// PoolSize - размер пула = характеристика + пассивные бонусы предметов.
// Одинаковые предметы не складываются.
func PoolSize(p *domain.Player, attr domain.Attribute) int {
	size := p.Attributes.Get(attr)
	seen := make(map[string]bool)
	for _, name := range p.Items {
		def, ok := domain.FindItem(name)
		if !ok || seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		if def.PassiveAttr == attr {
			size += def.PassiveBonus
		}
	}
	if size < 1 {
		size = 1
	}
	return size
}
