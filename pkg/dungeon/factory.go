package dungeon

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/utils"
	"math/rand"
)

// CreatePlayer создает сыщика по шаблону. Без шаблона берется первый свободный.
func CreatePlayer(id, name, investigatorID string, taken []string) *domain.Player {
	tmpl, ok := domain.FindInvestigator(investigatorID)
	if !ok {
		tmpl = freeInvestigator(taken)
	}
	if name == "" {
		name = tmpl.Name
	}
	return domain.NewPlayer(id, name, tmpl)
}

func freeInvestigator(taken []string) domain.InvestigatorTemplate {
	for _, t := range domain.Investigators {
		free := true
		for _, id := range taken {
			if id == t.ID {
				free = false
				break
			}
		}
		if free {
			return t
		}
	}
	return domain.Investigators[0]
}

// SpawnMonster создает монстра из шаблона со сгенерированным ID
func SpawnMonster(tmpl domain.MonsterTemplate, pos domain.Position, rng *rand.Rand) *domain.Monster {
	return tmpl.Spawn(utils.GenerateDeterministicID(rng, "m_"), pos)
}

// NewToken создает маркер с ID
func NewToken(tt domain.TokenType, pos domain.Position, description string, rng *rand.Rand) *domain.Token {
	return &domain.Token{
		ID:          utils.GenerateDeterministicID(rng, "tok_"),
		Type:        tt,
		Pos:         pos,
		Description: description,
	}
}
