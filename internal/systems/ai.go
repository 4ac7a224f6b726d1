package systems

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MoveMonsters - первый шаг фазы мифа.
// Каждый монстр идет по кратчайшему пути к ближайшему сыщику, не дальше своей скорости.
// Если монстр закончил ход на клетке сыщика - возвращается атака на него.
// Порядок атак совпадает с порядком монстров.
func MoveMonsters(s *domain.Session) []domain.ActionContext {
	board := s.Board()
	occupied := func(p domain.Position) bool { return len(s.PlayersAt(p)) > 0 }

	var attacks []domain.ActionContext
	for _, m := range s.Monsters {
		path, ok := FindPath(board, m.Pos, occupied)
		if !ok {
			logger.Log.WithFields(logrus.Fields{
				"component":  "monster_ai",
				"monster_id": m.ID,
				"pos":        m.Pos,
			}).Debug("No reachable investigator, monster stays.")
			continue
		}

		steps := m.Speed()
		if steps > len(path) {
			steps = len(path)
		}
		from := m.Pos
		if steps > 0 {
			m.Pos = path[steps-1]
		}

		victims := s.PlayersAt(m.Pos)
		logger.Log.WithFields(logrus.Fields{
			"component":  "monster_ai",
			"monster_id": m.ID,
			"from":       from,
			"to":         m.Pos,
			"path_len":   len(path),
			"attacks":    len(victims) > 0,
		}).Debug("Monster moved.")

		if len(victims) > 0 {
			attacks = append(attacks, domain.ActionContext{
				Kind:      domain.ContextMonsterAttack,
				PlayerID:  victims[0].ID,
				MonsterID: m.ID,
				Attribute: domain.AttrAgility,
			})
		}
	}
	return attacks
}
