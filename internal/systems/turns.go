package systems

import "echoes-server/internal/domain"

// AdvanceTurn передает ход следующему сыщику.
// Возвращает true, если ход закончил последний игрок и пора в фазу мифа.
func AdvanceTurn(s *domain.Session) bool {
	if len(s.Players) == 0 {
		return false
	}
	if s.CurrentPlayerIndex >= len(s.Players)-1 {
		return true
	}
	s.CurrentPlayerIndex++
	return false
}

// StartRound - новый раунд: счетчик +1, ресурсы восстановлены, ход у первого игрока
func StartRound(s *domain.Session) {
	s.Round++
	s.CurrentPlayerIndex = 0
	for _, p := range s.Players {
		p.ResetRound()
	}
}
