package systems

import (
	"echoes-server/internal/domain"
	"fmt"
)

// CheckStep проверяет ход игрока на соседний тайл.
// Для игроков смежность чисто геометрическая, двери не проверяются.
func CheckStep(s *domain.Session, p *domain.Player, tileID string) (*domain.Tile, error) {
	tile := s.Tile(tileID)
	if tile == nil {
		return nil, fmt.Errorf("tile %s: %w", tileID, domain.ErrNotFound)
	}
	if !p.Pos.IsNeighbour(tile.Pos) {
		return nil, fmt.Errorf("tile %s: %w", tileID, domain.ErrOutOfReach)
	}
	if p.MovesRemaining <= 0 {
		return nil, domain.ErrNoMovesLeft
	}
	return tile, nil
}

// FindPath - поиск в ширину от start по клеткам, связанным дверями или общей комнатой.
// Останавливается на первой клетке, для которой isGoal == true.
// Возвращает путь без стартовой клетки (последний элемент - цель) или nil, если цели не достичь.
// Если старт уже цель - возвращает пустой путь, ok=true.
func FindPath(b *domain.Board, start domain.Position, isGoal func(domain.Position) bool) (path []domain.Position, ok bool) {
	if isGoal(start) {
		return []domain.Position{}, true
	}
	if b.TileAt(start) == nil {
		return nil, false
	}

	prev := map[domain.Position]domain.Position{start: start}
	queue := []domain.Position{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		// Порядок соседей фиксирован (N, E, S, W), поэтому путь детерминирован
		for _, next := range cur.Neighbours() {
			if _, seen := prev[next]; seen {
				continue
			}
			if !b.Connected(cur, next) {
				continue
			}
			prev[next] = cur
			if isGoal(next) {
				return rebuildPath(prev, start, next), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func rebuildPath(prev map[domain.Position]domain.Position, start, end domain.Position) []domain.Position {
	var rev []domain.Position
	for at := end; at != start; at = prev[at] {
		rev = append(rev, at)
	}
	path := make([]domain.Position, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}
