package dungeon

import (
	"echoes-server/internal/domain"
	"fmt"
	"math/rand"
)

// Стартовая комната: фойе 2x2 в начале координат
var foyerCells = []domain.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}

const (
	foyerExits        = 2
	foyerSearchPoints = 1
)

// Generator - генератор карты одной сессии.
// Не потокобезопасен: вызывается только из цикла комнаты.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Rand отдает генератор случайных чисел сессии
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// InitialMap строит фойе. startingDescription приходит из вступления партии.
func (g *Generator) InitialMap(startingDescription string) (*Room, error) {
	tmpl := TemplateFor(domain.RoomFoyer)
	desc := domain.RoomDescriptor{
		Name:           tmpl.Names[g.rng.Intn(len(tmpl.Names))],
		Description:    startingDescription,
		VisualCategory: domain.RoomFoyer,
		SearchPoints:   pickSearchPoints(g.rng, tmpl, foyerSearchPoints),
	}
	if desc.Description == "" {
		desc.Description = tmpl.Descriptions[g.rng.Intn(len(tmpl.Descriptions))]
	}

	return NewRoom(desc, g.rng).
		WithCells(foyerCells...).
		WithExits(foyerExits).
		WithSearchPoints(foyerSearchPoints).
		Build()
}

// Expand строит комнату за неоткрытой дверью.
// Описание проходит те же правила, что и запасной генератор.
func (g *Generator) Expand(s *domain.Session, door *domain.Token, desc domain.RoomDescriptor) (*Room, error) {
	if door.Type != domain.TokenExplore || !door.Direction.Valid() {
		return nil, fmt.Errorf("token %s is not a door", door.ID)
	}
	origin := s.TileAt(door.Pos)
	if origin == nil {
		return nil, fmt.Errorf("door %s: %w", door.ID, domain.ErrNotFound)
	}

	req := domain.RoomRequest{
		Direction:          door.Direction,
		FromCategory:       origin.Category,
		ExistingCategories: s.UsedCategories(),
	}
	desc = Sanitize(g.rng, req, desc)

	return NewRoom(desc, g.rng).
		WithBoard(s.Board()).
		Through(door).
		Build()
}

// Fallback - офлайн-описание комнаты
func (g *Generator) Fallback(req domain.RoomRequest) domain.RoomDescriptor {
	return FallbackRoom(g.rng, req)
}

// Place добавляет комнату в сессию
func Place(s *domain.Session, room *Room) {
	s.Tiles = append(s.Tiles, room.Tiles...)
	s.Tokens = append(s.Tokens, room.Tokens...)
}
