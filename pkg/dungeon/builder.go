package dungeon

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/utils"
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// ErrCollision - клетка входа или футпринт занят
var ErrCollision = errors.New("room footprint collides with existing tiles")

// Шансы раскладки (в процентах)
const (
	chanceSquare  = 50
	chanceForward = 80
	chanceSide    = 80
)

// Rect - прямоугольник комнаты в координатах поля
type Rect struct {
	X, Y, W, H int
}

// BoundsOf - охватывающий прямоугольник набора клеток
func BoundsOf(cells []domain.Position) Rect {
	if len(cells) == 0 {
		return Rect{}
	}
	minX, minY, maxX, maxY := cells[0].X, cells[0].Y, cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

// Room - результат генерации: новые тайлы и маркеры
type Room struct {
	ID     string
	Tiles  []*domain.Tile
	Tokens []*domain.Token
}

// RoomBuilder предоставляет fluent API для сборки комнаты
type RoomBuilder struct {
	desc     domain.RoomDescriptor
	occupied func(domain.Position) bool
	rng      *rand.Rand

	entry    domain.Position
	forward  domain.Direction
	cells    []domain.Position
	exits    int
	maxPoint int
}

// NewRoom создает builder для комнаты по описанию
func NewRoom(desc domain.RoomDescriptor, rng *rand.Rand) *RoomBuilder {
	return &RoomBuilder{
		desc:     desc,
		rng:      rng,
		occupied: func(domain.Position) bool { return false },
		maxPoint: -1,
	}
}

// WithBoard задает занятые клетки
func (b *RoomBuilder) WithBoard(board *domain.Board) *RoomBuilder {
	b.occupied = board.Occupied
	return b
}

// Through - вход через дверь: первая клетка комнаты - за дверью, комната растет вперед
func (b *RoomBuilder) Through(door *domain.Token) *RoomBuilder {
	b.entry = door.DoorTarget()
	b.forward = door.Direction
	return b
}

// WithCells задает футпринт явно (стартовая комната)
func (b *RoomBuilder) WithCells(cells ...domain.Position) *RoomBuilder {
	b.cells = cells
	return b
}

// WithExits задает число выходов (иначе по категории)
func (b *RoomBuilder) WithExits(n int) *RoomBuilder {
	b.exits = n
	return b
}

// WithSearchPoints ограничивает число точек обыска
func (b *RoomBuilder) WithSearchPoints(n int) *RoomBuilder {
	b.maxPoint = n
	return b
}

// Build раскладывает комнату, проверяя коллизии
func (b *RoomBuilder) Build() (*Room, error) {
	if len(b.cells) == 0 {
		if b.occupied(b.entry) {
			return nil, fmt.Errorf("entry %v: %w", b.entry, ErrCollision)
		}
		b.cells = b.layout()
	}
	for _, c := range b.cells {
		if b.occupied(c) {
			return nil, fmt.Errorf("cell %v: %w", c, ErrCollision)
		}
	}

	room := &Room{ID: utils.GenerateDeterministicID(b.rng, "room_")}
	bounds := BoundsOf(b.cells)

	for _, c := range b.cells {
		room.Tiles = append(room.Tiles, &domain.Tile{
			ID:          utils.GenerateDeterministicID(b.rng, "tile_"),
			RoomID:      room.ID,
			Name:        b.desc.Name,
			Description: b.desc.Description,
			Pos:         c,
			Category:    b.desc.VisualCategory,
			Room: domain.RoomBounds{
				Origin: domain.Position{X: bounds.X, Y: bounds.Y},
				Width:  bounds.W,
				Height: bounds.H,
			},
		})
	}

	room.Tokens = append(room.Tokens, b.placeExits()...)
	room.Tokens = append(room.Tokens, b.placeSearchPoints(room.Tiles)...)
	return room, nil
}

// layout выбирает футпринт: коридор и чулан - одна клетка,
// остальные 2x2 (50%), иначе 1x2 вперед (80%), иначе 1x2 вбок (80%), иначе одна клетка.
func (b *RoomBuilder) layout() []domain.Position {
	single := []domain.Position{b.entry}
	cat := b.desc.VisualCategory
	if cat == domain.RoomHallway || cat == domain.RoomCloset || !b.forward.Valid() {
		return single
	}

	fwd := b.entry.Step(b.forward)
	side := b.forward.Right()
	if b.rng.Intn(2) == 0 {
		side = b.forward.Left()
	}
	beside := b.entry.Step(side)
	corner := fwd.Step(side)

	free := func(cells ...domain.Position) bool {
		for _, c := range cells {
			if b.occupied(c) {
				return false
			}
		}
		return true
	}

	if b.rng.Intn(100) < chanceSquare && free(fwd, beside, corner) {
		return []domain.Position{b.entry, fwd, beside, corner}
	}
	if b.rng.Intn(100) < chanceForward && free(fwd) {
		return []domain.Position{b.entry, fwd}
	}
	if b.rng.Intn(100) < chanceSide && free(beside) {
		return []domain.Position{b.entry, beside}
	}
	return single
}

type exitSlot struct {
	pos domain.Position
	dir domain.Direction
}

// placeExits ставит двери на внешних стенах, кроме стены входа.
// Сначала стены, за которыми пусто, затем стены к уже открытым комнатам.
func (b *RoomBuilder) placeExits() []*domain.Token {
	n := b.exits
	if n == 0 {
		if b.desc.VisualCategory == domain.RoomHallway {
			n = 2
		} else {
			n = 1 + b.rng.Intn(2)
		}
	}

	back := domain.Direction("")
	if b.forward.Valid() {
		back = b.forward.Opposite()
	}

	var open, blocked []exitSlot
	for _, c := range b.cells {
		for _, d := range domain.AllDirections {
			if d == back {
				continue
			}
			out := c.Step(d)
			if slices.Contains(b.cells, out) {
				continue
			}
			if b.occupied(out) {
				blocked = append(blocked, exitSlot{c, d})
			} else {
				open = append(open, exitSlot{c, d})
			}
		}
	}
	b.rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	b.rng.Shuffle(len(blocked), func(i, j int) { blocked[i], blocked[j] = blocked[j], blocked[i] })
	slots := append(open, blocked...)

	var doors []*domain.Token
	for _, s := range slots[:min(n, len(slots))] {
		doors = append(doors, &domain.Token{
			ID:          utils.GenerateDeterministicID(b.rng, "door_"),
			Type:        domain.TokenExplore,
			Pos:         s.pos,
			Direction:   s.dir,
			Description: fmt.Sprintf("A door leading %s", directionName(s.dir)),
		})
	}
	return doors
}

// placeSearchPoints раскладывает точки обыска по тайлам по кругу
func (b *RoomBuilder) placeSearchPoints(tiles []*domain.Tile) []*domain.Token {
	points := b.desc.SearchPoints
	if b.maxPoint >= 0 && len(points) > b.maxPoint {
		points = points[:b.maxPoint]
	}

	tokens := make([]*domain.Token, 0, len(points))
	for i, sp := range points {
		tile := tiles[i%len(tiles)]
		tokens = append(tokens, &domain.Token{
			ID:                utils.GenerateDeterministicID(b.rng, "search_"),
			Type:              domain.TokenSearch,
			Pos:               tile.Pos,
			Description:       sp.Description,
			RequiredAttribute: sp.Attribute,
			Difficulty:        1 + b.rng.Intn(2),
		})
	}
	return tokens
}

func directionName(d domain.Direction) string {
	switch d {
	case domain.North:
		return "north"
	case domain.East:
		return "east"
	case domain.South:
		return "south"
	default:
		return "west"
	}
}
