package domain

// RoomCategory - визуальная категория комнаты (в нижнем регистре)
type RoomCategory string

const (
	RoomFoyer    RoomCategory = "foyer"
	RoomHallway  RoomCategory = "hallway"
	RoomKitchen  RoomCategory = "kitchen"
	RoomBathroom RoomCategory = "bathroom"
	RoomBedroom  RoomCategory = "bedroom"
	RoomCloset   RoomCategory = "closet"
	RoomStudy    RoomCategory = "study"
	RoomDining   RoomCategory = "dining"
	RoomRitual   RoomCategory = "ritual"
	RoomGarden   RoomCategory = "garden"
)

// RoomBounds - габариты комнаты. Нужны только внешнему рендереру.
type RoomBounds struct {
	Origin Position `json:"origin"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// Tile - клетка поля. Тайлы с одинаковым RoomID открыты друг другу.
type Tile struct {
	ID          string       `json:"id"`
	RoomID      string       `json:"roomId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Pos         Position     `json:"position"`
	Category    RoomCategory `json:"category"`
	Room        RoomBounds   `json:"room"`
}

// TokenType - тип маркера на поле
type TokenType string

const (
	TokenExplore  TokenType = "EXPLORE"
	TokenSearch   TokenType = "SEARCH"
	TokenInteract TokenType = "INTERACT"
	TokenSight    TokenType = "SIGHT"
	TokenEscape   TokenType = "ESCAPE"
)

// Token - интерактивный маркер. Explore = дверь (Resolved=true -> открыта).
type Token struct {
	ID                string    `json:"id"`
	Type              TokenType `json:"type"`
	Pos               Position  `json:"position"`
	Description       string    `json:"description"`
	Resolved          bool      `json:"resolved"`
	RequiredAttribute Attribute `json:"requiredAttribute,omitempty"`
	Difficulty        int       `json:"difficulty,omitempty"`
	Direction         Direction `json:"direction,omitempty"`
}

// DoorTarget - клетка за дверью
func (t *Token) DoorTarget() Position {
	return t.Pos.Step(t.Direction)
}

// Board - индекс по координатам поверх тайлов и маркеров сессии.
// Строится на время одной операции, в снапшот не попадает.
type Board struct {
	byPos map[Position]*Tile
	doors map[Position][]*Token
}

func NewBoard(tiles []*Tile, tokens []*Token) *Board {
	b := &Board{
		byPos: make(map[Position]*Tile, len(tiles)),
		doors: make(map[Position][]*Token),
	}
	for _, t := range tiles {
		b.byPos[t.Pos] = t
	}
	for _, tok := range tokens {
		if tok.Type == TokenExplore && tok.Resolved {
			b.doors[tok.Pos] = append(b.doors[tok.Pos], tok)
		}
	}
	return b
}

func (b *Board) TileAt(p Position) *Tile {
	return b.byPos[p]
}

func (b *Board) Occupied(p Position) bool {
	_, ok := b.byPos[p]
	return ok
}

// Connected - предикат связности по дверям.
// Две соседние клетки проходимы, если это одна комната или между ними открытая дверь
// (Explore-маркер на любой из клеток, смотрящий на другую).
func (b *Board) Connected(from, to Position) bool {
	if !from.IsNeighbour(to) {
		return false
	}
	a, c := b.byPos[from], b.byPos[to]
	if a == nil || c == nil {
		return false
	}
	if a.RoomID == c.RoomID {
		return true
	}
	for _, door := range b.doors[from] {
		if door.DoorTarget() == to {
			return true
		}
	}
	for _, door := range b.doors[to] {
		if door.DoorTarget() == from {
			return true
		}
	}
	return false
}
