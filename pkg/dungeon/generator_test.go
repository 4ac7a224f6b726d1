package dungeon

import (
	"echoes-server/internal/domain"
	"errors"
	"math/rand"
	"testing"
)

func newSessionWithFoyer(t *testing.T, g *Generator) *domain.Session {
	t.Helper()
	s := domain.NewSession("TEST01", domain.DifficultyNormal)
	room, err := g.InitialMap("")
	if err != nil {
		t.Fatalf("InitialMap: %v", err)
	}
	Place(s, room)
	return s
}

// explore открывает случайную неоткрытую дверь в пустоту
func explore(s *domain.Session, g *Generator, rng *rand.Rand) (*Room, error) {
	board := s.Board()
	var doors []*domain.Token
	for _, tok := range s.Tokens {
		if tok.Type == domain.TokenExplore && !tok.Resolved && !board.Occupied(tok.DoorTarget()) {
			doors = append(doors, tok)
		}
	}
	if len(doors) == 0 {
		return nil, nil
	}
	door := doors[rng.Intn(len(doors))]
	req := domain.RoomRequest{
		Direction:          door.Direction,
		FromCategory:       s.TileAt(door.Pos).Category,
		ExistingCategories: s.UsedCategories(),
	}
	room, err := g.Expand(s, door, g.Fallback(req))
	if err != nil {
		return nil, err
	}
	door.Resolved = true
	Place(s, room)
	return room, nil
}

func TestInitialMap(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	room, err := g.InitialMap("You arrive at midnight.")
	if err != nil {
		t.Fatal(err)
	}

	if len(room.Tiles) != 4 {
		t.Errorf("Expected 2x2 foyer, got %d tiles", len(room.Tiles))
	}
	doors, search := 0, 0
	for _, tok := range room.Tokens {
		switch tok.Type {
		case domain.TokenExplore:
			doors++
		case domain.TokenSearch:
			search++
		}
	}
	if doors != 2 || search != 1 {
		t.Errorf("Expected 2 doors and 1 search point, got %d and %d", doors, search)
	}
	if room.Tiles[0].Description != "You arrive at midnight." || room.Tiles[0].Room.Width != 2 {
		t.Errorf("Unexpected foyer tile %+v", room.Tiles[0])
	}
}

// Свойство: при многократной генерации тайлы никогда не пересекаются,
// а обязательные и уникальные категории появляются не больше одного раза.
func TestExpand_NoCollisionsAndUniqueCategories(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := NewGenerator(rng)
		s := newSessionWithFoyer(t, g)

		for step := 0; step < 30; step++ {
			room, err := explore(s, g, rng)
			if err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			if room == nil {
				break
			}
		}

		seen := make(map[domain.Position]bool)
		for _, tile := range s.Tiles {
			if seen[tile.Pos] {
				t.Fatalf("seed %d: two tiles at %v", seed, tile.Pos)
			}
			seen[tile.Pos] = true
		}

		rooms := make(map[domain.RoomCategory]map[string]bool)
		for _, tile := range s.Tiles {
			if rooms[tile.Category] == nil {
				rooms[tile.Category] = make(map[string]bool)
			}
			rooms[tile.Category][tile.RoomID] = true
		}
		for _, c := range append(append([]domain.RoomCategory{}, MandatoryCategories...), UniqueCategories...) {
			if n := len(rooms[c]); n > 1 {
				t.Errorf("seed %d: category %s appears %d times", seed, c, n)
			}
		}
	}
}

func TestExpand_HallwayShape(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := NewGenerator(rng)
		s := newSessionWithFoyer(t, g)

		// Из фойе всегда ведет коридор
		room, err := explore(s, g, rng)
		if err != nil || room == nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(room.Tiles) != 1 || room.Tiles[0].Category != domain.RoomHallway {
			t.Fatalf("seed %d: expected single hallway tile, got %d tiles of %s", seed, len(room.Tiles), room.Tiles[0].Category)
		}

		exits := 0
		for _, tok := range room.Tokens {
			if tok.Type == domain.TokenExplore {
				exits++
			}
		}
		if exits != 2 {
			t.Errorf("seed %d: hallway must have exactly 2 exits, got %d", seed, exits)
		}
	}
}

func TestExpand_ExitsAvoidEntryWall(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := NewGenerator(rng)
	s := domain.NewSession("TEST01", domain.DifficultyNormal)
	s.Tiles = []*domain.Tile{{ID: "h", RoomID: "h", Pos: domain.Position{}, Category: domain.RoomHallway}}
	door := &domain.Token{ID: "d", Type: domain.TokenExplore, Pos: domain.Position{}, Direction: domain.East}
	s.Tokens = []*domain.Token{door}

	for i := 0; i < 50; i++ {
		desc := domain.RoomDescriptor{Name: "Study", VisualCategory: "Study"}
		room, err := g.Expand(s, door, desc)
		if err != nil {
			t.Fatal(err)
		}
		if room.Tiles[0].Pos != (domain.Position{X: 1, Y: 0}) {
			t.Fatalf("Entry tile must be behind the door, got %v", room.Tiles[0].Pos)
		}
		for _, tok := range room.Tokens {
			if tok.Type == domain.TokenExplore && tok.Direction == domain.West {
				t.Fatalf("Exit placed on the entry wall: %+v", tok)
			}
		}
	}
}

func TestExpand_Collision(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	s := newSessionWithFoyer(t, g)

	// Дверь из (0,0) на восток упирается в (1,0) - это тоже фойе
	door := &domain.Token{ID: "d", Type: domain.TokenExplore, Pos: domain.Position{}, Direction: domain.East}
	_, err := g.Expand(s, door, domain.RoomDescriptor{VisualCategory: domain.RoomHallway})
	if !errors.Is(err, ErrCollision) {
		t.Errorf("Expected ErrCollision, got %v", err)
	}
}

func TestBoundsOf(t *testing.T) {
	r := BoundsOf([]domain.Position{{X: 2, Y: 1}, {X: 3, Y: 1}, {X: 2, Y: 2}})
	if r != (Rect{X: 2, Y: 1, W: 2, H: 2}) {
		t.Errorf("Unexpected bounds %+v", r)
	}
}
