package domain

import "strings"

// Position - координата клетки на сетке поля
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step возвращает соседнюю клетку в направлении dir
func (p Position) Step(dir Direction) Position {
	dx, dy := dir.Delta()
	return p.Shift(dx, dy)
}

// IsNeighbour возвращает true, если клетки соседствуют по стороне (4-соседство, без диагоналей)
func (p Position) IsNeighbour(other Position) bool {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Neighbours возвращает 4 соседние клетки в фиксированном порядке N, E, S, W
func (p Position) Neighbours() [4]Position {
	return [4]Position{p.Step(North), p.Step(East), p.Step(South), p.Step(West)}
}

// Direction - сторона света. Для дверей (Explore) задает стену тайла.
type Direction string

const (
	North Direction = "N"
	East  Direction = "E"
	South Direction = "S"
	West  Direction = "W"
)

// AllDirections в порядке обхода по часовой стрелке
var AllDirections = [4]Direction{North, East, South, West}

// Delta возвращает смещение по сетке. Y растет вниз.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// Left / Right - повороты относительно направления движения
func (d Direction) Left() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	}
	return d
}

func (d Direction) Right() Direction {
	return d.Left().Opposite()
}

func (d Direction) Valid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// ParseDirection понимает как "N", так и "north"
func ParseDirection(s string) Direction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NORTH":
		return North
	case "E", "EAST":
		return East
	case "S", "SOUTH":
		return South
	case "W", "WEST":
		return West
	}
	return ""
}

// DirectionTo возвращает направление от p к соседней клетке other ("" если не соседи)
func (p Position) DirectionTo(other Position) Direction {
	for _, d := range AllDirections {
		if p.Step(d) == other {
			return d
		}
	}
	return ""
}
