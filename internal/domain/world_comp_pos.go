package domain

import "math"

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo возвращает точное расстояние до другой точки (float)
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

// ManhattanTo - эвристика для A* (движение только по 4 направлениям)
func (p Position) ManhattanTo(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	dx, dy := abs(p.X-other.X), abs(p.Y-other.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Neighbors4 - соседи по сторонам света в фиксированном порядке (N, S, W, E)
func (p Position) Neighbors4() [4]Position {
	return [4]Position{
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction - куда смотрит юнит (для клиента)
type Direction string

const (
	DirectionBottom Direction = "bottom"
	DirectionTop    Direction = "top"
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
)

// DirectionBetween вычисляет направление шага from -> to.
// Если точки совпадают, возвращает fallback.
func DirectionBetween(from, to Position, fallback Direction) Direction {
	switch {
	case to.X > from.X:
		return DirectionRight
	case to.X < from.X:
		return DirectionLeft
	case to.Y > from.Y:
		return DirectionBottom
	case to.Y < from.Y:
		return DirectionTop
	}
	return fallback
}
