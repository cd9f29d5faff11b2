package domain

import "math/rand"

// Rect - пол комнаты. Кольцо стен лежит на одну клетку снаружи (Expand(1)),
// поэтому соседние комнаты могут делить линию стены, а их Rect не пересекаются.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Center возвращает центр комнаты
func (r Rect) Center() Position {
	return Position{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects - есть ли у прямоугольников общие клетки
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Expand расширяет прямоугольник на n клеток во все стороны
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Contains - лежит ли точка на полу комнаты
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// OnBorder - точка на кольце стен комнаты
func (r Rect) OnBorder(p Position) bool {
	return r.Expand(1).Contains(p) && !r.Contains(p)
}

// Area - площадь пола
func (r Rect) Area() int {
	return r.W * r.H
}

// RandomTile возвращает случайную клетку пола комнаты
func (r Rect) RandomTile(rng *rand.Rand) Position {
	return Position{
		X: r.X + rng.Intn(r.W),
		Y: r.Y + rng.Intn(r.H),
	}
}
