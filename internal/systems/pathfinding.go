package systems

import (
	"container/heap"

	"github.com/h918m/mazmorra/internal/domain"
)

// FindPath ищет кратчайший путь A* по 4 направлениям.
// mask - проходимость клеток (row-major, width*height), стартовая клетка не проверяется.
// Возвращает клетки пути без стартовой; пустой результат - пути нет.
func FindPath(width, height int, mask []bool, from, to domain.Position) []domain.Position {
	inBounds := func(p domain.Position) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
	}
	idx := func(p domain.Position) int { return p.Y*width + p.X }

	if from == to || !inBounds(from) || !inBounds(to) || len(mask) < width*height {
		return nil
	}
	if !mask[idx(to)] {
		return nil
	}

	cost := make(map[int]int, 64)
	parent := make(map[int]int, 64)
	closed := make(map[int]bool, 64)

	open := &nodeQueue{}
	seq := 0
	push := func(p domain.Position, g int) {
		heap.Push(open, &node{pos: p, g: g, f: g + p.ManhattanTo(to), seq: seq})
		seq++
	}

	cost[idx(from)] = 0
	push(from, 0)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		ci := idx(cur.pos)
		if closed[ci] {
			continue
		}
		closed[ci] = true

		if cur.pos == to {
			return unwind(parent, idx(from), ci, width)
		}

		for _, n := range cur.pos.Neighbors4() {
			if !inBounds(n) {
				continue
			}
			ni := idx(n)
			if closed[ni] || !mask[ni] {
				continue
			}
			g := cur.g + 1
			if old, seen := cost[ni]; seen && old <= g {
				continue
			}
			cost[ni] = g
			parent[ni] = ci
			push(n, g)
		}
	}
	return nil
}

// PathInWorld строит маску из мира (цель except не блокирует) и ищет путь
func PathInWorld(w *domain.GameWorld, from, to domain.Position, except ...domain.EntityID) []domain.Position {
	return FindPath(w.Width(), w.Height(), w.WalkabilityMask(except...), from, to)
}

func unwind(parent map[int]int, start, goal, width int) []domain.Position {
	var rev []domain.Position
	for cur := goal; cur != start; cur = parent[cur] {
		rev = append(rev, domain.Position{X: cur % width, Y: cur / width})
	}
	path := make([]domain.Position, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

type node struct {
	pos  domain.Position
	g, f int
	seq  int
}

// nodeQueue - min-heap по f, при равенстве - по g (глубже лучше), затем по порядку вставки
type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].g != q[j].g {
		return q[i].g > q[j].g
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}
