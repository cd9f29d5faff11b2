package dungeon

import (
	"math/rand"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/utils"
)

// Попыток размещения на каждую запрошенную комнату
const placementAttemptsPerRoom = 50

// Минимальная комната: кольцо стен + хотя бы одна клетка пола
const minRoomSide = 3

// Generate строит карту из строкового сида. Чистая функция: одинаковые
// аргументы дают побайтно одинаковый результат.
func Generate(seed string, size, minRoom, maxRoom domain.Position, numRooms int) (*domain.Grid, []domain.Rect) {
	return GenerateWithRand(utils.NewRand(seed), size, minRoom, maxRoom, numRooms)
}

// GenerateWithRand - то же самое, но с уже созданным генератором комнаты,
// чтобы дальше тем же генератором расставлять сущности.
func GenerateWithRand(rng *rand.Rand, size, minRoom, maxRoom domain.Position, numRooms int) (*domain.Grid, []domain.Rect) {
	grid := domain.NewGrid(size.X, size.Y)

	// 1. Размещаем комнаты
	rooms := placeRooms(rng, size, minRoom, maxRoom, numRooms)

	// 2. Вырезаем пол
	for _, r := range rooms {
		carveRoom(grid, r)
	}

	// 3. Соединяем коридорами по минимальному остовному дереву центров
	for _, edge := range spanningTree(rooms) {
		from, to := rooms[edge[0]].Center(), rooms[edge[1]].Center()
		if rng.Intn(2) == 0 {
			createHCorridor(grid, from.X, to.X, from.Y)
			createVCorridor(grid, from.Y, to.Y, to.X)
		} else {
			createVCorridor(grid, from.Y, to.Y, from.X)
			createHCorridor(grid, from.X, to.X, to.Y)
		}
	}

	// 4. Направления проходов и стены
	markDoorways(grid, rooms)
	buildWalls(grid)

	return grid, rooms
}

func placeRooms(rng *rand.Rand, size, minRoom, maxRoom domain.Position, numRooms int) []domain.Rect {
	minW, minH := max(minRoom.X, minRoomSide), max(minRoom.Y, minRoomSide)
	maxW, maxH := min(max(maxRoom.X, minW), size.X), min(max(maxRoom.Y, minH), size.Y)
	if minW > size.X || minH > size.Y {
		return nil
	}

	rooms := make([]domain.Rect, 0, numRooms)
	for attempts := numRooms * placementAttemptsPerRoom; attempts > 0 && len(rooms) < numRooms; attempts-- {
		w := utils.IntBetween(rng, minW, maxW)
		h := utils.IntBetween(rng, minH, maxH)
		// w, h - вместе со стенами; в список идет только пол
		floor := domain.Rect{
			X: utils.IntBetween(rng, 0, size.X-w) + 1,
			Y: utils.IntBetween(rng, 0, size.Y-h) + 1,
			W: w - 2,
			H: h - 2,
		}

		// стены кандидата не должны заходить на чужой пол
		overlaps := false
		for _, other := range rooms {
			if floor.Expand(1).Intersects(other) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			rooms = append(rooms, floor)
		}
	}
	return rooms
}

func carveRoom(grid *domain.Grid, r domain.Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			grid.Set(x, y, domain.TileFloor)
		}
	}
}

func createHCorridor(grid *domain.Grid, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		grid.Set(x, y, domain.TileFloor)
	}
}

func createVCorridor(grid *domain.Grid, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		grid.Set(x, y, domain.TileFloor)
	}
}

// spanningTree - алгоритм Прима по манхэттенскому расстоянию между центрами.
// При равенстве берется пара с меньшими индексами.
func spanningTree(rooms []domain.Rect) [][2]int {
	if len(rooms) < 2 {
		return nil
	}
	inTree := make([]bool, len(rooms))
	inTree[0] = true
	edges := make([][2]int, 0, len(rooms)-1)

	for len(edges) < len(rooms)-1 {
		best, bestDist := [2]int{-1, -1}, 0
		for i := range rooms {
			if !inTree[i] {
				continue
			}
			for j := range rooms {
				if inTree[j] {
					continue
				}
				d := rooms[i].Center().ManhattanTo(rooms[j].Center())
				if best[0] < 0 || d < bestDist {
					best, bestDist = [2]int{i, j}, d
				}
			}
		}
		inTree[best[1]] = true
		edges = append(edges, best)
	}
	return edges
}

// markDoorways помечает клетки пола на кольце стен комнаты направлением выхода
func markDoorways(grid *domain.Grid, rooms []domain.Rect) {
	for _, r := range rooms {
		ring := r.Expand(1)
		for y := ring.Y; y < ring.Y+ring.H; y++ {
			for x := ring.X; x < ring.X+ring.W; x++ {
				p := domain.Position{X: x, Y: y}
				if !r.OnBorder(p) || !grid.IsFloor(x, y) {
					continue
				}
				t := grid.At(x, y)
				switch {
				case y == ring.Y:
					t |= domain.DirNorth
				case y == ring.Y+ring.H-1:
					t |= domain.DirSouth
				}
				switch {
				case x == ring.X:
					t |= domain.DirWest
				case x == ring.X+ring.W-1:
					t |= domain.DirEast
				}
				grid.Set(x, y, t)
			}
		}
	}
}

// buildWalls превращает пустоту рядом с полом в стены с направлением на пол
func buildWalls(grid *domain.Grid) {
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsFloor(x, y) {
				continue
			}

			var dirs domain.Tile
			if grid.IsFloor(x, y-1) {
				dirs |= domain.DirNorth
			}
			if grid.IsFloor(x, y+1) {
				dirs |= domain.DirSouth
			}
			if grid.IsFloor(x+1, y) {
				dirs |= domain.DirEast
			}
			if grid.IsFloor(x-1, y) {
				dirs |= domain.DirWest
			}

			switch {
			case dirs != 0:
				grid.Set(x, y, domain.TileWall|dirs)
			case grid.IsFloor(x-1, y-1) || grid.IsFloor(x+1, y-1) ||
				grid.IsFloor(x-1, y+1) || grid.IsFloor(x+1, y+1):
				grid.Set(x, y, domain.TileWall|domain.TileCorner)
			}
		}
	}
}
