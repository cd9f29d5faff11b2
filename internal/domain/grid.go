package domain

import "encoding/binary"

// Tile - битовые флаги клетки: тип + направление.
// Одна клетка может одновременно быть стеной и нести направление соседнего пола.
type Tile uint16

const (
	TileEmpty Tile = 1 << iota
	TileFloor
	TileWall
	DirNorth
	DirSouth
	DirEast
	DirWest
	TileCorner
)

const tileTypeMask = TileEmpty | TileFloor | TileWall

// Has проверяет наличие флага
func (t Tile) Has(flag Tile) bool {
	return t&flag != 0
}

// Type возвращает только биты типа (без направлений)
func (t Tile) Type() Tile {
	return t & tileTypeMask
}

// Grid - неизменяемая после генерации карта клеток (row-major)
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Tile `json:"cells"`
}

// NewGrid создает сетку, заполненную пустотой
func NewGrid(w, h int) *Grid {
	cells := make([]Tile, w*h)
	for i := range cells {
		cells[i] = TileEmpty
	}
	return &Grid{Width: w, Height: h, Cells: cells}
}

func (g *Grid) Index(x, y int) int {
	return y*g.Width + x
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At возвращает клетку; вне границ - пустота
func (g *Grid) At(x, y int) Tile {
	if !g.InBounds(x, y) {
		return TileEmpty
	}
	return g.Cells[g.Index(x, y)]
}

func (g *Grid) Set(x, y int, t Tile) {
	if g.InBounds(x, y) {
		g.Cells[g.Index(x, y)] = t
	}
}

func (g *Grid) IsFloor(x, y int) bool {
	return g.At(x, y).Has(TileFloor)
}

// FloorTiles возвращает все клетки пола в порядке обхода строк
func (g *Grid) FloorTiles() []Position {
	var out []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.IsFloor(x, y) {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Bytes - каноничное байтовое представление (little endian uint16 на клетку).
// Используется для проверки детерминизма и отправки карты клиенту.
func (g *Grid) Bytes() []byte {
	buf := make([]byte, 4+len(g.Cells)*2)
	binary.LittleEndian.PutUint16(buf[0:], uint16(g.Width))
	binary.LittleEndian.PutUint16(buf[2:], uint16(g.Height))
	for i, c := range g.Cells {
		binary.LittleEndian.PutUint16(buf[4+i*2:], uint16(c))
	}
	return buf
}
