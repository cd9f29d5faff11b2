package domain

// GameWorld - статичная карта комнаты плюс реестр сущностей и пространственный индекс.
// Реестр владеет сущностями; индекс хранит только их ID.
type GameWorld struct {
	Grid     *Grid  `json:"grid"`
	Rooms    []Rect `json:"rooms"`
	Progress int    `json:"progress"`

	// EntityRegistry: ID -> сущность. order хранит порядок добавления,
	// в нем же тик обходит сущности.
	EntityRegistry map[EntityID]*Entity `json:"-"`
	order          []EntityID

	// SpatialHash: индекс клетки (y*Width+x) -> ID сущностей в ней
	SpatialHash map[int][]EntityID `json:"-"`

	nextIndex uint64
}

// NewGameWorld оборачивает сгенерированную карту
func NewGameWorld(grid *Grid, rooms []Rect, progress int) *GameWorld {
	return &GameWorld{
		Grid:           grid,
		Rooms:          rooms,
		Progress:       progress,
		EntityRegistry: make(map[EntityID]*Entity),
		SpatialHash:    make(map[int][]EntityID),
	}
}

func (w *GameWorld) Width() int {
	return w.Grid.Width
}

func (w *GameWorld) Height() int {
	return w.Grid.Height
}
