package domain

// Специальные значения прогресса двери
const (
	DoorForward = -1
	DoorBack    = -2
	DoorLatest  = -3
)

// InteractiveComponent - двери, сундуки, фонтаны, порталы, чекпоинты, NPC
type InteractiveComponent struct {
	// Дверь/портал: куда ведет
	Progress int    `json:"progress,omitempty"`
	Room     string `json:"room,omitempty"`

	// Сундук: уже открыт
	Open bool `json:"open,omitempty"`

	// Фонтан: перезарядка
	Cooldown int64 `json:"-"`
	LastUsed int64 `json:"-"`

	// NPC: реплика
	Dialog string `json:"dialog,omitempty"`
}

// Ready - можно ли использовать объект в момент now
func (c *InteractiveComponent) Ready(now int64) bool {
	return c.Cooldown == 0 || c.LastUsed == 0 || now-c.LastUsed >= c.Cooldown
}
