package domain

import "time"

// HeroSnapshot - сохраняемое состояние героя между сессиями
type HeroSnapshot struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`

	Lvl                int        `json:"lvl"`
	Primary            Attribute  `json:"primaryAttribute"`
	Attributes         Attributes `json:"attributes"`
	PointsToDistribute int        `json:"pointsToDistribute"`

	HP float64 `json:"hp"`
	MP float64 `json:"mp"`
	XP float64 `json:"xp"`

	Gold    int `json:"gold"`
	Diamond int `json:"diamond"`

	Inventory      []*ItemComponent        `json:"inventory"`
	QuickInventory []*ItemComponent        `json:"quickInventory"`
	Equipment      map[Slot]*ItemComponent `json:"equipedItems"`

	CurrentProgress int       `json:"currentProgress"`
	LatestProgress  int       `json:"latestProgress"`
	CurrentRoom     string    `json:"currentRoom"`
	CurrentCoords   *Position `json:"currentCoords,omitempty"`
	Checkpoints     []int     `json:"checkpoints"`
}

// NewHero создает героя первого уровня. Основной атрибут получает бонус.
func NewHero(id, name string, primary Attribute) *HeroSnapshot {
	attrs := Attributes{Strength: 3, Agility: 3, Intelligence: 3}
	attrs.Add(primary, 2)
	return &HeroSnapshot{
		ID:              id,
		Name:            name,
		Created:         time.Now().UTC(),
		Lvl:             1,
		Primary:         primary,
		Attributes:      attrs,
		Equipment:       map[Slot]*ItemComponent{},
		CurrentProgress: 1,
		LatestProgress:  1,
		Checkpoints:     []int{},
	}
}
