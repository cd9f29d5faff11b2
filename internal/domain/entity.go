package domain

// Entity - любая сущность комнаты. Набор компонентов определяет поведение:
// если компонент nil, свойства нет.
type Entity struct {
	ID       EntityID   `json:"id"`
	Kind     EntityKind `json:"kind"`
	Name     string     `json:"name"`
	Caps     Capability `json:"-"`
	Pos      Position   `json:"pos"`
	Walkable bool       `json:"walkable"`

	// Время появления и время жизни (мс, 0 = бессрочно)
	CreatedAt int64 `json:"-"`
	TTL       int64 `json:"ttl,omitempty"`

	Unit        *UnitComponent        `json:"unit,omitempty"`
	AI          *AIComponent          `json:"-"`
	Player      *PlayerComponent      `json:"player,omitempty"`
	Item        *ItemComponent        `json:"item,omitempty"`
	Interactive *InteractiveComponent `json:"interactive,omitempty"`
	Text        *TextComponent        `json:"text,omitempty"`
}

// Has проверяет флаг возможности
func (e *Entity) Has(c Capability) bool {
	return e.Caps&c != 0
}

// IsAlive - юнит с hp > 0
func (e *Entity) IsAlive() bool {
	return e.Unit != nil && e.Unit.IsAlive()
}

// IsPlayer - юнит под управлением клиента
func (e *Entity) IsPlayer() bool {
	return e.Kind == KindPlayer && e.Player != nil
}

// Expired - истекло ли время жизни к моменту now
func (e *Entity) Expired(now int64) bool {
	return e.TTL > 0 && now >= e.CreatedAt+e.TTL
}

// Remaining - сколько мс осталось жить (0 для бессрочных и истекших)
func (e *Entity) Remaining(now int64) int64 {
	if e.TTL <= 0 {
		return 0
	}
	left := e.CreatedAt + e.TTL - now
	if left < 0 {
		return 0
	}
	return left
}

// EntityFilter - предикат для поиска в индексе
type EntityFilter func(*Entity) bool

// OfKind - фильтр по типу
func OfKind(kinds ...EntityKind) EntityFilter {
	return func(e *Entity) bool {
		for _, k := range kinds {
			if e.Kind == k {
				return true
			}
		}
		return false
	}
}

// AliveUnit - живой юнит
func AliveUnit(e *Entity) bool {
	return e.IsAlive()
}

// Blocking - непроходимая сущность
func Blocking(e *Entity) bool {
	return !e.Walkable
}

// PlayerComponent - данные игрока: сессия, инвентари, прогресс
type PlayerComponent struct {
	ClientID string `json:"-"`
	HeroID   string `json:"heroId"`

	Inventory      *Inventory `json:"inventory"`
	QuickInventory *Inventory `json:"quickInventory"`
	Equipment      *Equipment `json:"equipment"`

	Gold    int `json:"gold"`
	Diamond int `json:"diamond"`

	LatestProgress int    `json:"latestProgress"`
	Checkpoints    []int  `json:"checkpoints"`
	CurrentRoom    string `json:"-"`

	// Координаты, которые надо сохранить при выходе (например, ушел через портал)
	SavedCoords *Position `json:"-"`
}

// HasCheckpoint - открыт ли чекпоинт
func (p *PlayerComponent) HasCheckpoint(progress int) bool {
	for _, c := range p.Checkpoints {
		if c == progress {
			return true
		}
	}
	return false
}

// AddCheckpoint добавляет чекпоинт, если его еще нет
func (p *PlayerComponent) AddCheckpoint(progress int) bool {
	if p.HasCheckpoint(progress) {
		return false
	}
	p.Checkpoints = append(p.Checkpoints, progress)
	return true
}

// Container возвращает инвентарь по имени из интента
func (p *PlayerComponent) Container(t InventoryType) *Inventory {
	switch t {
	case InventoryMain:
		return p.Inventory
	case InventoryQuick:
		return p.QuickInventory
	}
	return nil
}

// TextComponent - всплывающий текст (урон, чат)
type TextComponent struct {
	Text    string   `json:"text"`
	Style   string   `json:"style"`
	OwnerID EntityID `json:"ownerId,omitempty"`
}

// Стили текстовых событий
const (
	TextDamage   = "damage"
	TextCritical = "critical"
	TextMiss     = "miss"
	TextHeal     = "heal"
	TextMana     = "mana"
	TextXP       = "xp"
	TextLevelUp  = "level-up"
	TextChat     = "chat"
)
