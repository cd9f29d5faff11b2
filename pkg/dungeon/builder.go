package dungeon

import (
	"math/rand"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/utils"
)

// Попыток найти свободную клетку в комнате
const freeTileAttempts = 20

// LevelBuilder предоставляет fluent API для создания уровня:
// карта, двери, враги, сундуки. Все случайности - из генератора комнаты.
type LevelBuilder struct {
	cfg   MapConfig
	rng   *rand.Rand
	world *domain.GameWorld
	start domain.Position
	end   domain.Position
}

// NewLevel создает builder для уровня
func NewLevel(cfg MapConfig, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{cfg: cfg, rng: rng}
}

// WithRooms генерирует карту и определяет точки входа/выхода
func (b *LevelBuilder) WithRooms() *LevelBuilder {
	grid, rooms := GenerateWithRand(b.rng, b.cfg.Size, b.cfg.MinRoom, b.cfg.MaxRoom, b.cfg.NumRooms)
	b.world = domain.NewGameWorld(grid, rooms, b.cfg.Progress)

	if len(rooms) > 0 {
		b.start = rooms[0].Center()
		b.end = rooms[len(rooms)-1].Center()
	}
	return b
}

// PlaceDoors ставит двери: назад у входа, вперед у выхода.
// В замке - дверь в подземелье и дверь на последний достигнутый уровень.
func (b *LevelBuilder) PlaceDoors() *LevelBuilder {
	rooms := b.world.Rooms
	if len(rooms) == 0 {
		return b
	}
	first, last := rooms[0], rooms[len(rooms)-1]

	if b.cfg.IsLobby {
		b.add(door("Вход в подземелье", domain.Position{X: first.X, Y: first.Y}, domain.DoorForward))
		b.add(door("Глубины", domain.Position{X: first.X + first.W - 1, Y: first.Y}, domain.DoorLatest))
		return b
	}

	b.add(door("Путь назад", domain.Position{X: first.X, Y: first.Y}, domain.DoorBack))
	b.add(door("Путь вперед", domain.Position{X: last.X + last.W - 1, Y: last.Y + last.H - 1}, domain.DoorForward))
	return b
}

// PlaceCheckpoint ставит чекпоинт в последней комнате
func (b *LevelBuilder) PlaceCheckpoint() *LevelBuilder {
	if !b.cfg.IsCheckpoint || len(b.world.Rooms) == 0 {
		return b
	}
	if pos, ok := b.freeTile(b.world.Rooms[len(b.world.Rooms)-1]); ok {
		b.add(&domain.Entity{
			Kind:        domain.KindCheckpoint,
			Name:        "Чекпоинт",
			Pos:         pos,
			Walkable:    true,
			Interactive: &domain.InteractiveComponent{Progress: b.cfg.Progress},
		})
	}
	return b
}

// SpawnEnemies расставляет врагов во всех комнатах, кроме первой.
// Количество растет с площадью комнаты и глубиной.
func (b *LevelBuilder) SpawnEnemies() *LevelBuilder {
	if len(b.cfg.Enemies) == 0 {
		return b
	}
	for _, room := range b.world.Rooms[min(1, len(b.world.Rooms)):] {
		count := max(1, room.Area()/12) + b.cfg.Progress/10
		for i := 0; i < count; i++ {
			name := utils.Pick(b.rng, b.cfg.Enemies)
			pos, ok := b.freeTile(room)
			if !ok {
				continue
			}
			lvl := max(1, b.cfg.Progress+utils.IntBetween(b.rng, -1, 1))
			b.add(EnemyTemplates[name].SpawnEnemy(name, pos, lvl))
		}
	}
	return b
}

// SpawnBoss ставит босса в последнюю комнату
func (b *LevelBuilder) SpawnBoss() *LevelBuilder {
	if !b.cfg.IsBoss || b.cfg.Boss == "" || len(b.world.Rooms) == 0 {
		return b
	}
	if pos, ok := b.freeTile(b.world.Rooms[len(b.world.Rooms)-1]); ok {
		b.add(EnemyTemplates[b.cfg.Boss].SpawnEnemy(b.cfg.Boss, pos, b.cfg.Progress+2))
	}
	return b
}

// SpawnChests - по сундуку с шансом 50% в комнатах, кроме первой
func (b *LevelBuilder) SpawnChests() *LevelBuilder {
	if b.cfg.IsLobby {
		return b
	}
	for _, room := range b.world.Rooms[min(1, len(b.world.Rooms)):] {
		if !utils.Chance(b.rng, 0.5) {
			continue
		}
		if pos, ok := b.freeTile(room); ok {
			b.add(&domain.Entity{
				Kind:        domain.KindChest,
				Name:        "Сундук",
				Pos:         pos,
				Interactive: &domain.InteractiveComponent{},
			})
		}
	}
	return b
}

// PopulateLobby - NPC и фонтан в замке
func (b *LevelBuilder) PopulateLobby() *LevelBuilder {
	if !b.cfg.IsLobby || len(b.world.Rooms) == 0 {
		return b
	}
	room := b.world.Rooms[0]
	for _, name := range []string{"elder", "merchant"} {
		if pos, ok := b.freeTile(room); ok {
			b.add(NPCTemplates[name].SpawnNPC(pos))
		}
	}
	if pos, ok := b.freeTile(room); ok {
		b.add(&domain.Entity{
			Kind:        domain.KindFountain,
			Name:        "Фонтан",
			Pos:         pos,
			Interactive: &domain.InteractiveComponent{Cooldown: domain.FountainCooldown},
		})
	}
	return b
}

// Build возвращает готовый мир и точки входа/выхода
func (b *LevelBuilder) Build() (*domain.GameWorld, domain.Position, domain.Position) {
	return b.world, b.start, b.end
}

// BuildLevel - полный конвейер генерации уровня
func BuildLevel(cfg MapConfig, rng *rand.Rand) (*domain.GameWorld, domain.Position, domain.Position) {
	return NewLevel(cfg, rng).
		WithRooms().
		PlaceDoors().
		PlaceCheckpoint().
		SpawnBoss().
		SpawnEnemies().
		SpawnChests().
		PopulateLobby().
		Build()
}

func (b *LevelBuilder) add(e *domain.Entity) {
	b.world.AddEntity(e)
}

// freeTile ищет клетку пола без сущностей, не совпадающую с входом/выходом
func (b *LevelBuilder) freeTile(room domain.Rect) (domain.Position, bool) {
	for attempt := 0; attempt < freeTileAttempts; attempt++ {
		pos := room.RandomTile(b.rng)
		if pos == b.start || pos == b.end {
			continue
		}
		if !b.world.Grid.IsFloor(pos.X, pos.Y) || len(b.world.AllEntitiesAt(pos.X, pos.Y)) > 0 {
			continue
		}
		return pos, true
	}
	return domain.Position{}, false
}

func door(name string, pos domain.Position, progress int) *domain.Entity {
	return &domain.Entity{
		Kind:        domain.KindDoor,
		Name:        name,
		Pos:         pos,
		Walkable:    true,
		Interactive: &domain.InteractiveComponent{Progress: progress},
	}
}
