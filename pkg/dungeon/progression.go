package dungeon

import (
	"strconv"

	"github.com/h918m/mazmorra/internal/domain"
)

// LobbyProgress - прогресс "замка", стартовой безопасной комнаты
const LobbyProgress = 1

// Имена комнат
const (
	RoomLobby   = "castle"
	RoomDungeon = "dungeon"
)

// RoomFor возвращает имя комнаты для прогресса
func RoomFor(progress int) string {
	if progress <= LobbyProgress {
		return RoomLobby
	}
	return RoomDungeon
}

// MapConfig - параметры генерации комнаты для данного прогресса
type MapConfig struct {
	Progress int
	Size     domain.Position
	MinRoom  domain.Position
	MaxRoom  domain.Position
	NumRooms int

	IsLobby      bool
	IsCheckpoint bool
	IsBoss       bool

	Enemies []string
	Boss    string
}

// IsCheckpointMap - на этом уровне есть чекпоинт
func IsCheckpointMap(progress int) bool {
	return (progress+1)%8 == 0
}

// IsBossMap - на этом уровне есть босс
func IsBossMap(progress int) bool {
	return (progress+1)%20 == 0
}

// Наборы врагов по глубине
var enemyTiers = []struct {
	until   int
	enemies []string
}{
	{5, []string{"rat", "bat", "spider"}},
	{10, []string{"rat", "bat", "spider", "spider-medium", "slime", "skeleton"}},
	{20, []string{"spider-medium", "slime", "skeleton", "goblin", "slime-big", "spider-giant"}},
	{1 << 30, []string{"skeleton", "goblin", "slime-big", "spider-giant", "golem", "skeleton-warrior"}},
}

// MapConfigFor возвращает параметры карты для прогресса
func MapConfigFor(progress int) MapConfig {
	if progress <= LobbyProgress {
		return MapConfig{
			Progress: LobbyProgress,
			Size:     domain.Position{X: 12, Y: 12},
			MinRoom:  domain.Position{X: 10, Y: 10},
			MaxRoom:  domain.Position{X: 12, Y: 12},
			NumRooms: 1,
			IsLobby:  true,
		}
	}

	// комнаты растут вместе с картой: 30%..40% стороны, не меньше 6..10
	side := 14 + progress/2
	minSide := max(ceilPercent(side, 30), 6)
	maxSide := max(ceilPercent(side, 40), 10)
	cfg := MapConfig{
		Progress: progress,
		Size:     domain.Position{X: side, Y: side},
		MinRoom:  domain.Position{X: minSide, Y: minSide},
		MaxRoom:  domain.Position{X: maxSide, Y: maxSide},
		// Не меньше двух комнат: в первой врагов нет
		NumRooms:     max(2, min(side*side/(maxSide*maxSide), progress/2)),
		IsCheckpoint: IsCheckpointMap(progress),
		IsBoss:       IsBossMap(progress),
	}
	for _, tier := range enemyTiers {
		if progress < tier.until {
			cfg.Enemies = tier.enemies
			break
		}
	}
	if cfg.IsBoss {
		cfg.Boss = "golem-king"
	}
	return cfg
}

// ceilPercent - ceil(n * pct / 100) в целых числах
func ceilPercent(n, pct int) int {
	return (n*pct + 99) / 100
}

// RoomSeed - сид комнаты из мастер-сида
func RoomSeed(master, room string, progress int) string {
	return master + "-" + room + "-" + strconv.Itoa(progress)
}
