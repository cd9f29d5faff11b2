package engine

import (
	"time"

	"github.com/google/uuid"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят все комнаты:
	// сид комнаты = Seed-<имя>-<прогресс>
	Seed string

	TickRate   int
	MaxClients int

	// Задержки автозакрытия комнаты после ухода последнего игрока
	DisposeTimeout     time.Duration
	DeadDisposeTimeout time.Duration

	PvP bool

	// ReplayDir - куда писать реплеи закрытых комнат (пусто - не писать)
	ReplayDir string
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:               uuid.NewString(),
		TickRate:           20,
		MaxClients:         8,
		DisposeTimeout:     5 * time.Second,
		DeadDisposeTimeout: 120 * time.Second,
	}
}

// TickInterval - логическая длительность одного тика в мс
func (c Config) TickInterval() int64 {
	if c.TickRate <= 0 {
		return 50
	}
	return int64(1000 / c.TickRate)
}
