package handlers

import (
	"encoding/json"
	"math/rand"

	"github.com/h918m/mazmorra/internal/domain"
)

// RoomActions - операции комнаты, доступные хендлерам.
// Комната реализует этот интерфейс; хендлеры не знают о ее устройстве.
type RoomActions interface {
	Move(unit *domain.Entity, destiny domain.Position, allowChangeTarget bool) bool
	Emit(ev domain.OutboundEvent)
	AddText(owner *domain.Entity, text, style string)
	OpenPortal(owner *domain.Entity) bool
	CastFire(caster *domain.Entity, at domain.Position, power float64) int
	PvP() bool
}

// Context передает хендлеру состояние мира.
// Мы передаем ссылки, чтобы хендлер мог менять состояние (мутировать данные).
type Context struct {
	World *domain.GameWorld
	Room  RoomActions
	Actor *domain.Entity // Игрок, приславший интент
	Now   int64
	Rng   *rand.Rand
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в лог комнаты напрямую, он возвращает данные.
type Result struct {
	Msg   string // Текст для лога комнаты
	Sound string // Звук для клиента-актора
}

// HandlerFunc - это контракт для любого интента (move, use-item, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
