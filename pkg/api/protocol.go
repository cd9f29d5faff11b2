package api

import (
	"encoding/json"

	"github.com/h918m/mazmorra/internal/domain"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера
const (
	MessageJoined = "joined"
	MessageState  = "state"
	MessageGoto   = "goto"
	MessageSound  = "sound"
	MessageSend   = "send"
	MessageError  = "error"
)

// ServerMessage это корневой объект, который сервер отправляет клиенту.
// Набор заполненных полей зависит от Type.
type ServerMessage struct {
	// Type - joined, state, goto, sound, send, error
	Type string `json:"type"`

	// Tick логическое время комнаты
	Tick int64 `json:"tick,omitempty"`

	Room     string `json:"room,omitempty"`
	Progress int    `json:"progress,omitempty"`

	// MyEntityID ID сущности, которой управляет данный клиент.
	MyEntityID domain.EntityID `json:"myEntityId,omitempty"`

	// Grid - карта комнаты, отправляется один раз при входе
	Grid  *domain.Grid  `json:"grid,omitempty"`
	Rooms []domain.Rect `json:"rooms,omitempty"`

	// Entities - все сущности комнаты (state)
	Entities []EntityView `json:"entities,omitempty"`

	// Me - полное состояние своего героя: инвентари, очки (state)
	Me *PlayerView `json:"me,omitempty"`

	// Event - goto / sound / send
	Event *domain.OutboundEvent `json:"event,omitempty"`

	Error string `json:"error,omitempty"`
}

// EntityView это DTO для сущности, видимой всем в комнате.
type EntityView struct {
	ID       domain.EntityID   `json:"id"`
	Kind     domain.EntityKind `json:"kind"`
	Name     string            `json:"name"`
	Pos      domain.Position   `json:"pos"`
	Walkable bool              `json:"walkable,omitempty"`
	TTL      int64             `json:"ttl,omitempty"`

	Unit        *UnitView                    `json:"unit,omitempty"`
	Item        *domain.ItemComponent        `json:"item,omitempty"`
	Interactive *domain.InteractiveComponent `json:"interactive,omitempty"`
	Text        *domain.TextComponent        `json:"text,omitempty"`
}

// UnitView - полосы и состояние юнита
type UnitView struct {
	Lvl       int              `json:"lvl"`
	Direction domain.Direction `json:"direction"`
	HP        domain.Bar       `json:"hp"`
	MP        domain.Bar       `json:"mp"`
	IsAlive   bool             `json:"isAlive"`
	State     string           `json:"state"`
	TargetID  domain.EntityID  `json:"targetId,omitempty"`
	Boss      bool             `json:"boss,omitempty"`
}

// PlayerView - то, что видит только владелец героя
type PlayerView struct {
	XP                 domain.Bar               `json:"xp"`
	Attributes         domain.Attributes        `json:"attributes"`
	PointsToDistribute int                      `json:"pointsToDistribute"`
	Gold               int                      `json:"gold"`
	Diamond            int                      `json:"diamond"`
	Inventory          []ItemView               `json:"inventory"`
	QuickInventory     []ItemView               `json:"quickInventory"`
	Equipment          map[domain.Slot]ItemView `json:"equipedItems"`
	Stats              map[string]float64       `json:"stats"`
	Checkpoints        []int                    `json:"checkpoints"`
	Modifiers          domain.StatsModifiers    `json:"statsModifiers,omitempty"`
}

// ItemView - предмет в инвентаре (ID нужен для интентов)
type ItemView struct {
	ID domain.EntityID `json:"id"`
	*domain.ItemComponent
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action - ключ интента (move, use-item, ...)
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// MovePayload - клик по клетке: идти или атаковать того, кто там стоит
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistributePointPayload - потратить очко атрибута
type DistributePointPayload struct {
	Attribute string `json:"attribute"`
}

// InventoryDragPayload - перетаскивание между инвентарем, быстрым инвентарем и экипировкой
type InventoryDragPayload struct {
	FromType     domain.InventoryType `json:"fromType"`
	ToType       domain.InventoryType `json:"toType"`
	ItemID       domain.EntityID      `json:"itemId"`
	SwitchItemID domain.EntityID      `json:"switchItemId,omitempty"`
}

// InventorySellPayload - продажа предмета
type InventorySellPayload struct {
	FromType domain.InventoryType `json:"fromType"`
	ItemID   domain.EntityID      `json:"itemId"`
}

// ItemPayload используется для use-item и drop-item
type ItemPayload struct {
	InventoryType domain.InventoryType `json:"inventoryType"`
	ItemID        domain.EntityID      `json:"itemId"`
}

// CastPayload - свиток с целью
type CastPayload struct {
	InventoryType domain.InventoryType `json:"inventoryType"`
	ItemID        domain.EntityID      `json:"itemId"`
	Position      domain.Position      `json:"position"`
}

// CheckpointPayload - телепорт на открытый чекпоинт
type CheckpointPayload struct {
	Progress int `json:"progress"`
}

// MessagePayload - сообщение в чат комнаты
type MessagePayload struct {
	Text string `json:"text"`
}
