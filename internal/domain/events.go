package domain

import "strings"

// EventType - тип исходящего события для сессионного слоя
type EventType uint8

const (
	EventUnknown EventType = iota
	EventGoto
	EventSound
	EventSend
)

var eventStringToType = map[string]EventType{
	"goto":  EventGoto,
	"sound": EventSound,
	"send":  EventSend,
}

var eventTypeToString = map[EventType]string{
	EventGoto:  "goto",
	EventSound: "sound",
	EventSend:  "send",
}

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	if val, ok := eventStringToType[strings.ToLower(s)]; ok {
		return val
	}
	return EventUnknown
}

func (t EventType) String() string {
	if val, ok := eventTypeToString[t]; ok {
		return val
	}
	return "unknown"
}

// OutboundEvent - событие ядра. Копится в очереди комнаты и вычитывается
// раз в тик в порядке появления.
type OutboundEvent struct {
	Type EventType `json:"type"`

	// Кому доставить. Пусто - всем в комнате.
	ClientID string `json:"-"`

	// goto
	Progress     int    `json:"progress,omitempty"`
	Room         string `json:"room,omitempty"`
	IsCheckPoint bool   `json:"isCheckPoint,omitempty"`

	// sound
	Name   string   `json:"name,omitempty"`
	UnitID EntityID `json:"unitId,omitempty"`

	// send
	Payload any `json:"payload,omitempty"`
}

// GotoEvent - переход игрока в другую комнату
func GotoEvent(clientID string, progress int, room string, checkpoint bool) OutboundEvent {
	return OutboundEvent{Type: EventGoto, ClientID: clientID, Progress: progress, Room: room, IsCheckPoint: checkpoint}
}

// SoundEvent - звук; unit опционален (NilEntityID - звук всей комнате)
func SoundEvent(name string, unit EntityID, clientID string) OutboundEvent {
	return OutboundEvent{Type: EventSound, Name: name, UnitID: unit, ClientID: clientID}
}

// SendEvent - произвольные данные напрямую клиенту
func SendEvent(clientID string, payload any) OutboundEvent {
	return OutboundEvent{Type: EventSend, ClientID: clientID, Payload: payload}
}

// Имена звуков
const (
	SoundPotion   = "potion"
	SoundPickItem = "pickItem"
	SoundLevelUp  = "levelUp"
	SoundDie      = "die"
	SoundDoor     = "door"
	SoundChest    = "chest"
	SoundFountain = "fountain"
	SoundSell     = "sell"
	SoundEquip    = "equip"
	SoundCast     = "cast"
)
