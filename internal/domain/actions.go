package domain

import "strings"

// ActionType - внутренний идентификатор входящего интента
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionDistributePoint
	ActionInventoryDrag
	ActionInventorySell
	ActionUseItem
	ActionCast
	ActionDropItem
	ActionCheckpoint
	ActionMessage

	// Служебные записи реплея
	ActionJoin
	ActionLeave
)

// Маппинг ключей клиента -> Domain
var actionStringToCmd = map[string]ActionType{
	"move":             ActionMove,
	"distribute-point": ActionDistributePoint,
	"inventory-drag":   ActionInventoryDrag,
	"inventory-sell":   ActionInventorySell,
	"use-item":         ActionUseItem,
	"cast":             ActionCast,
	"drop-item":        ActionDropItem,
	"checkpoint":       ActionCheckpoint,
	"msg":              ActionMessage,
	"join":             ActionJoin,
	"leave":            ActionLeave,
}

var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for k, v := range actionStringToCmd {
		m[v] = k
	}
	return m
}()

// ParseAction конвертирует ключ сообщения в ActionType (без учета регистра)
func ParseAction(s string) ActionType {
	if val, ok := actionStringToCmd[strings.ToLower(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует Stringer
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "unknown"
}
