package domain

import "encoding/json"

// ReplayAction - одно внешнее воздействие на комнату
type ReplayAction struct {
	Tick     int64           `json:"tick"`
	ClientID string          `json:"clientId"`
	Action   ActionType      `json:"action"`
	Payload  json.RawMessage `json:"payload"`
}

// ReplaySession - полная запись жизни комнаты: сид + ленту интентов.
// Комната с тем же сидом и той же лентой приходит в то же состояние.
type ReplaySession struct {
	Room      string         `json:"room"`
	Progress  int            `json:"progress"`
	Seed      string         `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Actions   []ReplayAction `json:"actions"`
}

// Record добавляет действие в ленту
func (s *ReplaySession) Record(tick int64, clientID string, action ActionType, payload json.RawMessage) {
	s.Actions = append(s.Actions, ReplayAction{
		Tick:     tick,
		ClientID: clientID,
		Action:   action,
		Payload:  append(json.RawMessage(nil), payload...),
	})
}
