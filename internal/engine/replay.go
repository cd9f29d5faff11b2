package engine

import (
	"encoding/json"
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
)

// PlayReplay восстанавливает комнату из записи: тот же сид, те же интенты
// на тех же тиках. Результат должен совпасть с живой комнатой на момент
// последнего действия.
func PlayReplay(session *domain.ReplaySession, cfg Config, metrics *Metrics) (*Room, error) {
	r := NewRoom(session.Room, session.Progress, session.Seed, cfg, metrics)

	for i, act := range session.Actions {
		if act.Tick < r.Tick {
			return nil, fmt.Errorf("replay action %d: tick %d is in the past (room at %d)", i, act.Tick, r.Tick)
		}
		for r.Tick < act.Tick {
			r.Update()
		}

		switch act.Action {
		case domain.ActionJoin:
			var hero domain.HeroSnapshot
			if err := json.Unmarshal(act.Payload, &hero); err != nil {
				return nil, fmt.Errorf("replay action %d: %w", i, err)
			}
			if _, err := r.Join(act.ClientID, &hero); err != nil {
				return nil, fmt.Errorf("replay action %d: join: %w", i, err)
			}
		case domain.ActionLeave:
			if _, err := r.Leave(act.ClientID, false); err != nil {
				return nil, fmt.Errorf("replay action %d: leave: %w", i, err)
			}
		default:
			// Отклоненный интент отклоняется и при повторе, это не ошибка
			_ = r.Dispatch(act.ClientID, act.Action, act.Payload)
		}
		// События при повторе никому не нужны
		r.Drain()
	}
	return r, nil
}
