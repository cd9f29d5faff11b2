package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/h918m/mazmorra/pkg/api"
)

// ErrActorUnavailable - актор мертв или это не игрок
var ErrActorUnavailable = errors.New("actor cannot act")

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя Unmarshal, Validate и проверку актора.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		// 1. Распаковка JSON
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("invalid payload format: %w", err)
		}

		// 2. Автоматическая валидация
		// Проверяем, реализует ли структура T интерфейс Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		// 3. Мертвые не действуют
		if ctx.Actor == nil || ctx.Actor.Player == nil || !ctx.Actor.IsAlive() {
			return Result{}, ErrActorUnavailable
		}

		// 4. Вызов чистой логики
		return handler(ctx, payload)
	}
}
