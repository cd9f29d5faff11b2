package actions

import (
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/dungeon"
)

// HandleCheckpoint отправляет игрока на открытый ранее чекпоинт
func HandleCheckpoint(ctx handlers.Context, p api.CheckpointPayload) (handlers.Result, error) {
	if !ctx.Actor.Player.HasCheckpoint(p.Progress) {
		return handlers.EmptyResult(), ErrUnknownCheckpoint
	}
	ctx.Room.Emit(domain.GotoEvent(ctx.Actor.Player.ClientID, p.Progress, dungeon.RoomFor(p.Progress), true))
	return handlers.Result{Sound: domain.SoundDoor}, nil
}
