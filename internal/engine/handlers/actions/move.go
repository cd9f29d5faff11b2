package actions

import (
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/pkg/api"
)

// HandleMove - клик по клетке. Если там кто-то живой, комната решит, атаковать ли его.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	if !ctx.World.Grid.InBounds(p.X, p.Y) {
		return handlers.EmptyResult(), nil
	}
	ctx.Room.Move(ctx.Actor, domain.Position{X: p.X, Y: p.Y}, true)
	return handlers.EmptyResult(), nil
}
