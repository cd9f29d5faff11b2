package actions

import (
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/api"
)

// HandleCast - свиток огня по клетке с живой целью в прямой видимости
func HandleCast(ctx handlers.Context, p api.CastPayload) (handlers.Result, error) {
	// 1. Цель должна существовать и быть допустимой
	target := ctx.World.EntityAt(p.Position.X, p.Position.Y, domain.AliveUnit)
	if target == nil || !systems.CanEngage(ctx.Actor, target, ctx.Room.PvP()) {
		return handlers.EmptyResult(), systems.ErrNeedsTarget
	}

	// 2. Стены мешают
	if !systems.HasLineOfSight(ctx.World.Grid, ctx.Actor.Pos, target.Pos) {
		return handlers.EmptyResult(), ErrNoLineOfSight
	}

	// 3. Расходуем свиток и бьем
	res, err := systems.TryCast(ctx.Actor, p.InventoryType, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Actor.Unit.Direction = domain.DirectionBetween(ctx.Actor.Pos, target.Pos, ctx.Actor.Unit.Direction)
	hits := ctx.Room.CastFire(ctx.Actor, target.Pos, res.Amount)

	return handlers.Result{
		Msg:   fmt.Sprintf("%s применил %s (целей: %d)", ctx.Actor.Name, res.Item.Name, hits),
		Sound: domain.SoundCast,
	}, nil
}
