package actions

import (
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/api"
)

// HandleInventoryDrag перекладывает предмет между контейнерами
func HandleInventoryDrag(ctx handlers.Context, p api.InventoryDragPayload) (handlers.Result, error) {
	changed, err := systems.TryDrag(ctx.Actor, p.FromType, p.ToType, p.ItemID, p.SwitchItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if !changed {
		return handlers.EmptyResult(), nil
	}

	refreshEquipment(ctx.Actor)
	return handlers.Result{Sound: domain.SoundEquip}, nil
}

// HandleInventorySell продает предмет за золото
func HandleInventorySell(ctx handlers.Context, p api.InventorySellPayload) (handlers.Result, error) {
	gold, err := systems.TrySell(ctx.Actor, p.FromType, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if p.FromType == domain.InventoryEquip {
		refreshEquipment(ctx.Actor)
	}
	return handlers.Result{
		Msg:   fmt.Sprintf("%s продал предмет за %d золота", ctx.Actor.Name, gold),
		Sound: domain.SoundSell,
	}, nil
}

// HandleDropItem выбрасывает предмет под ноги
func HandleDropItem(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	fromEquipment, err := systems.TryDrop(ctx.Actor, p.InventoryType, p.ItemID, ctx.World)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if fromEquipment {
		refreshEquipment(ctx.Actor)
	}
	return handlers.EmptyResult(), nil
}

// refreshEquipment пересобирает кэш модификаторов после смены экипировки
func refreshEquipment(actor *domain.Entity) {
	actor.Unit.RecalculateStatsModifiers(actor.Player.Equipment.Items())
}
