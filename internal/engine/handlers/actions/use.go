package actions

import (
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/api"
)

// HandleUseItem применяет зелье или свиток портала
func HandleUseItem(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	// 1. Сначала все проверки: портал не должен открыться без расхода свитка
	item, err := systems.CheckUse(ctx.Actor, p.InventoryType, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if item.Item.Effect == domain.EffectPortal && !ctx.Room.OpenPortal(ctx.Actor) {
		return handlers.EmptyResult(), ErrPortalUnavailable
	}

	// 2. Расходуем предмет
	res, err := systems.TryUse(ctx.Actor, p.InventoryType, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	// 3. Всплывающий текст по эффекту
	switch res.Effect {
	case domain.EffectHP:
		ctx.Room.AddText(ctx.Actor, fmt.Sprintf("+%.0f", res.Amount), domain.TextHeal)
	case domain.EffectMP:
		ctx.Room.AddText(ctx.Actor, fmt.Sprintf("+%.0f", res.Amount), domain.TextMana)
	case domain.EffectXP:
		ctx.Room.AddText(ctx.Actor, fmt.Sprintf("+%.0f xp", res.Amount), domain.TextXP)
		if res.Levels > 0 {
			ctx.Room.AddText(ctx.Actor, "LVL UP!", domain.TextLevelUp)
			ctx.Room.Emit(domain.SoundEvent(domain.SoundLevelUp, ctx.Actor.ID, ""))
		}
	case domain.EffectPortal:
		return handlers.Result{
			Msg:   fmt.Sprintf("%s открыл портал", ctx.Actor.Name),
			Sound: domain.SoundCast,
		}, nil
	}

	return handlers.Result{Sound: domain.SoundPotion}, nil
}
