package actions

import (
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/pkg/api"
)

// HandleDistributePoint тратит одно свободное очко на атрибут
func HandleDistributePoint(ctx handlers.Context, p api.DistributePointPayload) (handlers.Result, error) {
	attr, _ := domain.ParseAttribute(p.Attribute)
	if !ctx.Actor.Unit.DistributePoint(attr) {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{
		Msg: fmt.Sprintf("%s: +1 %s", ctx.Actor.Name, attr),
	}, nil
}
