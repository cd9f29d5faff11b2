package actions

import (
	"strings"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/pkg/api"
)

// HandleMessage - реплика над головой героя
func HandleMessage(ctx handlers.Context, p api.MessagePayload) (handlers.Result, error) {
	ctx.Room.AddText(ctx.Actor, strings.TrimSpace(p.Text), domain.TextChat)
	return handlers.EmptyResult(), nil
}
