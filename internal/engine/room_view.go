package engine

import (
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/api"
)

// JoinedMessage - первое сообщение клиенту: карта и его сущность
func (r *Room) JoinedMessage(clientID string) api.ServerMessage {
	msg := r.StateFor(clientID)
	msg.Type = api.MessageJoined
	msg.Grid = r.World.Grid
	msg.Rooms = r.World.Rooms
	return msg
}

// StateFor создает персональный слепок комнаты для клиента.
// Все видят всех, но инвентарь и очки - только владелец.
func (r *Room) StateFor(clientID string) api.ServerMessage {
	now := r.Now()
	msg := api.ServerMessage{
		Type:     api.MessageState,
		Tick:     r.Tick,
		Room:     r.Name,
		Progress: r.Progress,
	}

	entities := r.World.Entities()
	msg.Entities = make([]api.EntityView, 0, len(entities))
	for _, e := range entities {
		msg.Entities = append(msg.Entities, toEntityView(e, now))
	}

	if me := r.PlayerOf(clientID); me != nil {
		msg.MyEntityID = me.ID
		msg.Me = toPlayerView(me)
	}
	return msg
}

// toEntityView конвертирует доменную сущность в DTO
func toEntityView(e *domain.Entity, now int64) api.EntityView {
	view := api.EntityView{
		ID:          e.ID,
		Kind:        e.Kind,
		Name:        e.Name,
		Pos:         e.Pos,
		Walkable:    e.Walkable,
		TTL:         e.Remaining(now),
		Item:        e.Item,
		Interactive: e.Interactive,
		Text:        e.Text,
	}
	if u := e.Unit; u != nil {
		engaged := u.Action != nil && u.Action.Eligible
		view.Unit = &api.UnitView{
			Lvl:       u.Lvl,
			Direction: u.Direction,
			HP:        u.HP,
			MP:        u.MP,
			IsAlive:   u.IsAlive(),
			State:     u.Movement.State(engaged).String(),
			TargetID:  u.Movement.TargetID,
			Boss:      e.AI != nil && e.AI.IsBoss,
		}
	}
	return view
}

// toPlayerView - то, что видит только владелец героя
func toPlayerView(e *domain.Entity) *api.PlayerView {
	u, p := e.Unit, e.Player
	view := &api.PlayerView{
		XP:                 u.XP,
		Attributes:         u.Attributes,
		PointsToDistribute: u.PointsToDistribute,
		Gold:               p.Gold,
		Diamond:            p.Diamond,
		Inventory:          itemViews(p.Inventory),
		QuickInventory:     itemViews(p.QuickInventory),
		Equipment:          make(map[domain.Slot]api.ItemView, len(p.Equipment.Slots)),
		Checkpoints:        append([]int{}, p.Checkpoints...),
		Modifiers:          u.Modifiers,
		Stats: map[string]float64{
			"minDamage":      u.MinDamage(),
			"maxDamage":      u.MaxDamage(),
			"armor":          u.Armor(),
			"evasion":        u.EvasionChance(),
			"criticalChance": u.CriticalStrikeChance(),
			"attackDistance": u.AttackDistance(),
			"attackSpeed":    float64(u.AttackSpeed()),
			"movementSpeed":  float64(u.MovementSpeed()),
		},
	}
	for slot, it := range p.Equipment.Slots {
		view.Equipment[slot] = api.ItemView{ID: it.ID, ItemComponent: it.Item}
	}
	return view
}

func itemViews(inv *domain.Inventory) []api.ItemView {
	out := make([]api.ItemView, 0, len(inv.Items))
	for _, it := range inv.Items {
		out = append(out, api.ItemView{ID: it.ID, ItemComponent: it.Item})
	}
	return out
}
