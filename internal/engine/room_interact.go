package engine

import (
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/sirupsen/logrus"
)

// BeforeStep разбирается с содержимым клетки назначения до шага.
// Взаимодействие срабатывает только на последнем шаге к destiny.
func (r *Room) BeforeStep(unit *domain.Entity, ev *domain.MoveEvent) {
	if !ev.ArrivesAtDestiny() {
		return
	}
	for _, other := range r.World.AllEntitiesAt(ev.To.X, ev.To.Y) {
		if other.ID == unit.ID {
			continue
		}
		switch {
		case other.Interactive != nil:
			if unit.IsPlayer() {
				r.interact(unit, other)
			}
			if !other.Walkable {
				ev.Cancel()
			}
		case other.IsAlive():
			// Живой противник на клетке: стоим рядом
			ev.Cancel()
		case other.Kind == domain.KindItem && unit.IsPlayer():
			r.pickup(unit, other)
		}
	}
}

// AfterStep - погоня: цель ушла из точки назначения, пересчитываем путь
func (r *Room) AfterStep(unit *domain.Entity, ev *domain.MoveEvent) {
	mv := unit.Unit.Movement
	if mv.TargetID.IsNil() {
		return
	}
	target := r.World.GetEntity(mv.TargetID)
	if target == nil || target.Unit == nil || !target.IsAlive() {
		return
	}
	if target.Pos == mv.Destiny {
		return
	}
	r.Move(unit, target.Pos, false)
}

func (r *Room) pickup(player, item *domain.Entity) {
	if err := systems.TryPickup(player, item, r.World); err != nil {
		r.Emit(domain.SendEvent(player.Player.ClientID, map[string]any{"notice": err.Error()}))
		return
	}
	r.Emit(domain.SoundEvent(domain.SoundPickItem, domain.NilEntityID, player.Player.ClientID))
}

// interact - двери, сундуки, фонтаны, чекпоинты, порталы, NPC
func (r *Room) interact(player, obj *domain.Entity) {
	now := r.Now()
	clientID := player.Player.ClientID
	ic := obj.Interactive

	switch obj.Kind {
	case domain.KindDoor, domain.KindPortal:
		progress := r.doorTarget(player, ic.Progress)
		room := ic.Room
		if room == "" {
			room = dungeon.RoomFor(progress)
		}
		r.Emit(domain.SoundEvent(domain.SoundDoor, domain.NilEntityID, clientID))
		r.Emit(domain.GotoEvent(clientID, progress, room, false))

	case domain.KindChest:
		if ic.Open {
			return
		}
		ic.Open = true
		r.Emit(domain.SoundEvent(domain.SoundChest, obj.ID, ""))
		if pos, ok := r.freeSpot(obj.Pos); ok {
			r.AddEntity(dungeon.ItemEntity(dungeon.RandomItem(r.Rng, r.Progress), pos))
		}

	case domain.KindFountain:
		if !ic.Ready(now) {
			return
		}
		ic.LastUsed = now
		healed := player.Unit.Heal(player.Unit.HP.Max)
		player.Unit.MP.Fill()
		r.AddText(player, fmt.Sprintf("+%.0f", healed), domain.TextHeal)
		r.Emit(domain.SoundEvent(domain.SoundFountain, domain.NilEntityID, clientID))

	case domain.KindCheckpoint:
		if player.Player.AddCheckpoint(ic.Progress) {
			r.AddText(player, "checkpoint", domain.TextXP)
			r.Emit(domain.SendEvent(clientID, map[string]any{"checkpoint": ic.Progress}))
		}

	case domain.KindNPC:
		r.AddText(obj, ic.Dialog, domain.TextChat)
	}

	r.log.WithFields(logrus.Fields{
		"entity_id": player.ID,
		"object_id": obj.ID,
		"kind":      obj.Kind.String(),
	}).Debug("Interaction")
}

// doorTarget раскрывает специальные значения прогресса двери
func (r *Room) doorTarget(player *domain.Entity, progress int) int {
	switch progress {
	case domain.DoorForward:
		return r.Progress + 1
	case domain.DoorBack:
		return max(dungeon.LobbyProgress, r.Progress-1)
	case domain.DoorLatest:
		return max(player.Player.LatestProgress, dungeon.LobbyProgress+1)
	}
	return progress
}

// OpenPortal ставит рядом с игроком портал в замок. В замке порталы не открываются.
func (r *Room) OpenPortal(owner *domain.Entity) bool {
	if r.IsLobby() {
		return false
	}
	pos, ok := r.freeSpot(owner.Pos)
	if !ok {
		return false
	}
	r.AddEntity(&domain.Entity{
		Kind:     domain.KindPortal,
		Name:     "Портал",
		Pos:      pos,
		Walkable: true,
		TTL:      domain.PortalTTL,
		Interactive: &domain.InteractiveComponent{
			Progress: dungeon.LobbyProgress,
			Room:     dungeon.RoomLobby,
		},
	})
	return true
}

// PortalRemaining - сколько еще проживет самый долгий портал (мс)
func (r *Room) PortalRemaining() int64 {
	var left int64
	for _, e := range r.World.Entities() {
		if e.Kind == domain.KindPortal {
			left = max(left, e.Remaining(r.Now()))
		}
	}
	return left
}

// CastFire наносит урон огнем юниту в клетке. Возвращает число пораженных.
func (r *Room) CastFire(caster *domain.Entity, at domain.Position, power float64) int {
	target := r.World.EntityAt(at.X, at.Y, domain.AliveUnit)
	if target == nil {
		return 0
	}
	applied, died := target.Unit.TakeDamage(power, caster.ID)
	r.AddText(target, fmt.Sprintf("%.0f", applied), domain.TextCritical)
	if died {
		r.processDeath(target, r.Now())
	}
	return 1
}
