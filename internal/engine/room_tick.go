package engine

import (
	"fmt"
	"time"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/sirupsen/logrus"
)

// Update - один тик комнаты. Без игроков мир стоит, идет только счетчик.
func (r *Room) Update() {
	r.Tick++
	if len(r.players) == 0 {
		return
	}
	started := time.Now()
	now := r.Now()
	players := r.Players()

	// Снимок: сущности, добавленные в этом тике, начнут жить со следующего
	for _, e := range r.World.Entities() {
		if r.World.GetEntity(e.ID) != e {
			continue // удалена раньше в этом же тике
		}
		if e.Expired(now) {
			r.RemoveEntity(e.ID)
			continue
		}
		if e.Unit != nil {
			r.updateUnit(e, now, players)
		}
	}

	r.syncEntityGauge()
	r.metrics.TickDuration.Observe(time.Since(started).Seconds())
}

func (r *Room) updateUnit(e *domain.Entity, now int64, players []*domain.Entity) {
	u := e.Unit
	if !e.IsAlive() {
		return
	}

	// 1. Регенерация
	if u.Regenerate(now) {
		r.AddText(e, fmt.Sprintf("+%.0f", u.HPRegeneration), domain.TextHeal)
	}

	// 2. Бой
	if u.Action != nil {
		if hit := systems.UpdateBattle(r.World, e, now, r.Rng, r.pvp); hit != nil {
			r.onHit(hit, now)
		}
	}

	// 3. Движение: в бою стоим на месте, но часы шага идут
	if u.Action != nil && u.Action.Eligible {
		u.Movement.Touch(now)
	} else {
		systems.UpdateMovement(r.World, e, now, r)
	}

	// 4. ИИ
	if e.AI != nil && e.IsAlive() {
		if target := systems.ChooseEnemyTarget(e, players, now); target != nil {
			r.Move(e, target.Pos, true)
		}
	}
}

// onHit - последствия удара: текст урона и, возможно, смерть
func (r *Room) onHit(hit *systems.HitResult, now int64) {
	defender := r.World.GetEntity(hit.DefenderID)
	if defender == nil {
		return
	}
	switch {
	case hit.Missed:
		r.AddText(defender, "miss", domain.TextMiss)
	case hit.Critical:
		r.AddText(defender, fmt.Sprintf("%.0f!", hit.Damage), domain.TextCritical)
	default:
		r.AddText(defender, fmt.Sprintf("%.0f", hit.Damage), domain.TextDamage)
	}
	if hit.Died {
		r.processDeath(defender, now)
	}
}

// processDeath обрабатывает смерть ровно один раз: опыт, добыча, призванные, труп
func (r *Room) processDeath(dead *domain.Entity, now int64) {
	u := dead.Unit
	if u == nil || u.DeathProcessed {
		return
	}
	u.DeathProcessed = true
	u.DiedAt = now

	// 1. Труп не мешает ходить и ни с кем не дерется
	dead.Walkable = true
	u.Movement.Stop()
	systems.Disengage(r.World, dead)
	r.Emit(domain.SoundEvent(domain.SoundDie, dead.ID, ""))

	// 2. Опыт всем, кто бил
	for _, award := range systems.DistributeXP(r.World, dead) {
		r.AddText(award.Unit, fmt.Sprintf("+%.0f xp", award.Amount), domain.TextXP)
		if award.Levels > 0 {
			r.AddText(award.Unit, "LVL UP!", domain.TextLevelUp)
			r.Emit(domain.SoundEvent(domain.SoundLevelUp, award.Unit.ID, ""))
		}
	}

	// 3. Тип-специфичное
	switch dead.Kind {
	case domain.KindEnemy:
		r.dropLoot(dead)
		r.spawnChildren(dead)
		dead.CreatedAt = now
		dead.TTL = domain.CorpseTTL
	case domain.KindPlayer:
		r.Emit(domain.SendEvent(dead.Player.ClientID, map[string]any{"event": "died"}))
	}

	r.log.WithFields(logrus.Fields{
		"entity_id":    dead.ID,
		"kind":         dead.Kind.String(),
		"contributors": len(u.DamageTakenFrom),
	}).Info("Unit died")
}

func (r *Room) dropLoot(dead *domain.Entity) {
	boss := dead.AI != nil && dead.AI.IsBoss
	item := dungeon.RollLoot(r.Rng, r.Progress, boss)
	if item == nil {
		return
	}
	r.AddEntity(dungeon.ItemEntity(item, dead.Pos))
}

// spawnChildren - призванные при смерти (паук-мать и т.п.)
func (r *Room) spawnChildren(dead *domain.Entity) {
	if dead.AI == nil || dead.AI.Spawner == nil {
		return
	}
	cfg := dead.AI.Spawner
	tmpl, ok := dungeon.EnemyTemplates[cfg.Type]
	if !ok {
		return
	}
	for i := 0; i < cfg.Count; i++ {
		pos, ok := r.freeSpot(dead.Pos)
		if !ok {
			return
		}
		child := tmpl.SpawnEnemy(cfg.Type, pos, cfg.Lvl)
		child.Unit.GivesXP = cfg.GiveXP
		child.AI.Wait(r.Now())
		r.AddEntity(child)
	}
}

// syncEntityGauge переносит изменение числа сущностей в общую метрику
func (r *Room) syncEntityGauge() {
	count := r.World.Count()
	r.metrics.Entities.Add(float64(count - r.counted))
	r.counted = count
}

// Close снимает вклад комнаты из метрик
func (r *Room) Close() {
	r.metrics.Entities.Sub(float64(r.counted))
	r.metrics.Players.Sub(float64(len(r.players)))
	r.counted = 0
}
