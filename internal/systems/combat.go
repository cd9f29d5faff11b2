package systems

import (
	"math/rand"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HitResult - итог одного удара
type HitResult struct {
	AttackerID domain.EntityID
	DefenderID domain.EntityID
	Missed     bool
	Critical   bool
	Damage     float64
	Died       bool
}

// CanEngage - статическая часть правил: кто вообще может драться с кем
func CanEngage(attacker, defender *domain.Entity, pvp bool) bool {
	if attacker == nil || defender == nil || attacker.ID == defender.ID {
		return false
	}
	if attacker.Unit == nil || defender.Unit == nil {
		return false
	}
	if !attacker.IsAlive() || !defender.IsAlive() || defender.Unit.Invulnerable {
		return false
	}
	// ИИ не нападает на своих
	if attacker.Has(domain.CapAI) && defender.Has(domain.CapAI) {
		return false
	}
	if attacker.IsPlayer() && defender.IsPlayer() && !pvp {
		return false
	}
	return true
}

// IsEligible - можно ли наносить удары прямо сейчас (правила + дистанция)
func IsEligible(attacker, defender *domain.Entity, pvp bool) bool {
	if !CanEngage(attacker, defender, pvp) {
		return false
	}
	return attacker.Pos.DistanceTo(defender.Pos) <= attacker.Unit.AttackDistance()
}

// ResolveHit: уклонение, крит, урон минус броня, TakeDamage
func ResolveHit(rng *rand.Rand, attacker, defender *domain.Entity) HitResult {
	res := HitResult{AttackerID: attacker.ID, DefenderID: defender.ID}
	a, d := attacker.Unit, defender.Unit

	if rng.Float64() < d.EvasionChance() {
		res.Missed = true
		return res
	}

	damage := a.RollDamage(rng)
	if rng.Float64() < a.CriticalStrikeChance() {
		res.Critical = true
		damage *= a.CriticalBonus
	}
	damage = max(0, damage-d.Armor())

	res.Damage, res.Died = d.TakeDamage(damage, attacker.ID)
	return res
}

// UpdateBattle продвигает боевое действие атакующего.
// Возвращает результат удара, если он состоялся в этот тик.
func UpdateBattle(w *domain.GameWorld, attacker *domain.Entity, now int64, rng *rand.Rand, pvp bool) *HitResult {
	action := attacker.Unit.Action
	if action == nil {
		return nil
	}

	defender := w.GetEntity(action.DefenderID)
	if !domain.Invariant(defender != nil, "battle action references missing entity", logrus.Fields{
		"attacker_id": attacker.ID,
		"defender_id": action.DefenderID,
	}) {
		attacker.Unit.Action = nil
		return nil
	}

	if !attacker.IsAlive() || !defender.IsAlive() {
		attacker.Unit.Action = nil
		return nil
	}

	action.Eligible = IsEligible(attacker, defender, pvp)
	if !action.Eligible {
		return nil
	}

	attacker.Unit.Direction = domain.DirectionBetween(attacker.Pos, defender.Pos, attacker.Unit.Direction)
	if !action.HitReady(now, attacker.Unit.AttackSpeed()) {
		return nil
	}
	action.LastHit = now

	res := ResolveHit(rng, attacker, defender)
	logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attacker.ID,
		"defender_id": defender.ID,
		"damage":      res.Damage,
		"missed":      res.Missed,
		"critical":    res.Critical,
		"hp_after":    defender.Unit.HP.Current,
		"died":        res.Died,
	}).Debug("Hit resolved")
	return &res
}

// Engage создает или сбрасывает боевое действие.
// Повторная атака той же цели ничего не меняет.
func Engage(attacker, defender *domain.Entity) {
	if attacker.Unit == nil {
		return
	}
	if defender == nil || defender.Unit == nil || !defender.IsAlive() {
		attacker.Unit.Action = nil
		return
	}
	if attacker.Unit.Action.Against(defender.ID) {
		return
	}
	attacker.Unit.Action = domain.NewBattleAction(attacker.ID, defender.ID)
}

// Disengage снимает действия, направленные на юнита, и его собственное.
// Возвращает тех, кто был вынужден прекратить бой.
func Disengage(w *domain.GameWorld, target *domain.Entity) []*domain.Entity {
	var released []*domain.Entity
	if target.Unit != nil {
		target.Unit.Action = nil
	}
	for _, e := range w.Entities() {
		if e.Unit == nil || e.ID == target.ID {
			continue
		}
		if e.Unit.Action.Against(target.ID) {
			e.Unit.Action = nil
			released = append(released, e)
		}
		if e.Unit.Movement.TargetID == target.ID {
			e.Unit.Movement.Stop()
		}
	}
	return released
}
