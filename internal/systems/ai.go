package systems

import (
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ChooseEnemyTarget решает, за кем гнаться врагу.
// Решение принимается не чаще AIUpdateInterval и только если враг не занят боем.
// players - игроки в порядке входа в комнату.
func ChooseEnemyTarget(enemy *domain.Entity, players []*domain.Entity, now int64) *domain.Entity {
	if enemy.AI == nil || enemy.Unit == nil || !enemy.IsAlive() {
		return nil
	}
	if a := enemy.Unit.Action; a != nil && a.Eligible {
		return nil
	}
	if !enemy.AI.IsReady(now) {
		return nil
	}
	enemy.AI.Wait(now)

	for _, p := range players {
		if !p.IsAlive() {
			continue
		}
		dist := enemy.Pos.DistanceTo(p.Pos)
		if dist > enemy.AI.Distance {
			continue
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "ai_system",
			"enemy_id":  enemy.ID,
			"target_id": p.ID,
			"distance":  dist,
		}).Debug("Enemy picked target")
		return p
	}
	return nil
}
