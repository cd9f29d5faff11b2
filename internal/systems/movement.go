package systems

import (
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// StepListener - реакция комнаты на шаги юнитов.
// BeforeStep может отменить шаг (ev.Cancel), AfterStep вызывается только для состоявшихся шагов.
type StepListener interface {
	BeforeStep(unit *domain.Entity, ev *domain.MoveEvent)
	AfterStep(unit *domain.Entity, ev *domain.MoveEvent)
}

// UpdateMovement продвигает юнита на одну клетку, если прошел интервал шага.
// Возвращает true, если юнит сменил клетку.
func UpdateMovement(w *domain.GameWorld, unit *domain.Entity, now int64, listener StepListener) bool {
	if unit.Unit == nil || !unit.IsAlive() {
		return false
	}
	mv := unit.Unit.Movement
	next, ok := mv.Next()
	if !ok || !mv.Ready(now, unit.Unit.MovementSpeed()) {
		return false
	}

	ev := &domain.MoveEvent{UnitID: unit.ID, From: unit.Pos, To: next, Destiny: mv.Destiny}

	// 1. Комната разбирается с содержимым клетки
	if listener != nil {
		listener.BeforeStep(unit, ev)
	}

	// 2. Клетку заняли после расчета пути
	if !ev.Cancelled() && occupied(w, unit.ID, next) {
		ev.Cancel()
	}

	if ev.Cancelled() {
		mv.Cancel()
		mv.Touch(now)
		return false
	}

	// 3. Шаг
	if err := w.MoveEntity(unit, next); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "movement_system",
			"entity_id": unit.ID,
			"to":        next,
		}).WithError(err).Warn("Step rejected by world")
		mv.Cancel()
		return false
	}
	unit.Unit.Direction = domain.DirectionBetween(ev.From, ev.To, unit.Unit.Direction)
	mv.Advance(now)

	if listener != nil {
		listener.AfterStep(unit, ev)
	}
	return true
}

// occupied - в клетке есть непроходимая сущность, кроме самого юнита
func occupied(w *domain.GameWorld, self domain.EntityID, p domain.Position) bool {
	return w.EntityAt(p.X, p.Y, domain.Blocking, func(e *domain.Entity) bool {
		return e.ID != self
	}) != nil
}
