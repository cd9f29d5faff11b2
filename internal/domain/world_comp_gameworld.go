package domain

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var ErrOutOfBounds = errors.New("out of bounds")

func (w *GameWorld) GetIndex(x, y int) int {
	return y*w.Grid.Width + x
}

// NextID выдает следующий ID для сущности данного типа
func (w *GameWorld) NextID(kind EntityKind) EntityID {
	w.nextIndex++
	return PackEntityID(kind, w.Progress, w.nextIndex)
}

// GetEntity ищет сущность по ID
func (w *GameWorld) GetEntity(id EntityID) *Entity {
	if id.IsNil() {
		return nil
	}
	return w.EntityRegistry[id]
}

// Count - количество сущностей в реестре
func (w *GameWorld) Count() int {
	return len(w.order)
}

// Entities - снимок реестра в порядке добавления.
// Безопасно мутировать реестр во время обхода снимка.
func (w *GameWorld) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.EntityRegistry[id])
	}
	return out
}

// AddEntity регистрирует сущность и кладет ее в индекс одной операцией.
// Если ID пустой - выдается новый. Дубликат ID - нарушение инварианта.
func (w *GameWorld) AddEntity(e *Entity) bool {
	if e.ID.IsNil() {
		e.ID = w.NextID(e.Kind)
	}
	if _, exists := w.EntityRegistry[e.ID]; exists {
		Invariant(false, "duplicate entity id in registry", logrus.Fields{"entity_id": e.ID})
		return false
	}
	if !w.Grid.InBounds(e.Pos.X, e.Pos.Y) {
		Invariant(false, "entity placed out of bounds", logrus.Fields{"entity_id": e.ID, "pos": e.Pos})
		return false
	}

	w.EntityRegistry[e.ID] = e
	w.order = append(w.order, e.ID)
	idx := w.GetIndex(e.Pos.X, e.Pos.Y)
	w.SpatialHash[idx] = append(w.SpatialHash[idx], e.ID)
	return true
}

// RemoveEntity удаляет сущность из реестра и индекса
func (w *GameWorld) RemoveEntity(id EntityID) *Entity {
	e, ok := w.EntityRegistry[id]
	if !ok {
		return nil
	}
	w.unindex(e)
	delete(w.EntityRegistry, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return e
}

func (w *GameWorld) unindex(e *Entity) {
	idx := w.GetIndex(e.Pos.X, e.Pos.Y)
	ids := w.SpatialHash[idx]
	for i, other := range ids {
		if other == e.ID {
			// Swap with last: порядок внутри клетки не важен
			last := len(ids) - 1
			ids[i] = ids[last]
			ids = ids[:last]
			break
		}
	}
	if len(ids) == 0 {
		delete(w.SpatialHash, idx)
	} else {
		w.SpatialHash[idx] = ids
	}
}

// MoveEntity перемещает сущность в индексе
func (w *GameWorld) MoveEntity(e *Entity, to Position) error {
	// 1. Проверка границ
	if !w.Grid.InBounds(to.X, to.Y) {
		return ErrOutOfBounds
	}

	// 2. Удаляем из старой клетки
	w.unindex(e)

	// 3. Обновляем координаты
	e.Pos = to

	// 4. Добавляем в новую клетку
	idx := w.GetIndex(to.X, to.Y)
	w.SpatialHash[idx] = append(w.SpatialHash[idx], e.ID)
	return nil
}

// AllEntitiesAt возвращает все сущности в клетке в порядке появления
func (w *GameWorld) AllEntitiesAt(x, y int) []*Entity {
	if !w.Grid.InBounds(x, y) {
		return nil
	}
	ids := w.SpatialHash[w.GetIndex(x, y)]
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e := w.EntityRegistry[id]; e != nil {
			out = append(out, e)
		}
	}
	sortByID(out)
	return out
}

// EntityAt - первая сущность в клетке, прошедшая все фильтры
func (w *GameWorld) EntityAt(x, y int, filters ...EntityFilter) *Entity {
	for _, e := range w.AllEntitiesAt(x, y) {
		if matches(e, filters) {
			return e
		}
	}
	return nil
}

func matches(e *Entity, filters []EntityFilter) bool {
	for _, f := range filters {
		if f != nil && !f(e) {
			return false
		}
	}
	return true
}

// sortByID - вставками по порядковому индексу, в клетке обычно 1-3 сущности
func sortByID(es []*Entity) {
	for i := 1; i < len(es); i++ {
		for j := i; j > 0 && es[j].ID.Index() < es[j-1].ID.Index(); j-- {
			es[j], es[j-1] = es[j-1], es[j]
		}
	}
}

// WalkabilityMask строит маску проходимости для одного запроса пути:
// статичный пол, минус клетки с непроходимыми сущностями.
// Сущность except (цель движения) клетку не блокирует.
func (w *GameWorld) WalkabilityMask(except ...EntityID) []bool {
	mask := make([]bool, len(w.Grid.Cells))
	for i, c := range w.Grid.Cells {
		mask[i] = c.Has(TileFloor)
	}
	for _, id := range w.order {
		e := w.EntityRegistry[id]
		if e.Walkable || containsID(except, id) {
			continue
		}
		mask[w.GetIndex(e.Pos.X, e.Pos.Y)] = false
	}
	return mask
}

func containsID(ids []EntityID, id EntityID) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}

// IsFreeFloor - пол без непроходимых сущностей
func (w *GameWorld) IsFreeFloor(p Position) bool {
	return w.Grid.IsFloor(p.X, p.Y) && w.EntityAt(p.X, p.Y, Blocking) == nil
}
