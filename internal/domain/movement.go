package domain

// MovementState - состояние контроллера движения
type MovementState uint8

const (
	MovementIdle MovementState = iota
	MovementFollowingPath
	MovementEngaged
)

func (s MovementState) String() string {
	switch s {
	case MovementFollowingPath:
		return "following-path"
	case MovementEngaged:
		return "engaged"
	}
	return "idle"
}

// Movement - очередь шагов юнита и его цель.
// TargetID - слабая ссылка: сущность ищется через реестр, указатель не хранится.
type Movement struct {
	Pending    []Position `json:"pending"`
	TargetID   EntityID   `json:"targetId"`
	Destiny    Position   `json:"destiny"`
	HasDestiny bool       `json:"hasDestiny"`
	LastStep   int64      `json:"lastStep"`
}

// MoveTo заменяет очередь новым путем
func (m *Movement) MoveTo(path []Position, destiny Position) {
	m.Pending = append(m.Pending[:0:0], path...)
	m.Destiny = destiny
	m.HasDestiny = len(path) > 0
}

// IsFollowing - есть ли куда идти
func (m *Movement) IsFollowing() bool {
	return len(m.Pending) > 0
}

// SameDestiny - повторный запрос в ту же точку во время движения
func (m *Movement) SameDestiny(p Position) bool {
	return m.IsFollowing() && m.HasDestiny && m.Destiny == p
}

// Ready - прошел ли интервал с последнего шага
func (m *Movement) Ready(now, interval int64) bool {
	return now-m.LastStep >= interval
}

// Next - следующая клетка пути
func (m *Movement) Next() (Position, bool) {
	if len(m.Pending) == 0 {
		return Position{}, false
	}
	return m.Pending[0], true
}

// Advance снимает первую клетку из очереди
func (m *Movement) Advance(now int64) {
	if len(m.Pending) > 0 {
		m.Pending = m.Pending[1:]
	}
	m.LastStep = now
	if len(m.Pending) == 0 {
		m.HasDestiny = false
	}
}

// Touch обновляет таймер шага, не двигаясь (юнит в бою)
func (m *Movement) Touch(now int64) {
	m.LastStep = now
}

// Cancel останавливает юнита на текущей клетке. Цель сохраняется.
func (m *Movement) Cancel() {
	m.Pending = nil
	m.HasDestiny = false
}

// Stop - полная остановка со сбросом цели
func (m *Movement) Stop() {
	m.Cancel()
	m.TargetID = NilEntityID
}

// State вычисляет состояние; engaged передается снаружи (из боевого действия)
func (m *Movement) State(engaged bool) MovementState {
	switch {
	case engaged:
		return MovementEngaged
	case m.IsFollowing():
		return MovementFollowingPath
	}
	return MovementIdle
}

// MoveEvent - один шаг юнита. Потребители могут отменить шаг.
type MoveEvent struct {
	UnitID    EntityID
	From      Position
	To        Position
	Destiny   Position
	cancelled bool
}

func (e *MoveEvent) Cancel() {
	e.cancelled = true
}

func (e *MoveEvent) Cancelled() bool {
	return e.cancelled
}

// ArrivesAtDestiny - шаг ведет в точку назначения
func (e *MoveEvent) ArrivesAtDestiny() bool {
	return e.To == e.Destiny
}
