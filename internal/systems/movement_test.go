package systems

import (
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	before []domain.MoveEvent
	after  []domain.MoveEvent
	cancel bool
}

func (l *recordingListener) BeforeStep(_ *domain.Entity, ev *domain.MoveEvent) {
	if l.cancel {
		ev.Cancel()
	}
	l.before = append(l.before, *ev)
}

func (l *recordingListener) AfterStep(_ *domain.Entity, ev *domain.MoveEvent) {
	l.after = append(l.after, *ev)
}

func TestUpdateMovement_OneTilePerInterval(t *testing.T) {
	w := openWorld(10, 10)
	u := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	interval := u.Unit.MovementSpeed()
	require.Equal(t, int64(1200), interval)

	dest := pos(2, 5)
	u.Unit.Movement.MoveTo(PathInWorld(w, u.Pos, dest), dest)
	l := &recordingListener{}

	assert.False(t, UpdateMovement(w, u, interval-1, l), "рано")
	assert.True(t, UpdateMovement(w, u, interval, l))
	assert.Equal(t, pos(2, 3), u.Pos)
	assert.False(t, UpdateMovement(w, u, interval+10, l), "интервал еще не прошел")
	assert.True(t, UpdateMovement(w, u, 2*interval, l))
	assert.True(t, UpdateMovement(w, u, 3*interval, l))
	assert.Equal(t, dest, u.Pos)
	assert.False(t, UpdateMovement(w, u, 10*interval, l), "путь закончился")

	require.Len(t, l.after, 3)
	assert.Equal(t, pos(2, 2), l.after[0].From)
	assert.True(t, l.after[2].ArrivesAtDestiny())
	assert.Equal(t, domain.DirectionBottom, u.Unit.Direction)
	assert.Equal(t, domain.MovementIdle, u.Unit.Movement.State(false))

	// индекс следует за юнитом
	assert.Equal(t, u, w.EntityAt(2, 5))
	assert.Nil(t, w.EntityAt(2, 2))
}

func TestUpdateMovement_OccupiedTileCancelsStepButKeepsTarget(t *testing.T) {
	w := openWorld(10, 10)
	u := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	target := spawnUnit(w, domain.KindEnemy, 6, 6, 1, domain.Attributes{Strength: 5})

	dest := pos(2, 5)
	u.Unit.Movement.MoveTo(PathInWorld(w, u.Pos, dest), dest)
	u.Unit.Movement.TargetID = target.ID

	// клетку заняли после расчета пути
	spawnUnit(w, domain.KindEnemy, 2, 3, 1, domain.Attributes{Strength: 5})

	assert.False(t, UpdateMovement(w, u, 5000, nil))
	assert.Equal(t, pos(2, 2), u.Pos)
	assert.False(t, u.Unit.Movement.IsFollowing())
	assert.Equal(t, target.ID, u.Unit.Movement.TargetID)
}

func TestUpdateMovement_ListenerCanCancel(t *testing.T) {
	w := openWorld(10, 10)
	u := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	u.Unit.Movement.MoveTo([]domain.Position{pos(3, 2)}, pos(3, 2))

	l := &recordingListener{cancel: true}
	assert.False(t, UpdateMovement(w, u, 5000, l))
	assert.Len(t, l.before, 1)
	assert.Empty(t, l.after)
	assert.Equal(t, pos(2, 2), u.Pos)
	assert.Equal(t, int64(5000), u.Unit.Movement.LastStep)
}

func TestUpdateMovement_DeadUnitStays(t *testing.T) {
	w := openWorld(10, 10)
	u := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	u.Unit.Movement.MoveTo([]domain.Position{pos(3, 2)}, pos(3, 2))
	u.Unit.HP.Set(0)

	assert.False(t, UpdateMovement(w, u, 5000, nil))
	assert.Equal(t, pos(2, 2), u.Pos)
}

func TestUpdateMovement_TouchDelaysNextStep(t *testing.T) {
	w := openWorld(10, 10)
	u := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	u.Unit.Movement.MoveTo([]domain.Position{pos(3, 2)}, pos(3, 2))

	u.Unit.Movement.Touch(4000)
	assert.False(t, UpdateMovement(w, u, 4500, nil), "после боя отсчет начинается заново")
	assert.True(t, UpdateMovement(w, u, 5200, nil))
}
