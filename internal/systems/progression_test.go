package systems

import (
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Жертва ценой 40 опыта: сумма атрибутов 10, уровень 4
func worth40(w *domain.GameWorld) *domain.Entity {
	e := spawnUnit(w, domain.KindEnemy, 5, 5, 4, domain.Attributes{Strength: 4, Agility: 3, Intelligence: 3})
	return e
}

func TestDistributeXP_SplitByLevel(t *testing.T) {
	w := openWorld(10, 10)
	dead := worth40(w)
	require.Equal(t, 40.0, dead.Unit.XPWorth())

	low := spawnUnit(w, domain.KindPlayer, 2, 2, 5, domain.Attributes{Strength: 5})
	high := spawnUnit(w, domain.KindPlayer, 3, 3, 10, domain.Attributes{Strength: 5})
	dead.Unit.AddContributor(low.ID)
	dead.Unit.AddContributor(high.ID)

	awards := DistributeXP(w, dead)
	require.Len(t, awards, 2)
	assert.Equal(t, 4.0, awards[0].Amount)
	assert.Equal(t, 2.0, awards[1].Amount)
	assert.Equal(t, 4.0, low.Unit.XP.Current)
	assert.Equal(t, 2.0, high.Unit.XP.Current)
	assert.Equal(t, 0, awards[0].Levels)
}

func TestDistributeXP_SkipsAbsentContributors(t *testing.T) {
	w := openWorld(10, 10)
	dead := worth40(w)
	stays := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	leaves := spawnUnit(w, domain.KindPlayer, 3, 3, 1, domain.Attributes{Strength: 5})
	dead.Unit.AddContributor(stays.ID)
	dead.Unit.AddContributor(leaves.ID)
	w.RemoveEntity(leaves.ID)

	awards := DistributeXP(w, dead)
	require.Len(t, awards, 1)
	assert.Equal(t, 20.0, awards[0].Amount, "доля считается на всех участников")
}

func TestDistributeXP_SkipsDeadContributors(t *testing.T) {
	w := openWorld(10, 10)
	dead := worth40(w)
	alive := spawnUnit(w, domain.KindPlayer, 2, 2, 2, domain.Attributes{Strength: 5})
	fallen := spawnUnit(w, domain.KindPlayer, 3, 3, 1, domain.Attributes{Strength: 5})
	dead.Unit.AddContributor(alive.ID)
	dead.Unit.AddContributor(fallen.ID)
	fallen.Unit.HP.Set(0)

	awards := DistributeXP(w, dead)
	require.Len(t, awards, 1)
	assert.Same(t, alive, awards[0].Unit)
	assert.Equal(t, 10.0, awards[0].Amount, "доля 20 делится на уровень 2")
	assert.Equal(t, 10.0, alive.Unit.XP.Current)
	assert.Equal(t, 0.0, fallen.Unit.XP.Current, "мертвый опыта не получает")
}

func TestDistributeXP_LevelUp(t *testing.T) {
	w := openWorld(10, 10)
	dead := spawnUnit(w, domain.KindEnemy, 5, 5, 10, domain.Attributes{Strength: 10, Agility: 5, Intelligence: 5})
	killer := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	killer.Unit.HP.Set(1)
	dead.Unit.AddContributor(killer.ID)

	// 200 опыта на 1 уровне: 50 + 100 - два порога, остаток 50
	awards := DistributeXP(w, dead)
	require.Len(t, awards, 1)
	assert.Equal(t, 2, awards[0].Levels)
	assert.Equal(t, 3, killer.Unit.Lvl)
	assert.Equal(t, 4, killer.Unit.PointsToDistribute)
	assert.Equal(t, 50.0, killer.Unit.XP.Current)
	assert.Equal(t, 150.0, killer.Unit.XP.Max)
	assert.Equal(t, killer.Unit.HP.Max, killer.Unit.HP.Current)
}

func TestDistributeXP_NoXPUnits(t *testing.T) {
	w := openWorld(10, 10)
	dead := worth40(w)
	dead.Unit.GivesXP = false
	p := spawnUnit(w, domain.KindPlayer, 2, 2, 1, domain.Attributes{Strength: 5})
	dead.Unit.AddContributor(p.ID)

	assert.Empty(t, DistributeXP(w, dead))
	assert.Equal(t, 0.0, p.Unit.XP.Current)
}
