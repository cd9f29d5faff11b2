package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayerUnit() *UnitComponent {
	return NewUnit(1, AttrStrength, Attributes{Strength: 5, Agility: 5, Intelligence: 5}, PlayerBaseHP, PlayerBaseMP)
}

func TestUnit_DerivedStats(t *testing.T) {
	u := newPlayerUnit()

	assert.Equal(t, 25.0, u.MaxHP())
	assert.Equal(t, 25.0, u.HP.Current, "новый юнит с полным здоровьем")
	assert.Equal(t, 25.0, u.MaxMP())
	assert.Equal(t, int64(1150), u.MovementSpeed())
	assert.Equal(t, int64(950), u.AttackSpeed())
	assert.Equal(t, 1.0, u.AttackDistance())
	assert.InDelta(t, 0.8, u.Armor(), 1e-9)
	assert.InDelta(t, 0.01, u.EvasionChance(), 1e-9)
	assert.InDelta(t, 0.01, u.CriticalStrikeChance(), 1e-9)
	assert.Equal(t, 5.0, u.MinDamage())
	assert.Equal(t, 5.0, u.MaxDamage())
	assert.Equal(t, 50.0, u.XP.Max)
}

func TestUnit_IntervalsHaveFloor(t *testing.T) {
	u := NewUnit(1, AttrAgility, Attributes{Strength: 1, Agility: 500}, 0, 0)
	assert.Equal(t, int64(MinActionInterval), u.MovementSpeed())
	assert.Equal(t, int64(MinActionInterval), u.AttackSpeed())
}

func TestUnit_RecalculateStatsModifiersRescalesBars(t *testing.T) {
	u := newPlayerUnit()
	u.HP.Set(12.5) // половина от 25

	sword := &ItemComponent{Kind: ItemWeapon, DamageAttribute: AttrAgility, Modifiers: StatsModifiers{StatDamage: 3, StatAgility: 1}}
	armor := &ItemComponent{Kind: ItemArmor, Modifiers: StatsModifiers{StatHP: 5, StatArmor: 2}}
	u.RecalculateStatsModifiers([]*ItemComponent{sword, armor})

	assert.Equal(t, 40.0, u.MaxHP())
	assert.Equal(t, 20.0, u.HP.Current, "отношение current/max сохраняется")
	assert.Equal(t, 6.0, u.MinDamage(), "урон от атрибута оружия + модификатор")
	assert.Equal(t, 9.0, u.MaxDamage())
	assert.InDelta(t, 2.8, u.Armor(), 1e-9)

	// Сняли все - модификаторы пересобраны с нуля
	u.RecalculateStatsModifiers(nil)
	assert.Empty(t, u.Modifiers)
	assert.Equal(t, 25.0, u.MaxHP())
	assert.Equal(t, 12.5, u.HP.Current)
	assert.Equal(t, 5.0, u.MinDamage())
}

func TestUnit_RollDamageInRange(t *testing.T) {
	u := newPlayerUnit()
	u.Boost[StatDamage] = 4
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		d := u.RollDamage(rng)
		assert.GreaterOrEqual(t, d, 5.0)
		assert.LessOrEqual(t, d, 9.0)
	}
}

func TestUnit_GainXP_LevelUpOncePerThreshold(t *testing.T) {
	tests := []struct {
		name       string
		xp         float64
		wantLevels int
		wantLvl    int
		wantXP     float64
		wantXPMax  float64
	}{
		{"below threshold", 30, 0, 1, 30, 50},
		{"exact threshold", 50, 1, 2, 0, 100},
		{"with remainder", 70, 1, 2, 20, 100},
		{"two thresholds", 160, 2, 3, 10, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newPlayerUnit()
			u.HP.Set(1)
			u.MP.Set(0)

			levels := u.GainXP(tt.xp)

			assert.Equal(t, tt.wantLevels, levels)
			assert.Equal(t, tt.wantLvl, u.Lvl)
			assert.Equal(t, tt.wantXP, u.XP.Current)
			assert.Equal(t, tt.wantXPMax, u.XP.Max)
			assert.Equal(t, tt.wantLevels*PointsPerLevel, u.PointsToDistribute)
			if tt.wantLevels > 0 {
				assert.Equal(t, u.HP.Max, u.HP.Current, "hp восстанавливается")
				assert.Equal(t, u.MP.Max, u.MP.Current, "mp восстанавливается")
			}
		})
	}
}

func TestUnit_DistributePoint(t *testing.T) {
	u := newPlayerUnit()
	assert.False(t, u.DistributePoint(AttrStrength), "без очков ничего не меняется")

	u.PointsToDistribute = 1
	require.True(t, u.DistributePoint(AttrStrength))
	assert.Equal(t, 6, u.Attributes.Strength)
	assert.Equal(t, 28.0, u.MaxHP())
	assert.Equal(t, 28.0, u.HP.Current, "полное здоровье остается полным")
	assert.Equal(t, 0, u.PointsToDistribute)

	u.PointsToDistribute = 1
	assert.False(t, u.DistributePoint("charisma"))
	assert.Equal(t, 1, u.PointsToDistribute)
}

func TestUnit_SpendPointsOnPrimary(t *testing.T) {
	u := NewUnit(1, AttrAgility, Attributes{Strength: 2, Agility: 3}, 0, 0)
	u.GainXP(50)
	u.SpendPointsOnPrimary()
	assert.Equal(t, 5, u.Attributes.Agility)
	assert.Equal(t, 0, u.PointsToDistribute)
}

func TestUnit_TakeDamage(t *testing.T) {
	u := NewUnit(5, AttrStrength, Attributes{Strength: 10}, 0, 0)
	u.HP.Set(10)

	applied, died := u.TakeDamage(6, EntityID(7))
	assert.Equal(t, 6.0, applied)
	assert.False(t, died)
	assert.Equal(t, 4.0, u.HP.Current)
	assert.True(t, u.IsAlive())

	_, died = u.TakeDamage(6, EntityID(8))
	assert.True(t, died)
	assert.Equal(t, []EntityID{7, 8}, u.DamageTakenFrom)

	applied, died = u.TakeDamage(6, EntityID(7))
	assert.Zero(t, applied, "мертвого не бьют")
	assert.False(t, died, "смерть срабатывает один раз")
}

func TestUnit_XPWorth(t *testing.T) {
	u := NewUnit(2, AttrStrength, Attributes{Strength: 5, Agility: 3, Intelligence: 2}, 0, 0)
	u.Boost[StatArmor] = 4
	u.Boost[StatDamage] = 6
	assert.Equal(t, 40.0, u.XPWorth())
}

func TestUnit_Regenerate(t *testing.T) {
	u := newPlayerUnit()
	u.HPRegeneration = 2
	u.HP.Set(10)

	assert.False(t, u.Regenerate(1000), "интервал еще не прошел")
	assert.True(t, u.Regenerate(HPRegenerationInterval))
	assert.Equal(t, 12.0, u.HP.Current)
	assert.False(t, u.Regenerate(HPRegenerationInterval+10))
}
