package domain

import "math/rand"

// RecalculateStatsModifiers пересобирает кэш модификаторов из надетых предметов.
// Вызывается при любой смене экипировки.
func (u *UnitComponent) RecalculateStatsModifiers(equipped []*ItemComponent) {
	mods := StatsModifiers{}
	u.DamageAttribute = ""
	for _, it := range equipped {
		mods.AddAll(it.Modifiers)
		if it.Kind == ItemWeapon && it.DamageAttribute != "" {
			u.DamageAttribute = it.DamageAttribute
		}
	}
	u.Modifiers = mods
	u.UpdateBars()
}

// Mod - суммарный модификатор (экипировка + бусты)
func (u *UnitComponent) Mod(s Stat) float64 {
	return u.Modifiers.Get(s) + u.Boost.Get(s)
}

// AttributeValue - атрибут с учетом модификаторов
func (u *UnitComponent) AttributeValue(a Attribute) float64 {
	return float64(u.Attributes.Get(a)) + u.Mod(Stat(a))
}

func (u *UnitComponent) MaxHP() float64 {
	return u.BaseHP + (float64(u.Attributes.Strength)+u.Mod(StatStrength)+u.Mod(StatHP))*3
}

func (u *UnitComponent) MaxMP() float64 {
	return u.BaseMP + (float64(u.Attributes.Intelligence)+u.Mod(StatIntelligence)+u.Mod(StatMP))*3
}

// MovementSpeed - интервал между шагами в мс
func (u *UnitComponent) MovementSpeed() int64 {
	v := BaseMovementSpeed - int64((float64(u.Attributes.Agility)+u.Mod(StatMovementSpeed))*10)
	if v < MinActionInterval {
		return MinActionInterval
	}
	return v
}

// AttackSpeed - интервал между ударами в мс
func (u *UnitComponent) AttackSpeed() int64 {
	v := BaseAttackSpeed - int64((float64(u.Attributes.Agility)+u.Mod(StatAttackSpeed))*10)
	if v < MinActionInterval {
		return MinActionInterval
	}
	return v
}

func (u *UnitComponent) AttackDistance() float64 {
	return 1 + u.Mod(StatAttackDistance)
}

func (u *UnitComponent) damageAttribute() Attribute {
	if u.DamageAttribute != "" {
		return u.DamageAttribute
	}
	return u.Primary
}

func (u *UnitComponent) MinDamage() float64 {
	return u.AttributeValue(u.damageAttribute())
}

func (u *UnitComponent) MaxDamage() float64 {
	return u.MinDamage() + u.Mod(StatDamage)
}

// RollDamage - случайный урон в [min, max]
func (u *UnitComponent) RollDamage(rng *rand.Rand) float64 {
	lo, hi := int(u.MinDamage()), int(u.MaxDamage())
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + rng.Intn(hi-lo+1))
}

func (u *UnitComponent) Armor() float64 {
	return u.Mod(StatArmor) + float64(u.Attributes.Agility)*0.16 + baseArmor[u.Primary]
}

// EvasionChance - вероятность уклонения (0..1)
func (u *UnitComponent) EvasionChance() float64 {
	return (u.Evasion + u.Mod(StatEvasion)) / 100
}

// CriticalStrikeChance - вероятность крита (0..1)
func (u *UnitComponent) CriticalStrikeChance() float64 {
	return (u.CriticalChance + u.Mod(StatCritical)) / 100
}

// XPWorth - сколько опыта стоит этот юнит
func (u *UnitComponent) XPWorth() float64 {
	return (float64(u.Attributes.Sum()) + u.Modifiers.Sum() + u.Boost.Sum()) * float64(u.Lvl)
}
