package systems

import (
	"github.com/h918m/mazmorra/internal/domain"
)

// XPAward - сколько опыта получил участник и сколько уровней взял
type XPAward struct {
	Unit   *domain.Entity
	Amount float64
	Levels int
}

// DistributeXP делит ценность убитого поровну между всеми, кто наносил урон.
// Доля каждого делится на его уровень. Ушедшие и мертвые участники свою долю теряют.
func DistributeXP(w *domain.GameWorld, dead *domain.Entity) []XPAward {
	if dead.Unit == nil || !dead.Unit.GivesXP || len(dead.Unit.DamageTakenFrom) == 0 {
		return nil
	}
	worth := dead.Unit.XPWorth()
	share := worth / float64(len(dead.Unit.DamageTakenFrom))

	var awards []XPAward
	for _, id := range dead.Unit.DamageTakenFrom {
		c := w.GetEntity(id)
		if c == nil || c.Unit == nil || !c.IsAlive() {
			continue
		}
		amount := share / float64(max(c.Unit.Lvl, 1))
		awards = append(awards, XPAward{
			Unit:   c,
			Amount: amount,
			Levels: c.Unit.GainXP(amount),
		})
	}
	return awards
}
