package domain

// BattleAction - боевое действие attacker -> defender.
// Существует, пока оба живы и атакующий хочет драться.
type BattleAction struct {
	AttackerID EntityID `json:"attackerId"`
	DefenderID EntityID `json:"defenderId"`
	LastHit    int64    `json:"lastHit"`
	Eligible   bool     `json:"eligible"`
}

// NewBattleAction создает действие. Атака самого себя - нарушение инварианта.
func NewBattleAction(attacker, defender EntityID) *BattleAction {
	if !Invariant(attacker != defender, "battle action against self", nil) {
		return nil
	}
	return &BattleAction{AttackerID: attacker, DefenderID: defender, LastHit: -1 << 62}
}

// Against - атакует ли действие именно этого защитника
func (a *BattleAction) Against(id EntityID) bool {
	return a != nil && a.DefenderID == id
}

// HitReady - прошел ли интервал атаки
func (a *BattleAction) HitReady(now, interval int64) bool {
	return now-a.LastHit >= interval
}
