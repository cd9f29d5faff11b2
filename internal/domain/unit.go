package domain

// UnitComponent - всё, что делает сущность "живой": полосы, атрибуты,
// модификаторы, текущее действие и движение.
type UnitComponent struct {
	Direction Direction `json:"direction"`
	Lvl       int       `json:"lvl"`

	HP Bar `json:"hp"`
	MP Bar `json:"mp"`
	XP Bar `json:"xp"`

	Primary    Attribute  `json:"primaryAttribute"`
	Attributes Attributes `json:"attributes"`

	BaseHP float64 `json:"-"`
	BaseMP float64 `json:"-"`

	// Modifiers - кэш модификаторов экипировки (пересобирается целиком)
	Modifiers StatsModifiers `json:"statsModifiers"`
	// Boost - постоянные модификаторы шаблона/эффектов
	Boost StatsModifiers `json:"-"`

	// DamageAttribute - атрибут урона оружия (пусто - основной)
	DamageAttribute Attribute `json:"-"`

	PointsToDistribute int `json:"pointsToDistribute"`

	HPRegeneration float64 `json:"-"`
	LastRegen      int64   `json:"-"`

	Evasion        float64 `json:"-"`
	CriticalChance float64 `json:"-"`
	CriticalBonus  float64 `json:"-"`

	Invulnerable bool `json:"-"`
	GivesXP      bool `json:"-"`

	// Death обрабатывается ровно один раз
	DeathProcessed bool  `json:"-"`
	DiedAt         int64 `json:"-"`

	Action   *BattleAction `json:"-"`
	Movement *Movement     `json:"-"`

	// DamageTakenFrom - упорядоченное множество ID атаковавших
	DamageTakenFrom []EntityID `json:"-"`
}

// NewUnit создает юнита с полными полосами
func NewUnit(lvl int, primary Attribute, attrs Attributes, baseHP, baseMP float64) *UnitComponent {
	if lvl < 1 {
		lvl = 1
	}
	u := &UnitComponent{
		Direction:      DirectionBottom,
		Lvl:            lvl,
		Primary:        primary,
		Attributes:     attrs,
		BaseHP:         baseHP,
		BaseMP:         baseMP,
		Modifiers:      StatsModifiers{},
		Boost:          StatsModifiers{},
		Evasion:        BaseEvasion,
		CriticalChance: BaseCriticalChance,
		CriticalBonus:  CriticalBonus,
		GivesXP:        true,
		Movement:       &Movement{},
	}
	u.XP = Bar{Max: float64(lvl) * LevelCoefficient, Overflow: true}
	u.HP = NewBar(0, u.MaxHP())
	u.MP = NewBar(0, u.MaxMP())
	u.HP.Fill()
	u.MP.Fill()
	return u
}

// IsAlive - hp > 0
func (u *UnitComponent) IsAlive() bool {
	return u.HP.Current > 0
}

// AddContributor добавляет атаковавшего в множество (без дублей)
func (u *UnitComponent) AddContributor(id EntityID) {
	for _, c := range u.DamageTakenFrom {
		if c == id {
			return
		}
	}
	u.DamageTakenFrom = append(u.DamageTakenFrom, id)
}

// TakeDamage применяет урон. died=true только на переходе через ноль.
func (u *UnitComponent) TakeDamage(amount float64, from EntityID) (applied float64, died bool) {
	if !u.IsAlive() || u.Invulnerable {
		return 0, false
	}
	if amount < 0 {
		amount = 0
	}
	if !from.IsNil() {
		u.AddContributor(from)
	}
	before := u.HP.Current
	ev := u.HP.Increment(-amount)
	return before - u.HP.Current, ev == BarDepleted
}

// Heal восстанавливает hp (не выше максимума)
func (u *UnitComponent) Heal(amount float64) float64 {
	before := u.HP.Current
	u.HP.Increment(amount)
	return u.HP.Current - before
}

// UpdateBars пересчитывает максимумы с сохранением пропорций
func (u *UnitComponent) UpdateBars() {
	u.HP.Rescale(u.MaxHP())
	u.MP.Rescale(u.MaxMP())
	u.XP.Max = float64(u.Lvl) * LevelCoefficient
}

// GainXP добавляет опыт и повышает уровень за каждый пересеченный порог.
// Возвращает количество полученных уровней.
func (u *UnitComponent) GainXP(amount float64) int {
	u.XP.Overflow = true
	u.XP.Increment(amount)

	levels := 0
	for u.XP.Max > 0 && u.XP.Current >= u.XP.Max {
		remainder := u.XP.Current - u.XP.Max
		u.LevelUp()
		u.XP.Current = remainder
		levels++
	}
	return levels
}

// LevelUp: +1 уровень, очки атрибутов, полное восстановление.
func (u *UnitComponent) LevelUp() {
	u.Lvl++
	u.PointsToDistribute += PointsPerLevel
	u.UpdateBars()
	u.HP.Fill()
	u.MP.Fill()
	u.XP.Current = 0
}

// SpendPointsOnPrimary - враги сразу вкладывают очки в основной атрибут
func (u *UnitComponent) SpendPointsOnPrimary() {
	if u.PointsToDistribute <= 0 {
		return
	}
	u.Attributes.Add(u.Primary, u.PointsToDistribute)
	u.PointsToDistribute = 0
	u.UpdateBars()
}

// DistributePoint тратит одно очко на атрибут
func (u *UnitComponent) DistributePoint(attr Attribute) bool {
	if u.PointsToDistribute <= 0 {
		return false
	}
	if _, ok := ParseAttribute(string(attr)); !ok {
		return false
	}
	u.Attributes.Add(attr, 1)
	u.PointsToDistribute--
	u.UpdateBars()
	return true
}

// Regenerate восстанавливает hp раз в HPRegenerationInterval. true - если сработало.
func (u *UnitComponent) Regenerate(now int64) bool {
	if now-u.LastRegen < HPRegenerationInterval {
		return false
	}
	u.LastRegen = now
	if u.HPRegeneration <= 0 || !u.IsAlive() {
		return false
	}
	return u.Heal(u.HPRegeneration) > 0
}
