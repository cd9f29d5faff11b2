package domain

// Stat - ключ модификатора характеристик
type Stat string

const (
	StatHP             Stat = "hp"
	StatMP             Stat = "mp"
	StatXP             Stat = "xp"
	StatStrength       Stat = "strength"
	StatAgility        Stat = "agility"
	StatIntelligence   Stat = "intelligence"
	StatArmor          Stat = "armor"
	StatDamage         Stat = "damage"
	StatMovementSpeed  Stat = "movementSpeed"
	StatAttackDistance Stat = "attackDistance"
	StatAttackSpeed    Stat = "attackSpeed"
	StatEvasion        Stat = "evasion"
	StatCritical       Stat = "criticalStrikeChance"
	StatAIDistance     Stat = "aiDistance"
)

// StatsModifiers - аддитивная карта модификаторов
type StatsModifiers map[Stat]float64

// Get безопасен для nil-карты
func (m StatsModifiers) Get(s Stat) float64 {
	if m == nil {
		return 0
	}
	return m[s]
}

// AddAll прибавляет все значения other к m
func (m StatsModifiers) AddAll(other StatsModifiers) {
	for k, v := range other {
		m[k] += v
	}
}

// Sum - сумма всех модификаторов (для расчета ценности в xp)
func (m StatsModifiers) Sum() float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

// Clone возвращает независимую копию
func (m StatsModifiers) Clone() StatsModifiers {
	out := make(StatsModifiers, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ItemKind - категория предмета
type ItemKind string

const (
	ItemWeapon ItemKind = "weapon"
	ItemShield ItemKind = "shield"
	ItemHelmet ItemKind = "helmet"
	ItemArmor  ItemKind = "armor"
	ItemBoots  ItemKind = "boots"
	ItemPotion ItemKind = "potion"
	ItemScroll ItemKind = "scroll"
)

// Slot - слот экипировки
type Slot string

const (
	SlotLeft  Slot = "left"
	SlotRight Slot = "right"
	SlotHead  Slot = "head"
	SlotBody  Slot = "body"
	SlotFeet  Slot = "feet"
)

// SlotOrder - фиксированный порядок обхода слотов (детерминизм пересчета)
var SlotOrder = []Slot{SlotLeft, SlotRight, SlotHead, SlotBody, SlotFeet}

var kindToSlot = map[ItemKind]Slot{
	ItemWeapon: SlotLeft,
	ItemShield: SlotRight,
	ItemHelmet: SlotHead,
	ItemArmor:  SlotBody,
	ItemBoots:  SlotFeet,
}

// Эффекты расходников
const (
	EffectHP     = "hp"
	EffectMP     = "mp"
	EffectXP     = "xp"
	EffectFire   = "fire"
	EffectPortal = "portal"
)

// ItemComponent - данные предмета (и на полу, и в инвентаре)
type ItemComponent struct {
	Kind            ItemKind       `json:"kind"`
	Template        string         `json:"template"`
	Name            string         `json:"name"`
	Modifiers       StatsModifiers `json:"modifiers,omitempty"`
	DamageAttribute Attribute      `json:"damageAttribute,omitempty"`
	Price           int            `json:"price"`

	// Для расходников: эффект и его сила
	Effect string  `json:"effect,omitempty"`
	Power  float64 `json:"power,omitempty"`
	// Стоимость маны для свитков
	ManaCost float64 `json:"manaCost,omitempty"`
}

// Slot возвращает слот экипировки, если предмет надевается
func (i *ItemComponent) Slot() (Slot, bool) {
	s, ok := kindToSlot[i.Kind]
	return s, ok
}

// IsConsumable - зелья и свитки
func (i *ItemComponent) IsConsumable() bool {
	return i.Kind == ItemPotion || i.Kind == ItemScroll
}

// Clone - глубокая копия (для снапшотов)
func (i *ItemComponent) Clone() *ItemComponent {
	c := *i
	c.Modifiers = i.Modifiers.Clone()
	return &c
}

// InventoryType - имя контейнера в интентах клиента
type InventoryType string

const (
	InventoryMain  InventoryType = "inventory"
	InventoryQuick InventoryType = "quickInventory"
	InventoryEquip InventoryType = "equipedItems"
)

// Inventory - упорядоченный контейнер предметов ограниченной вместимости
type Inventory struct {
	Capacity int       `json:"capacity"`
	Items    []*Entity `json:"items"`
}

func NewInventory(capacity int) *Inventory {
	return &Inventory{Capacity: capacity, Items: make([]*Entity, 0, capacity)}
}

func (inv *Inventory) IsFull() bool {
	return len(inv.Items) >= inv.Capacity
}

// Add кладет предмет в конец. false - если места нет.
func (inv *Inventory) Add(item *Entity) bool {
	if inv.IsFull() {
		return false
	}
	inv.Items = append(inv.Items, item)
	return true
}

// Find ищет предмет по ID
func (inv *Inventory) Find(id EntityID) *Entity {
	for _, it := range inv.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Remove удаляет предмет, сохраняя порядок остальных
func (inv *Inventory) Remove(id EntityID) *Entity {
	for i, it := range inv.Items {
		if it.ID == id {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return it
		}
	}
	return nil
}

// Replace ставит newItem на место предмета с ID old
func (inv *Inventory) Replace(old EntityID, newItem *Entity) bool {
	for i, it := range inv.Items {
		if it.ID == old {
			inv.Items[i] = newItem
			return true
		}
	}
	return false
}

// Equipment - надетые предметы по слотам
type Equipment struct {
	Slots map[Slot]*Entity `json:"slots"`
}

func NewEquipment() *Equipment {
	return &Equipment{Slots: make(map[Slot]*Entity)}
}

// Equip надевает предмет в его слот и возвращает снятый (или nil).
// ok=false, если предмет не надевается.
func (eq *Equipment) Equip(item *Entity) (prev *Entity, ok bool) {
	if item.Item == nil {
		return nil, false
	}
	slot, ok := item.Item.Slot()
	if !ok {
		return nil, false
	}
	prev = eq.Slots[slot]
	eq.Slots[slot] = item
	return prev, true
}

// Find возвращает слот, в котором надет предмет
func (eq *Equipment) Find(id EntityID) (Slot, *Entity) {
	for _, s := range SlotOrder {
		if it := eq.Slots[s]; it != nil && it.ID == id {
			return s, it
		}
	}
	return "", nil
}

// Unequip снимает предмет из слота
func (eq *Equipment) Unequip(slot Slot) *Entity {
	it := eq.Slots[slot]
	delete(eq.Slots, slot)
	return it
}

// Items - надетые предметы в порядке SlotOrder
func (eq *Equipment) Items() []*ItemComponent {
	out := make([]*ItemComponent, 0, len(eq.Slots))
	for _, s := range SlotOrder {
		if it := eq.Slots[s]; it != nil && it.Item != nil {
			out = append(out, it.Item)
		}
	}
	return out
}
