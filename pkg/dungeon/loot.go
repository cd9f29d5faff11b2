package dungeon

import (
	"math/rand"
	"sort"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/utils"
)

// ItemTemplate - шаблон предмета. Модификаторы растут с прогрессом.
type ItemTemplate struct {
	Kind            domain.ItemKind
	Name            string
	Modifiers       domain.StatsModifiers
	DamageAttribute domain.Attribute
	Price           int
	Effect          string
	Power           float64
	ManaCost        float64
}

var ItemTemplates = map[string]ItemTemplate{
	"hp-potion":     {Kind: domain.ItemPotion, Name: "Зелье здоровья", Effect: domain.EffectHP, Power: 10, Price: 5},
	"mp-potion":     {Kind: domain.ItemPotion, Name: "Зелье маны", Effect: domain.EffectMP, Power: 10, Price: 5},
	"xp-potion":     {Kind: domain.ItemPotion, Name: "Зелье опыта", Effect: domain.EffectXP, Power: 20, Price: 15},
	"scroll-fire":   {Kind: domain.ItemScroll, Name: "Свиток огня", Effect: domain.EffectFire, Power: 8, ManaCost: 5, Price: 20},
	"scroll-portal": {Kind: domain.ItemScroll, Name: "Свиток портала", Effect: domain.EffectPortal, ManaCost: 3, Price: 25},
	"sword": {Kind: domain.ItemWeapon, Name: "Меч", DamageAttribute: domain.AttrStrength, Price: 20,
		Modifiers: domain.StatsModifiers{domain.StatDamage: 2}},
	"bow": {Kind: domain.ItemWeapon, Name: "Лук", DamageAttribute: domain.AttrAgility, Price: 25,
		Modifiers: domain.StatsModifiers{domain.StatDamage: 1, domain.StatAttackDistance: 2}},
	"staff": {Kind: domain.ItemWeapon, Name: "Посох", DamageAttribute: domain.AttrIntelligence, Price: 25,
		Modifiers: domain.StatsModifiers{domain.StatDamage: 2, domain.StatMP: 2}},
	"shield": {Kind: domain.ItemShield, Name: "Щит", Price: 15,
		Modifiers: domain.StatsModifiers{domain.StatArmor: 1}},
	"helmet": {Kind: domain.ItemHelmet, Name: "Шлем", Price: 15,
		Modifiers: domain.StatsModifiers{domain.StatArmor: 1, domain.StatHP: 1}},
	"armor": {Kind: domain.ItemArmor, Name: "Доспех", Price: 30,
		Modifiers: domain.StatsModifiers{domain.StatArmor: 2, domain.StatHP: 2}},
	"boots": {Kind: domain.ItemBoots, Name: "Сапоги", Price: 15,
		Modifiers: domain.StatsModifiers{domain.StatMovementSpeed: 5, domain.StatArmor: 1}},
}

var (
	potionTemplates    = []string{"hp-potion", "hp-potion", "mp-potion", "xp-potion"}
	scrollTemplates    = []string{"scroll-fire", "scroll-portal"}
	equipmentTemplates = sortedEquipment()
)

func sortedEquipment() []string {
	var out []string
	for name, t := range ItemTemplates {
		if !(t.Kind == domain.ItemPotion || t.Kind == domain.ItemScroll) {
			out = append(out, name)
		}
	}
	// Порядок обхода map случаен, а выбор по индексу должен быть детерминирован
	sort.Strings(out)
	return out
}

// Шанс выпадения предмета с убитого врага
const lootDropChance = 0.35

// NewItem создает предмет из шаблона с масштабированием по прогрессу
func NewItem(template string, progress int) *domain.ItemComponent {
	t, ok := ItemTemplates[template]
	if !ok {
		return nil
	}
	scale := 1 + float64(max(progress, 1)-1)/5
	mods := domain.StatsModifiers{}
	for k, v := range t.Modifiers {
		// дальность атаки не растет
		if k == domain.StatAttackDistance {
			mods[k] = v
			continue
		}
		mods[k] = float64(int(v*scale + 0.5))
	}
	return &domain.ItemComponent{
		Kind:            t.Kind,
		Template:        template,
		Name:            t.Name,
		Modifiers:       mods,
		DamageAttribute: t.DamageAttribute,
		Price:           int(float64(t.Price) * scale),
		Effect:          t.Effect,
		Power:           float64(int(t.Power*scale + 0.5)),
		ManaCost:        t.ManaCost,
	}
}

// RandomItem - случайный предмет: в основном зелья, реже экипировка и свитки
func RandomItem(rng *rand.Rand, progress int) *domain.ItemComponent {
	roll := rng.Float64()
	switch {
	case roll < 0.7:
		return NewItem(utils.Pick(rng, potionTemplates), progress)
	case roll < 0.9:
		return NewItem(utils.Pick(rng, equipmentTemplates), progress)
	default:
		return NewItem(utils.Pick(rng, scrollTemplates), progress)
	}
}

// RollLoot - добыча с убитого врага (nil - ничего не выпало). Боссы дропают всегда.
func RollLoot(rng *rand.Rand, progress int, boss bool) *domain.ItemComponent {
	if !boss && !utils.Chance(rng, lootDropChance) {
		return nil
	}
	return RandomItem(rng, progress)
}

// ItemEntity заворачивает предмет в сущность, лежащую на полу
func ItemEntity(item *domain.ItemComponent, pos domain.Position) *domain.Entity {
	return &domain.Entity{
		Kind:     domain.KindItem,
		Name:     item.Name,
		Pos:      pos,
		Walkable: true,
		Item:     item,
	}
}
