package dungeon

import (
	"github.com/h918m/mazmorra/internal/domain"
)

// EnemyTemplate определяет шаблон врага
type EnemyTemplate struct {
	Name           string
	Primary        domain.Attribute
	Attributes     domain.Attributes
	Modifiers      domain.StatsModifiers
	HPRegeneration float64
	Spawner        *domain.SpawnerConfig
	Boss           bool
}

// SpawnEnemy создает врага уровня lvl на позиции pos (в мир не добавляет).
// Очки за уровни сразу вкладываются в основной атрибут.
func (t EnemyTemplate) SpawnEnemy(template string, pos domain.Position, lvl int) *domain.Entity {
	unit := domain.NewUnit(1, t.Primary, t.Attributes, 0, 0)
	unit.Boost = t.Modifiers.Clone()
	unit.HPRegeneration = t.HPRegeneration
	for unit.Lvl < lvl {
		unit.LevelUp()
		unit.SpendPointsOnPrimary()
	}
	unit.UpdateBars()
	unit.HP.Fill()
	unit.MP.Fill()

	var spawner *domain.SpawnerConfig
	if t.Spawner != nil {
		s := *t.Spawner
		spawner = &s
	}

	return &domain.Entity{
		Kind: domain.KindEnemy,
		Name: t.Name,
		Caps: domain.CapAI,
		Pos:  pos,
		Unit: unit,
		AI: &domain.AIComponent{
			Template:       template,
			Distance:       domain.DefaultAIDistance + t.Modifiers.Get(domain.StatAIDistance),
			UpdateInterval: domain.AIUpdateInterval,
			Spawner:        spawner,
			IsBoss:         t.Boss,
		},
	}
}

// --- ВРАГИ ---

// EnemyTemplates - все доступные враги
var EnemyTemplates = map[string]EnemyTemplate{
	"rat": {
		Name:       "Крыса",
		Primary:    domain.AttrAgility,
		Attributes: domain.Attributes{Strength: 1, Agility: 2, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatDamage: 1},
	},
	"bat": {
		Name:       "Летучая мышь",
		Primary:    domain.AttrAgility,
		Attributes: domain.Attributes{Strength: 1, Agility: 3, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatMovementSpeed: 20, domain.StatAIDistance: 2},
	},
	"spider": {
		Name:       "Паук",
		Primary:    domain.AttrAgility,
		Attributes: domain.Attributes{Strength: 2, Agility: 2, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatDamage: 1, domain.StatEvasion: 2},
	},
	"spider-medium": {
		Name:       "Большой паук",
		Primary:    domain.AttrAgility,
		Attributes: domain.Attributes{Strength: 3, Agility: 4, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatDamage: 2, domain.StatEvasion: 3},
	},
	"spider-giant": {
		Name:       "Гигантский паук",
		Primary:    domain.AttrStrength,
		Attributes: domain.Attributes{Strength: 6, Agility: 3, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatDamage: 3, domain.StatArmor: 1},
		Spawner:    &domain.SpawnerConfig{Type: "spider", Lvl: 2, Count: 3, GiveXP: false},
	},
	"slime": {
		Name:       "Слизень",
		Primary:    domain.AttrStrength,
		Attributes: domain.Attributes{Strength: 3, Agility: 1, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatHP: 2, domain.StatAIDistance: -2},
	},
	"slime-big": {
		Name:           "Большой слизень",
		Primary:        domain.AttrStrength,
		Attributes:     domain.Attributes{Strength: 6, Agility: 1, Intelligence: 2},
		Modifiers:      domain.StatsModifiers{domain.StatHP: 5, domain.StatDamage: 2},
		HPRegeneration: 2,
		Spawner:        &domain.SpawnerConfig{Type: "slime", Lvl: 1, Count: 2, GiveXP: false},
	},
	"skeleton": {
		Name:       "Скелет",
		Primary:    domain.AttrStrength,
		Attributes: domain.Attributes{Strength: 4, Agility: 2, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatArmor: 1, domain.StatDamage: 2},
	},
	"skeleton-warrior": {
		Name:       "Скелет-воин",
		Primary:    domain.AttrStrength,
		Attributes: domain.Attributes{Strength: 7, Agility: 3, Intelligence: 1},
		Modifiers:  domain.StatsModifiers{domain.StatArmor: 3, domain.StatDamage: 3},
	},
	"goblin": {
		Name:       "Гоблин-лучник",
		Primary:    domain.AttrAgility,
		Attributes: domain.Attributes{Strength: 3, Agility: 5, Intelligence: 2},
		Modifiers:  domain.StatsModifiers{domain.StatAttackDistance: 2, domain.StatDamage: 1, domain.StatAIDistance: 2},
	},
	"golem": {
		Name:           "Голем",
		Primary:        domain.AttrStrength,
		Attributes:     domain.Attributes{Strength: 10, Agility: 1, Intelligence: 1},
		Modifiers:      domain.StatsModifiers{domain.StatArmor: 4, domain.StatDamage: 4, domain.StatMovementSpeed: -20},
		HPRegeneration: 5,
	},
	"golem-king": {
		Name:           "Король големов",
		Primary:        domain.AttrStrength,
		Attributes:     domain.Attributes{Strength: 16, Agility: 3, Intelligence: 4},
		Modifiers:      domain.StatsModifiers{domain.StatArmor: 6, domain.StatDamage: 6, domain.StatHP: 20, domain.StatAIDistance: 3},
		HPRegeneration: 10,
		Boss:           true,
	},
}

// --- NPC (мирные) ---

// NPCTemplate - мирный житель замка
type NPCTemplate struct {
	Name   string
	Dialog string
}

var NPCTemplates = map[string]NPCTemplate{
	"elder":    {Name: "Старейшина", Dialog: "Подземелье ждет тебя, герой. Спускайся через северную дверь."},
	"merchant": {Name: "Торговец", Dialog: "Продашь что-нибудь? Плачу золотом."},
}

// SpawnNPC создает неуязвимого NPC
func (t NPCTemplate) SpawnNPC(pos domain.Position) *domain.Entity {
	unit := domain.NewUnit(1, domain.AttrIntelligence, domain.Attributes{Strength: 5, Agility: 1, Intelligence: 5}, 0, 0)
	unit.Invulnerable = true
	unit.GivesXP = false
	return &domain.Entity{
		Kind:        domain.KindNPC,
		Name:        t.Name,
		Pos:         pos,
		Unit:        unit,
		Interactive: &domain.InteractiveComponent{Dialog: t.Dialog},
	}
}
