package domain

// Базовые значения юнитов (мс для интервалов)
const (
	PlayerBaseHP = 10
	PlayerBaseMP = 10

	BaseMovementSpeed = 1200
	BaseAttackSpeed   = 1000
	MinActionInterval = 200

	BaseEvasion        = 1
	BaseCriticalChance = 1
	CriticalBonus      = 1.5

	HPRegenerationInterval = 30000
	PointsPerLevel         = 2
)

// ИИ
const (
	AIUpdateInterval  = 500
	DefaultAIDistance = 5
)

// Инвентарь
const (
	InventoryCapacity      = 12
	QuickInventoryCapacity = 6
)

// Время жизни эфемерных сущностей (мс)
const (
	TextEventTTL     = 1500
	ChatTTL          = 5000
	PortalTTL        = 60000
	CorpseTTL        = 5000
	FountainCooldown = 10000
	MaxChatLength    = 100
)

// LevelCoefficient: xp.max = lvl * LevelCoefficient. Переопределяется конфигом.
var LevelCoefficient = 50.0

// Бонус брони в зависимости от основного атрибута
var baseArmor = map[Attribute]float64{
	AttrStrength:     0,
	AttrAgility:      -1,
	AttrIntelligence: -2,
}
