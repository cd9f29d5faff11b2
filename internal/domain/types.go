package domain

import "strings"

// EntityKind - тег типа сущности. Поведение диспетчеризуется по нему,
// а не через иерархию типов.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindPlayer
	KindEnemy
	KindNPC
	KindItem
	KindDoor
	KindChest
	KindFountain
	KindCheckpoint
	KindPortal
	KindText
)

var kindToString = map[EntityKind]string{
	KindPlayer:     "player",
	KindEnemy:      "enemy",
	KindNPC:        "npc",
	KindItem:       "item",
	KindDoor:       "door",
	KindChest:      "chest",
	KindFountain:   "fountain",
	KindCheckpoint: "checkpoint",
	KindPortal:     "portal",
	KindText:       "text",
}

var stringToKind = func() map[string]EntityKind {
	m := make(map[string]EntityKind, len(kindToString))
	for k, v := range kindToString {
		m[v] = k
	}
	return m
}()

// ParseKind конвертирует строку в EntityKind (без учета регистра)
func ParseKind(s string) EntityKind {
	if k, ok := stringToKind[strings.ToLower(s)]; ok {
		return k
	}
	return KindUnknown
}

func (k EntityKind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText нужен, чтобы в JSON уходило "enemy", а не 2
func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EntityKind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// IsUnit - является ли тип "живым" (игрок, враг, NPC)
func (k EntityKind) IsUnit() bool {
	return k == KindPlayer || k == KindEnemy || k == KindNPC
}

// IsInteractive - объекты, которые реагируют на приход юнита
func (k EntityKind) IsInteractive() bool {
	switch k {
	case KindDoor, KindChest, KindFountain, KindCheckpoint, KindPortal, KindNPC:
		return true
	}
	return false
}

// Capability - флаги возможностей сущности
type Capability uint8

const (
	CapInventory Capability = 1 << iota
	CapAI
	CapClientControlled
)

// Attribute - базовый атрибут юнита
type Attribute string

const (
	AttrStrength     Attribute = "strength"
	AttrAgility      Attribute = "agility"
	AttrIntelligence Attribute = "intelligence"
)

// ParseAttribute возвращает атрибут и признак валидности
func ParseAttribute(s string) (Attribute, bool) {
	switch a := Attribute(strings.ToLower(s)); a {
	case AttrStrength, AttrAgility, AttrIntelligence:
		return a, true
	}
	return "", false
}

// Attributes - базовые атрибуты (сила, ловкость, интеллект)
type Attributes struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
}

func (a Attributes) Get(attr Attribute) int {
	switch attr {
	case AttrStrength:
		return a.Strength
	case AttrAgility:
		return a.Agility
	case AttrIntelligence:
		return a.Intelligence
	}
	return 0
}

func (a *Attributes) Add(attr Attribute, n int) {
	switch attr {
	case AttrStrength:
		a.Strength += n
	case AttrAgility:
		a.Agility += n
	case AttrIntelligence:
		a.Intelligence += n
	}
}

func (a Attributes) Sum() int {
	return a.Strength + a.Agility + a.Intelligence
}
