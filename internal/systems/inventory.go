package systems

import (
	"errors"
	"fmt"

	"github.com/h918m/mazmorra/internal/domain"
)

var (
	ErrNoInventory     = errors.New("нет инвентаря")
	ErrItemNotFound    = errors.New("предмет не найден")
	ErrInventoryFull   = errors.New("инвентарь полон")
	ErrNotEquippable   = errors.New("этот предмет нельзя надеть")
	ErrNotUsable       = errors.New("предмет нельзя использовать")
	ErrNotEnoughMana   = errors.New("недостаточно маны")
	ErrNeedsTarget     = errors.New("нужна цель")
	ErrWrongContainer  = errors.New("неподходящий контейнер")
	ErrNotOnGroundItem = errors.New("это не предмет")
)

// --- PICKUP ---

// TryPickup поднимает предмет с пола: расходники сначала в быстрый инвентарь
func TryPickup(actor, item *domain.Entity, w *domain.GameWorld) error {
	if actor.Player == nil {
		return ErrNoInventory
	}
	if item.Item == nil {
		return ErrNotOnGroundItem
	}

	p := actor.Player
	placed := false
	if item.Item.IsConsumable() {
		placed = p.QuickInventory.Add(item)
	}
	if !placed {
		placed = p.Inventory.Add(item)
	}
	if !placed {
		return fmt.Errorf("%s: %w", item.Name, ErrInventoryFull)
	}

	w.RemoveEntity(item.ID)
	return nil
}

// --- DROP ---

// TryDrop выбрасывает предмет на клетку владельца.
// Возвращает true, если менялась экипировка.
func TryDrop(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID, w *domain.GameWorld) (bool, error) {
	item := RemoveHeld(actor, from, itemID)
	if item == nil {
		return false, ErrItemNotFound
	}
	item.Pos = actor.Pos
	item.Walkable = true
	w.AddEntity(item)
	return from == domain.InventoryEquip, nil
}

// --- SELL ---

// TrySell продает предмет за его цену
func TrySell(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID) (int, error) {
	item := RemoveHeld(actor, from, itemID)
	if item == nil {
		return 0, ErrItemNotFound
	}
	actor.Player.Gold += item.Item.Price
	return item.Item.Price, nil
}

// --- DRAG ---

// TryDrag перекладывает предмет между контейнерами (инвентарь, быстрый, экипировка).
// switchID - предмет в целевом контейнере, с которым меняемся местами.
// Возвращает true, если менялась экипировка.
func TryDrag(actor *domain.Entity, from, to domain.InventoryType, itemID, switchID domain.EntityID) (bool, error) {
	if actor.Player == nil {
		return false, ErrNoInventory
	}
	item := FindHeld(actor, from, itemID)
	if item == nil {
		return false, ErrItemNotFound
	}

	switch {
	case to == domain.InventoryEquip && from == domain.InventoryEquip:
		return false, nil
	case to == domain.InventoryEquip:
		if err := equipFrom(actor.Player, from, item); err != nil {
			return false, err
		}
		return true, nil
	case from == domain.InventoryEquip:
		if err := unequipTo(actor.Player, to, item, switchID); err != nil {
			return false, err
		}
		return true, nil
	}

	src, dst := actor.Player.Container(from), actor.Player.Container(to)
	if dst == nil {
		return false, ErrWrongContainer
	}
	if to == domain.InventoryQuick && from != to && !item.Item.IsConsumable() {
		return false, ErrWrongContainer
	}

	// 1. Обмен местами с другим предметом
	if other := dst.Find(switchID); other != nil && other.ID != item.ID {
		if from == domain.InventoryQuick && to != from && !other.Item.IsConsumable() {
			return false, ErrWrongContainer
		}
		i, j := indexOf(src, item.ID), indexOf(dst, other.ID)
		src.Items[i], dst.Items[j] = other, item
		return false, nil
	}

	// 2. Перенос в конец
	if src == dst {
		src.Remove(item.ID)
		src.Add(item)
		return false, nil
	}
	if dst.IsFull() {
		return false, ErrInventoryFull
	}
	src.Remove(item.ID)
	dst.Add(item)
	return false, nil
}

func equipFrom(p *domain.PlayerComponent, from domain.InventoryType, item *domain.Entity) error {
	if _, ok := item.Item.Slot(); !ok {
		return ErrNotEquippable
	}
	src := p.Container(from)
	if src == nil {
		return ErrWrongContainer
	}
	prev, _ := p.Equipment.Equip(item)
	if prev != nil {
		src.Replace(item.ID, prev)
	} else {
		src.Remove(item.ID)
	}
	return nil
}

func unequipTo(p *domain.PlayerComponent, to domain.InventoryType, item *domain.Entity, switchID domain.EntityID) error {
	dst := p.Container(to)
	if dst == nil || to == domain.InventoryQuick {
		return ErrWrongContainer
	}
	slot, _ := p.Equipment.Find(item.ID)

	// Замена на предмет того же слота из инвентаря
	if other := dst.Find(switchID); other != nil {
		if s, ok := other.Item.Slot(); ok && s == slot {
			p.Equipment.Equip(other)
			dst.Replace(other.ID, item)
			return nil
		}
	}

	if dst.IsFull() {
		return ErrInventoryFull
	}
	p.Equipment.Unequip(slot)
	dst.Add(item)
	return nil
}

func indexOf(inv *domain.Inventory, id domain.EntityID) int {
	for i, it := range inv.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// --- USE ---

// UseResult - что произошло при использовании предмета
type UseResult struct {
	Item   *domain.ItemComponent
	Effect string
	Amount float64
	Levels int
}

// CheckUse - все проверки TryUse без изменения состояния.
// Если ошибки нет, следующий TryUse того же предмета пройдет.
func CheckUse(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID) (*domain.Entity, error) {
	item := FindHeld(actor, from, itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !item.Item.IsConsumable() {
		return nil, ErrNotUsable
	}
	if item.Item.Effect == domain.EffectFire {
		return nil, ErrNeedsTarget
	}
	if item.Item.ManaCost > 0 && actor.Unit.MP.Current < item.Item.ManaCost {
		return nil, ErrNotEnoughMana
	}
	return item, nil
}

// TryUse применяет зелье или свиток без цели (портал).
// Свиток огня требует цели и используется через TryCast.
func TryUse(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID) (UseResult, error) {
	item, err := CheckUse(actor, from, itemID)
	if err != nil {
		return UseResult{}, err
	}
	return consume(actor, from, item)
}

// TryCast расходует свиток с целью. Проверку цели делает вызывающий.
func TryCast(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID) (UseResult, error) {
	item := FindHeld(actor, from, itemID)
	if item == nil {
		return UseResult{}, ErrItemNotFound
	}
	if item.Item.Kind != domain.ItemScroll || item.Item.Effect != domain.EffectFire {
		return UseResult{}, ErrNotUsable
	}
	return consume(actor, from, item)
}

func consume(actor *domain.Entity, from domain.InventoryType, item *domain.Entity) (UseResult, error) {
	u, it := actor.Unit, item.Item
	res := UseResult{Item: it, Effect: it.Effect}

	if it.ManaCost > 0 {
		if u.MP.Current < it.ManaCost {
			return res, ErrNotEnoughMana
		}
		u.MP.Increment(-it.ManaCost)
	}

	switch it.Effect {
	case domain.EffectHP:
		res.Amount = u.Heal(it.Power)
	case domain.EffectMP:
		before := u.MP.Current
		u.MP.Increment(it.Power)
		res.Amount = u.MP.Current - before
	case domain.EffectXP:
		res.Amount = it.Power
		res.Levels = u.GainXP(it.Power)
	default:
		res.Amount = it.Power
	}

	RemoveHeld(actor, from, item.ID)
	return res, nil
}

// --- helpers ---

// FindHeld ищет предмет в контейнере игрока, включая экипировку
func FindHeld(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID) *domain.Entity {
	if actor.Player == nil {
		return nil
	}
	if from == domain.InventoryEquip {
		_, it := actor.Player.Equipment.Find(itemID)
		return it
	}
	if c := actor.Player.Container(from); c != nil {
		return c.Find(itemID)
	}
	return nil
}

// RemoveHeld достает предмет из контейнера игрока
func RemoveHeld(actor *domain.Entity, from domain.InventoryType, itemID domain.EntityID) *domain.Entity {
	if actor.Player == nil {
		return nil
	}
	if from == domain.InventoryEquip {
		slot, it := actor.Player.Equipment.Find(itemID)
		if it == nil {
			return nil
		}
		return actor.Player.Equipment.Unequip(slot)
	}
	if c := actor.Player.Container(from); c != nil {
		return c.Remove(itemID)
	}
	return nil
}
