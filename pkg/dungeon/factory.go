package dungeon

import (
	"github.com/h918m/mazmorra/internal/domain"
)

// CreatePlayer собирает сущность игрока из сохраненного героя.
// Предметы получают ID из мира, но в реестр не попадают (они в инвентаре).
func CreatePlayer(world *domain.GameWorld, hero *domain.HeroSnapshot, clientID string, pos domain.Position) *domain.Entity {
	primary := hero.Primary
	if _, ok := domain.ParseAttribute(string(primary)); !ok {
		primary = domain.AttrStrength
	}

	unit := domain.NewUnit(hero.Lvl, primary, hero.Attributes, domain.PlayerBaseHP, domain.PlayerBaseMP)
	unit.PointsToDistribute = hero.PointsToDistribute

	player := &domain.PlayerComponent{
		ClientID:       clientID,
		HeroID:         hero.ID,
		Inventory:      domain.NewInventory(domain.InventoryCapacity),
		QuickInventory: domain.NewInventory(domain.QuickInventoryCapacity),
		Equipment:      domain.NewEquipment(),
		Gold:           hero.Gold,
		Diamond:        hero.Diamond,
		LatestProgress: max(hero.LatestProgress, hero.CurrentProgress),
		Checkpoints:    append([]int(nil), hero.Checkpoints...),
	}

	for _, it := range hero.Inventory {
		player.Inventory.Add(heldItem(world, it))
	}
	for _, it := range hero.QuickInventory {
		player.QuickInventory.Add(heldItem(world, it))
	}
	for _, slot := range domain.SlotOrder {
		if it, ok := hero.Equipment[slot]; ok && it != nil {
			player.Equipment.Equip(heldItem(world, it))
		}
	}
	unit.RecalculateStatsModifiers(player.Equipment.Items())

	// Мертвый или новый герой возвращается с полными полосами
	if hero.HP > 0 {
		unit.HP.Set(hero.HP)
		unit.MP.Set(hero.MP)
	} else {
		unit.HP.Fill()
		unit.MP.Fill()
	}
	unit.XP.Current = hero.XP

	return &domain.Entity{
		Kind:   domain.KindPlayer,
		Name:   hero.Name,
		Caps:   domain.CapInventory | domain.CapClientControlled,
		Pos:    pos,
		Unit:   unit,
		Player: player,
	}
}

func heldItem(world *domain.GameWorld, it *domain.ItemComponent) *domain.Entity {
	e := ItemEntity(it.Clone(), domain.Position{})
	e.ID = world.NextID(domain.KindItem)
	return e
}

// SnapshotPlayer - обратное преобразование: состояние игрока для сохранения
func SnapshotPlayer(e *domain.Entity, base *domain.HeroSnapshot, progress int, room string) *domain.HeroSnapshot {
	snap := *base
	u, p := e.Unit, e.Player

	snap.Lvl = u.Lvl
	snap.Primary = u.Primary
	snap.Attributes = u.Attributes
	snap.PointsToDistribute = u.PointsToDistribute
	snap.HP = u.HP.Current
	snap.MP = u.MP.Current
	snap.XP = u.XP.Current
	snap.Gold = p.Gold
	snap.Diamond = p.Diamond

	snap.Inventory = itemsOf(p.Inventory)
	snap.QuickInventory = itemsOf(p.QuickInventory)
	snap.Equipment = make(map[domain.Slot]*domain.ItemComponent, len(p.Equipment.Slots))
	for slot, it := range p.Equipment.Slots {
		snap.Equipment[slot] = it.Item.Clone()
	}

	snap.CurrentProgress = progress
	snap.CurrentRoom = room
	snap.LatestProgress = max(p.LatestProgress, progress)
	snap.Checkpoints = append([]int(nil), p.Checkpoints...)
	snap.CurrentCoords = nil
	if p.SavedCoords != nil {
		c := *p.SavedCoords
		snap.CurrentCoords = &c
	}
	return &snap
}

func itemsOf(inv *domain.Inventory) []*domain.ItemComponent {
	out := make([]*domain.ItemComponent, 0, len(inv.Items))
	for _, it := range inv.Items {
		out = append(out, it.Item.Clone())
	}
	return out
}
