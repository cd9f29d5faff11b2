package engine

import (
	"encoding/json"
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/internal/engine/handlers/actions"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// giveItem кладет предмет в контейнер игрока
func giveItem(r *Room, player *domain.Entity, template string, to domain.InventoryType) *domain.Entity {
	item := dungeon.ItemEntity(dungeon.NewItem(template, r.Progress), domain.Position{})
	item.ID = r.World.NextID(domain.KindItem)
	player.Player.Container(to).Add(item)
	return item
}

func TestDispatch_Errors(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")

	err := r.Dispatch("ghost", domain.ActionMove, payload(t, api.MovePayload{X: 3, Y: 3}))
	assert.ErrorIs(t, err, ErrUnknownClient)

	err = r.Dispatch("c1", domain.ActionJoin, nil)
	assert.ErrorIs(t, err, ErrUnknownAction)

	err = r.Dispatch("c1", domain.ActionMove, json.RawMessage(`{"x":`))
	assert.Error(t, err)

	err = r.Dispatch("c1", domain.ActionMove, payload(t, api.MovePayload{X: -1, Y: 3}))
	assert.Error(t, err)

	p.Unit.TakeDamage(p.Unit.HP.Max*10, domain.NilEntityID)
	err = r.Dispatch("c1", domain.ActionMove, payload(t, api.MovePayload{X: 3, Y: 3}))
	assert.ErrorIs(t, err, handlers.ErrActorUnavailable)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.metrics.Intents.WithLabelValues("move", "rejected")))
}

func TestDispatch_MoveRecordsReplay(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	runTicks(r, 3)

	raw := payload(t, api.MovePayload{X: 2, Y: 6})
	require.NoError(t, r.Dispatch("c1", domain.ActionMove, raw))
	assert.Equal(t, pos(2, 6), p.Unit.Movement.Destiny)

	last := r.Replay.Actions[len(r.Replay.Actions)-1]
	assert.Equal(t, domain.ActionMove, last.Action)
	assert.Equal(t, int64(3), last.Tick)
	assert.JSONEq(t, string(raw), string(last.Payload))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.metrics.Intents.WithLabelValues("move", "ok")))

	// клетка вне карты игнорируется
	require.NoError(t, r.Dispatch("c1", domain.ActionMove, payload(t, api.MovePayload{X: 100, Y: 1})))
	assert.Equal(t, pos(2, 6), p.Unit.Movement.Destiny)
}

func TestDispatch_DistributePoint(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	before := p.Unit.Attributes.Agility

	// очков нет - ничего не происходит, но и ошибки нет
	require.NoError(t, r.Dispatch("c1", domain.ActionDistributePoint,
		payload(t, api.DistributePointPayload{Attribute: string(domain.AttrAgility)})))
	assert.Equal(t, before, p.Unit.Attributes.Agility)

	p.Unit.PointsToDistribute = 1
	require.NoError(t, r.Dispatch("c1", domain.ActionDistributePoint,
		payload(t, api.DistributePointPayload{Attribute: string(domain.AttrAgility)})))
	assert.Equal(t, before+1, p.Unit.Attributes.Agility)
	assert.Zero(t, p.Unit.PointsToDistribute)

	err := r.Dispatch("c1", domain.ActionDistributePoint, payload(t, api.DistributePointPayload{Attribute: "luck"}))
	assert.Error(t, err)
}

func TestDispatch_UseHealthPotion(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	potion := giveItem(r, p, "hp-potion", domain.InventoryQuick)
	p.Unit.TakeDamage(p.Unit.HP.Max/2, domain.NilEntityID)
	hp := p.Unit.HP.Current

	require.NoError(t, r.Dispatch("c1", domain.ActionUseItem,
		payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: potion.ID})))

	assert.Greater(t, p.Unit.HP.Current, hp)
	assert.Nil(t, p.Player.QuickInventory.Find(potion.ID))
	assert.True(t, hasSound(r.Drain(), domain.SoundPotion))

	err := r.Dispatch("c1", domain.ActionUseItem,
		payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: potion.ID}))
	assert.ErrorIs(t, err, systems.ErrItemNotFound)
}

func TestDispatch_PortalScroll(t *testing.T) {
	t.Run("В подземелье открывает портал", func(t *testing.T) {
		r := newTestRoom(t)
		p := joinTestPlayer(t, r, "c1")
		scroll := giveItem(r, p, "scroll-portal", domain.InventoryQuick)
		mp := p.Unit.MP.Current

		require.NoError(t, r.Dispatch("c1", domain.ActionUseItem,
			payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: scroll.ID})))

		assert.Nil(t, p.Player.QuickInventory.Find(scroll.ID))
		assert.Less(t, p.Unit.MP.Current, mp)

		var portal *domain.Entity
		for _, e := range r.World.Entities() {
			if e.Kind == domain.KindPortal {
				portal = e
			}
		}
		require.NotNil(t, portal)
		assert.Equal(t, dungeon.RoomLobby, portal.Interactive.Room)
		assert.True(t, hasSound(r.Drain(), domain.SoundCast))
	})

	t.Run("В замке свиток остается", func(t *testing.T) {
		r := NewRoom(dungeon.RoomLobby, dungeon.LobbyProgress, "lobby-seed", testConfig(), newTestMetrics())
		r.World = openWorld(12, 12, 1)
		r.Start = pos(2, 2)
		p := joinTestPlayer(t, r, "c1")
		scroll := giveItem(r, p, "scroll-portal", domain.InventoryQuick)

		err := r.Dispatch("c1", domain.ActionUseItem,
			payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: scroll.ID}))
		assert.ErrorIs(t, err, actions.ErrPortalUnavailable)
		assert.NotNil(t, p.Player.QuickInventory.Find(scroll.ID))
	})

	t.Run("Неприменимый свиток портал не открывает", func(t *testing.T) {
		r := newTestRoom(t)
		p := joinTestPlayer(t, r, "c1")
		scroll := giveItem(r, p, "scroll-portal", domain.InventoryQuick)
		scroll.Item.Kind = domain.ItemWeapon
		mp := p.Unit.MP.Current

		err := r.Dispatch("c1", domain.ActionUseItem,
			payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: scroll.ID}))
		assert.ErrorIs(t, err, systems.ErrNotUsable)
		assert.NotNil(t, p.Player.QuickInventory.Find(scroll.ID))
		assert.Equal(t, mp, p.Unit.MP.Current)
		for _, e := range r.World.Entities() {
			assert.NotEqual(t, domain.KindPortal, e.Kind, "портал без расхода свитка")
		}
	})

	t.Run("Без маны портал не открывается", func(t *testing.T) {
		r := newTestRoom(t)
		p := joinTestPlayer(t, r, "c1")
		scroll := giveItem(r, p, "scroll-portal", domain.InventoryQuick)
		p.Unit.MP.Set(0)

		err := r.Dispatch("c1", domain.ActionUseItem,
			payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: scroll.ID}))
		assert.ErrorIs(t, err, systems.ErrNotEnoughMana)
		assert.NotNil(t, p.Player.QuickInventory.Find(scroll.ID))
		for _, e := range r.World.Entities() {
			assert.NotEqual(t, domain.KindPortal, e.Kind)
		}
	})
}

func TestDispatch_CastFire(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	enemy := dungeon.EnemyTemplates["rat"].SpawnEnemy("rat", pos(6, 2), 1)
	r.AddEntity(enemy)
	scroll := giveItem(r, p, "scroll-fire", domain.InventoryQuick)

	cast := func(at domain.Position) error {
		return r.Dispatch("c1", domain.ActionCast, payload(t, api.CastPayload{
			InventoryType: domain.InventoryQuick,
			ItemID:        scroll.ID,
			Position:      at,
		}))
	}

	// 1. Пустая клетка
	assert.ErrorIs(t, cast(pos(7, 7)), systems.ErrNeedsTarget)

	// 2. Стена на линии
	r.World.Grid.Set(4, 2, domain.TileWall)
	assert.ErrorIs(t, cast(enemy.Pos), actions.ErrNoLineOfSight)
	assert.NotNil(t, p.Player.QuickInventory.Find(scroll.ID), "свиток не сгорел")

	// 3. Попадание
	r.World.Grid.Set(4, 2, domain.TileFloor)
	hp := enemy.Unit.HP.Current
	require.NoError(t, cast(enemy.Pos))
	assert.Less(t, enemy.Unit.HP.Current, hp)
	assert.Nil(t, p.Player.QuickInventory.Find(scroll.ID))
	assert.Equal(t, domain.DirectionRight, p.Unit.Direction)
}

func TestDispatch_InventoryDragEquipAndSell(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	sword := giveItem(r, p, "sword", domain.InventoryMain)
	damage := p.Unit.Mod(domain.StatDamage)

	require.NoError(t, r.Dispatch("c1", domain.ActionInventoryDrag, payload(t, api.InventoryDragPayload{
		FromType: domain.InventoryMain,
		ToType:   domain.InventoryEquip,
		ItemID:   sword.ID,
	})))
	assert.Nil(t, p.Player.Inventory.Find(sword.ID))
	assert.Greater(t, p.Unit.Mod(domain.StatDamage), damage, "модификаторы пересчитаны")
	assert.True(t, hasSound(r.Drain(), domain.SoundEquip))

	require.NoError(t, r.Dispatch("c1", domain.ActionInventorySell, payload(t, api.InventorySellPayload{
		FromType: domain.InventoryEquip,
		ItemID:   sword.ID,
	})))
	assert.Equal(t, sword.Item.Price, p.Player.Gold)
	assert.Equal(t, damage, p.Unit.Mod(domain.StatDamage))
	assert.True(t, hasSound(r.Drain(), domain.SoundSell))
}

func TestDispatch_DropItem(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	potion := giveItem(r, p, "mp-potion", domain.InventoryQuick)

	require.NoError(t, r.Dispatch("c1", domain.ActionDropItem,
		payload(t, api.ItemPayload{InventoryType: domain.InventoryQuick, ItemID: potion.ID})))

	assert.Nil(t, p.Player.QuickInventory.Find(potion.ID))
	dropped := r.World.EntityAt(p.Pos.X, p.Pos.Y, domain.OfKind(domain.KindItem))
	require.NotNil(t, dropped)
	assert.Equal(t, "mp-potion", dropped.Item.Template)
}

func TestDispatch_Checkpoint(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")

	err := r.Dispatch("c1", domain.ActionCheckpoint, payload(t, api.CheckpointPayload{Progress: 4}))
	assert.ErrorIs(t, err, actions.ErrUnknownCheckpoint)

	p.Player.AddCheckpoint(4)
	require.NoError(t, r.Dispatch("c1", domain.ActionCheckpoint, payload(t, api.CheckpointPayload{Progress: 4})))

	ev := findEvent(r.Drain(), domain.EventGoto)
	require.NotNil(t, ev)
	assert.Equal(t, 4, ev.Progress)
	assert.True(t, ev.IsCheckPoint)
	assert.Equal(t, dungeon.RoomDungeon, ev.Room)
}

func TestDispatch_Message(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")

	require.NoError(t, r.Dispatch("c1", domain.ActionMessage, payload(t, api.MessagePayload{Text: "  привет  "})))

	chat := r.World.EntityAt(p.Pos.X, p.Pos.Y, domain.OfKind(domain.KindText))
	require.NotNil(t, chat)
	assert.Equal(t, "привет", chat.Text.Text)
	assert.Equal(t, domain.TextChat, chat.Text.Style)
	assert.Equal(t, int64(domain.ChatTTL), chat.TTL)

	err := r.Dispatch("c1", domain.ActionMessage, payload(t, api.MessagePayload{Text: "   "}))
	assert.Error(t, err)
}
