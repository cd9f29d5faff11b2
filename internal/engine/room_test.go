package engine

import (
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinTestPlayer(t *testing.T, r *Room, clientID string) *domain.Entity {
	t.Helper()
	p, err := r.Join(clientID, newHero("hero-"+clientID))
	require.NoError(t, err)
	return p
}

// --- Вход / выход ---

func TestRoom_JoinPlacement(t *testing.T) {
	t.Run("Новый герой у входа", func(t *testing.T) {
		r := newTestRoom(t)
		p := joinTestPlayer(t, r, "c1")
		assert.Equal(t, pos(2, 2), p.Pos)
		assert.Equal(t, dungeon.RoomDungeon, p.Player.CurrentRoom)
		assert.Equal(t, 2, p.Player.LatestProgress)
	})

	t.Run("Пришел снизу - у выхода", func(t *testing.T) {
		r := newTestRoom(t)
		hero := newHero("h")
		hero.CurrentProgress = 3
		p, err := r.Join("c1", hero)
		require.NoError(t, err)
		assert.Equal(t, pos(9, 9), p.Pos)
	})

	t.Run("Переподключение - своя клетка", func(t *testing.T) {
		r := newTestRoom(t)
		hero := newHero("h")
		hero.CurrentProgress = 2
		hero.CurrentRoom = dungeon.RoomDungeon
		c := pos(5, 6)
		hero.CurrentCoords = &c
		p, err := r.Join("c1", hero)
		require.NoError(t, err)
		assert.Equal(t, pos(5, 6), p.Pos)
	})

	t.Run("Клетка входа занята - соседняя", func(t *testing.T) {
		r := newTestRoom(t)
		first := joinTestPlayer(t, r, "c1")
		second := joinTestPlayer(t, r, "c2")
		assert.NotEqual(t, first.Pos, second.Pos)
		assert.LessOrEqual(t, max(abs(second.Pos.X-2), abs(second.Pos.Y-2)), 1)
	})
}

func TestRoom_JoinErrors(t *testing.T) {
	r := newTestRoom(t)
	r.capacity = 1
	joinTestPlayer(t, r, "c1")

	_, err := r.Join("c1", newHero("again"))
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = r.Join("c2", newHero("other"))
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, 1, r.PlayerCount())
}

func TestRoom_Leave(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	p.Player.Gold = 42
	require.NoError(t, r.World.MoveEntity(p, pos(4, 4)))

	snap, err := r.Leave("c1", true)
	require.NoError(t, err)
	assert.Equal(t, 42, snap.Gold)
	assert.Equal(t, 2, snap.CurrentProgress)
	require.NotNil(t, snap.CurrentCoords)
	assert.Equal(t, pos(4, 4), *snap.CurrentCoords)

	assert.Nil(t, r.World.GetEntity(p.ID))
	assert.Zero(t, r.PlayerCount())
	assert.False(t, r.deadLeft)

	_, err = r.Leave("c1", true)
	assert.ErrorIs(t, err, ErrUnknownClient)
}

func TestRoom_LeaveDeadRemembersIt(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	p.Unit.TakeDamage(p.Unit.HP.Max*10, domain.NilEntityID)

	snap, err := r.Leave("c1", true)
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentCoords, "мертвый не сохраняет клетку")
	assert.True(t, r.deadLeft)
}

// --- Тик ---

func TestRoom_UpdateWithoutPlayersOnlyCountsTicks(t *testing.T) {
	r := newTestRoom(t)
	text := &domain.Entity{Kind: domain.KindText, Pos: pos(3, 3), Walkable: true, TTL: 1}
	r.AddEntity(text)

	runTicks(r, 5)
	assert.Equal(t, int64(5), r.Tick)
	assert.NotNil(t, r.World.GetEntity(text.ID), "мир без игроков стоит")
}

func TestRoom_ExpiredEntitiesRemoved(t *testing.T) {
	r := newTestRoom(t)
	joinTestPlayer(t, r, "c1")
	r.AddText(r.Players()[0], "hello", domain.TextChat)

	texts := func() int {
		n := 0
		for _, e := range r.World.Entities() {
			if e.Kind == domain.KindText {
				n++
			}
		}
		return n
	}
	require.Equal(t, 1, texts())

	ticks := int(domain.ChatTTL/r.interval) + 1
	runTicks(r, ticks)
	assert.Zero(t, texts())
}

// --- Движение ---

func TestRoom_MoveIsIdempotent(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")

	assert.True(t, r.Move(p, pos(2, 6), true))
	assert.False(t, r.Move(p, pos(2, 6), true), "та же точка - без пересчета")
	assert.False(t, r.Move(p, p.Pos, true), "уже на месте")
	assert.True(t, r.Move(p, pos(6, 2), true))
	assert.Equal(t, pos(6, 2), p.Unit.Movement.Destiny)
}

func TestRoom_MoveReachesDestiny(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")

	require.True(t, r.Move(p, pos(2, 5), true))
	runUntilIdle(r, p, 500)
	assert.Equal(t, pos(2, 5), p.Pos)
	assert.Equal(t, p, r.World.EntityAt(2, 5, domain.AliveUnit))
}

func TestRoom_DeadUnitDoesNotMove(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	p.Unit.TakeDamage(p.Unit.HP.Max*10, domain.NilEntityID)
	assert.False(t, r.Move(p, pos(5, 5), true))
}

// --- Взаимодействия ---

func TestRoom_DoorSendsPlayerForward(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	r.AddEntity(&domain.Entity{
		Kind:        domain.KindDoor,
		Pos:         pos(2, 5),
		Walkable:    true,
		Interactive: &domain.InteractiveComponent{Progress: domain.DoorForward},
	})

	require.True(t, r.Move(p, pos(2, 5), true))
	events := runUntilIdle(r, p, 500)

	ev := findEvent(events, domain.EventGoto)
	require.NotNil(t, ev)
	assert.Equal(t, "c1", ev.ClientID)
	assert.Equal(t, 3, ev.Progress)
	assert.Equal(t, dungeon.RoomDungeon, ev.Room)
	assert.True(t, hasSound(events, domain.SoundDoor))
}

func TestRoom_DoorTarget(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	p.Player.LatestProgress = 7

	assert.Equal(t, 3, r.doorTarget(p, domain.DoorForward))
	assert.Equal(t, 1, r.doorTarget(p, domain.DoorBack))
	assert.Equal(t, 7, r.doorTarget(p, domain.DoorLatest))
	assert.Equal(t, 5, r.doorTarget(p, 5))

	p.Player.LatestProgress = 1
	assert.Equal(t, 2, r.doorTarget(p, domain.DoorLatest), "из замка минимум на первый этаж")
}

func TestRoom_ChestOpensOnce(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	chest := &domain.Entity{
		Kind:        domain.KindChest,
		Pos:         pos(2, 4),
		Interactive: &domain.InteractiveComponent{},
	}
	r.AddEntity(chest)

	require.True(t, r.Move(p, chest.Pos, true))
	events := runUntilIdle(r, p, 500)

	assert.True(t, chest.Interactive.Open)
	assert.True(t, hasSound(events, domain.SoundChest))
	assert.Equal(t, pos(2, 3), p.Pos, "сундук непроходим")

	countItems := func() int {
		n := 0
		for _, e := range r.World.Entities() {
			if e.Kind == domain.KindItem {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, countItems())

	// второй раз пусто
	r.interact(p, chest)
	assert.Equal(t, 1, countItems())
}

func TestRoom_FountainHeals(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	p.Unit.TakeDamage(p.Unit.HP.Max/2, domain.NilEntityID)
	require.Less(t, p.Unit.HP.Current, p.Unit.HP.Max)

	fountain := &domain.Entity{
		Kind:        domain.KindFountain,
		Pos:         pos(2, 4),
		Interactive: &domain.InteractiveComponent{Cooldown: domain.FountainCooldown},
	}
	r.AddEntity(fountain)

	require.True(t, r.Move(p, fountain.Pos, true))
	events := runUntilIdle(r, p, 500)

	assert.Equal(t, p.Unit.HP.Max, p.Unit.HP.Current)
	assert.Equal(t, p.Unit.MP.Max, p.Unit.MP.Current)
	assert.True(t, hasSound(events, domain.SoundFountain))
	assert.False(t, fountain.Interactive.Ready(r.Now()), "перезарядка")
}

func TestRoom_CheckpointUnlocks(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	r.AddEntity(&domain.Entity{
		Kind:        domain.KindCheckpoint,
		Pos:         pos(2, 4),
		Walkable:    true,
		Interactive: &domain.InteractiveComponent{Progress: 2},
	})

	require.True(t, r.Move(p, pos(2, 4), true))
	events := runUntilIdle(r, p, 500)

	assert.True(t, p.Player.HasCheckpoint(2))
	ev := findEvent(events, domain.EventSend)
	require.NotNil(t, ev)
	assert.Equal(t, map[string]any{"checkpoint": 2}, ev.Payload)
}

func TestRoom_PickupOnArrival(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	item := dungeon.ItemEntity(dungeon.NewItem("hp-potion", 2), pos(2, 4))
	r.AddEntity(item)

	require.True(t, r.Move(p, item.Pos, true))
	events := runUntilIdle(r, p, 500)

	assert.Nil(t, r.World.GetEntity(item.ID), "предмет ушел с пола")
	assert.NotNil(t, p.Player.QuickInventory.Find(item.ID))
	assert.True(t, hasSound(events, domain.SoundPickItem))
}

func TestRoom_PortalOnlyOutsideLobby(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")

	require.True(t, r.OpenPortal(p))
	assert.Equal(t, int64(domain.PortalTTL), r.PortalRemaining())

	lobby := NewRoom(dungeon.RoomLobby, dungeon.LobbyProgress, "lobby-seed", testConfig(), newTestMetrics())
	lobby.World = openWorld(12, 12, 1)
	lobby.Start = pos(2, 2)
	hero, err := lobby.Join("c2", newHero("h2"))
	require.NoError(t, err)
	assert.False(t, lobby.OpenPortal(hero))
}

// --- Смерть ---

func TestRoom_DeathProcessedOnce(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	enemy := dungeon.EnemyTemplates["rat"].SpawnEnemy("rat", pos(6, 6), 1)
	r.AddEntity(enemy)

	_, died := enemy.Unit.TakeDamage(enemy.Unit.HP.Max*10, p.ID)
	require.True(t, died)

	r.processDeath(enemy, r.Now())
	xp, lvl := p.Unit.XP.Current, p.Unit.Lvl
	assert.True(t, xp > 0 || lvl > 1, "опыт начислен")

	r.processDeath(enemy, r.Now())
	assert.Equal(t, xp, p.Unit.XP.Current, "второй раз опыт не дают")
	assert.Equal(t, lvl, p.Unit.Lvl)

	assert.True(t, enemy.Unit.DeathProcessed)
	assert.True(t, enemy.Walkable)
	assert.Equal(t, int64(domain.CorpseTTL), enemy.TTL)
	assert.True(t, hasSound(r.Drain(), domain.SoundDie))

	// труп исчезает по TTL
	runTicks(r, int(domain.CorpseTTL/r.interval)+1)
	assert.Nil(t, r.World.GetEntity(enemy.ID))
}

func TestRoom_SpawnerLeavesChildren(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	mother := dungeon.EnemyTemplates["slime-big"].SpawnEnemy("slime-big", pos(6, 6), 1)
	r.AddEntity(mother)

	mother.Unit.TakeDamage(mother.Unit.HP.Max*10, p.ID)
	r.processDeath(mother, r.Now())

	var children []*domain.Entity
	for _, e := range r.World.Entities() {
		if e.Kind == domain.KindEnemy && e.IsAlive() {
			children = append(children, e)
		}
	}
	require.Len(t, children, 2)
	assert.NotEqual(t, children[0].Pos, children[1].Pos)
	for _, c := range children {
		assert.False(t, c.Unit.GivesXP)
	}
}

func TestRoom_CastFireKills(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	enemy := dungeon.EnemyTemplates["rat"].SpawnEnemy("rat", pos(5, 5), 1)
	r.AddEntity(enemy)

	assert.Equal(t, 0, r.CastFire(p, pos(7, 7), 10), "пустая клетка")
	assert.Equal(t, 1, r.CastFire(p, enemy.Pos, enemy.Unit.HP.Max*10))
	assert.False(t, enemy.IsAlive())
	assert.True(t, enemy.Unit.DeathProcessed)
}

func TestRoom_EnemyChasesAndFightsPlayer(t *testing.T) {
	r := newTestRoom(t)
	p := joinTestPlayer(t, r, "c1")
	enemy := dungeon.EnemyTemplates["rat"].SpawnEnemy("rat", pos(5, 2), 1)
	r.AddEntity(enemy)

	for i := 0; i < 1000 && p.Unit.HP.Current == p.Unit.HP.Max; i++ {
		r.Update()
		r.Drain()
	}

	assert.Equal(t, p.ID, enemy.Unit.Movement.TargetID)
	dist := max(abs(enemy.Pos.X-p.Pos.X), abs(enemy.Pos.Y-p.Pos.Y))
	assert.Equal(t, 1, dist, "крыса подошла вплотную")
	assert.Less(t, p.Unit.HP.Current, p.Unit.HP.Max, "и кусается")
}
