package dungeon

import (
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapConfigFor(t *testing.T) {
	lobby := MapConfigFor(1)
	assert.True(t, lobby.IsLobby)
	assert.Equal(t, 1, lobby.NumRooms)
	assert.Empty(t, lobby.Enemies)
	assert.Equal(t, domain.Position{X: 12, Y: 12}, lobby.Size)
	assert.Equal(t, domain.Position{X: 10, Y: 10}, lobby.MinRoom)
	assert.Equal(t, domain.Position{X: 12, Y: 12}, lobby.MaxRoom)

	cfg := MapConfigFor(10)
	assert.Equal(t, domain.Position{X: 19, Y: 19}, cfg.Size)
	assert.Equal(t, domain.Position{X: 6, Y: 6}, cfg.MinRoom)
	assert.Equal(t, domain.Position{X: 10, Y: 10}, cfg.MaxRoom)
	assert.Equal(t, 3, cfg.NumRooms)
	assert.NotEmpty(t, cfg.Enemies)

	// на глубине комнаты растут вместе с картой
	deep := MapConfigFor(60)
	assert.Equal(t, domain.Position{X: 44, Y: 44}, deep.Size)
	assert.Equal(t, domain.Position{X: 14, Y: 14}, deep.MinRoom)
	assert.Equal(t, domain.Position{X: 18, Y: 18}, deep.MaxRoom)
	assert.Equal(t, 5, deep.NumRooms)

	assert.Equal(t, 2, MapConfigFor(2).NumRooms, "минимум две комнаты")
	assert.True(t, MapConfigFor(7).IsCheckpoint)
	assert.False(t, MapConfigFor(8).IsCheckpoint)
	assert.True(t, MapConfigFor(19).IsBoss)
	assert.Equal(t, "golem-king", MapConfigFor(39).Boss)

	for _, c := range []MapConfig{MapConfigFor(3), MapConfigFor(12), MapConfigFor(25), MapConfigFor(60)} {
		for _, name := range c.Enemies {
			_, ok := EnemyTemplates[name]
			assert.True(t, ok, "шаблон %q должен существовать", name)
		}
	}
}

func TestBuildLevel_Dungeon(t *testing.T) {
	cfg := MapConfigFor(7)
	world, start, end := BuildLevel(cfg, utils.NewRand(RoomSeed("test", "dungeon", 7)))
	require.NotNil(t, world)
	require.NotEmpty(t, world.Rooms)

	assert.True(t, world.Grid.IsFloor(start.X, start.Y), "старт на полу")
	assert.True(t, world.Grid.IsFloor(end.X, end.Y), "выход на полу")

	var doors, checkpoints int
	for _, e := range world.Entities() {
		assert.True(t, world.Grid.IsFloor(e.Pos.X, e.Pos.Y), "%s стоит на полу", e.Name)
		switch e.Kind {
		case domain.KindDoor:
			doors++
		case domain.KindCheckpoint:
			checkpoints++
		case domain.KindEnemy:
			assert.False(t, world.Rooms[0].Contains(e.Pos), "в первой комнате врагов нет")
			assert.GreaterOrEqual(t, e.Unit.Lvl, 1)
			assert.True(t, e.IsAlive())
			assert.True(t, e.Has(domain.CapAI))
		}
	}
	assert.Equal(t, 2, doors)
	assert.Equal(t, 1, checkpoints, "уровень 7 - чекпоинт")
}

func TestBuildLevel_Deterministic(t *testing.T) {
	w1, _, _ := BuildLevel(MapConfigFor(12), utils.NewRand("same"))
	w2, _, _ := BuildLevel(MapConfigFor(12), utils.NewRand("same"))

	e1, e2 := w1.Entities(), w2.Entities()
	require.Equal(t, len(e1), len(e2))
	for i := range e1 {
		assert.Equal(t, e1[i].ID, e2[i].ID)
		assert.Equal(t, e1[i].Pos, e2[i].Pos)
		assert.Equal(t, e1[i].Name, e2[i].Name)
	}
}

func TestBuildLevel_Lobby(t *testing.T) {
	world, _, _ := BuildLevel(MapConfigFor(1), utils.NewRand("castleseed1"))
	kinds := map[domain.EntityKind]int{}
	for _, e := range world.Entities() {
		kinds[e.Kind]++
	}
	assert.Equal(t, 0, kinds[domain.KindEnemy])
	assert.Equal(t, 2, kinds[domain.KindDoor])
	assert.Equal(t, 2, kinds[domain.KindNPC])
	assert.Equal(t, 1, kinds[domain.KindFountain])
}

func TestSpawnEnemy_LevelScaling(t *testing.T) {
	tpl := EnemyTemplates["skeleton"]
	lvl1 := tpl.SpawnEnemy("skeleton", domain.Position{}, 1)
	lvl4 := tpl.SpawnEnemy("skeleton", domain.Position{}, 4)

	assert.Equal(t, 4, lvl4.Unit.Lvl)
	assert.Equal(t, tpl.Attributes.Strength+3*domain.PointsPerLevel, lvl4.Unit.Attributes.Strength)
	assert.Greater(t, lvl4.Unit.HP.Max, lvl1.Unit.HP.Max)
	assert.Equal(t, lvl4.Unit.HP.Max, lvl4.Unit.HP.Current)
	assert.Equal(t, 0, lvl4.Unit.PointsToDistribute)

	slime := EnemyTemplates["slime"].SpawnEnemy("slime", domain.Position{}, 1)
	assert.Equal(t, 3.0, slime.AI.Distance, "слизни близоруки")
}

func TestRollLoot(t *testing.T) {
	rng := utils.NewRand("loot")
	drops := 0
	for i := 0; i < 200; i++ {
		if it := RollLoot(rng, 5, false); it != nil {
			drops++
			assert.NotEmpty(t, it.Name)
		}
	}
	assert.Greater(t, drops, 0)
	assert.Less(t, drops, 200)
	assert.NotNil(t, RollLoot(rng, 5, true), "босс дропает всегда")
}

func TestNewItem_Scaling(t *testing.T) {
	sword1 := NewItem("sword", 1)
	sword11 := NewItem("sword", 11)
	assert.Equal(t, 2.0, sword1.Modifiers[domain.StatDamage])
	assert.Equal(t, 6.0, sword11.Modifiers[domain.StatDamage])
	assert.Equal(t, 2.0, NewItem("bow", 20).Modifiers[domain.StatAttackDistance], "дальность не масштабируется")
	assert.Nil(t, NewItem("nope", 1))
}

func TestCreatePlayer_SnapshotRoundTrip(t *testing.T) {
	world, start, _ := BuildLevel(MapConfigFor(3), utils.NewRand("players"))
	hero := domain.NewHero("hero-1", "Арагорн", domain.AttrStrength)
	hero.Inventory = []*domain.ItemComponent{NewItem("hp-potion", 1)}
	hero.Equipment[domain.SlotLeft] = NewItem("sword", 1)
	hero.Gold = 7

	p := CreatePlayer(world, hero, "client-1", start)
	require.NotNil(t, p.Player)
	assert.Equal(t, p.Unit.HP.Max, p.Unit.HP.Current, "новый герой с полным здоровьем")
	assert.Equal(t, 2.0, p.Unit.Modifiers[domain.StatDamage], "экипировка учтена")
	assert.True(t, p.Has(domain.CapClientControlled))
	assert.Len(t, p.Player.Inventory.Items, 1)
	assert.False(t, p.Player.Inventory.Items[0].ID.IsNil())

	p.Unit.HP.Set(3)
	p.Player.Gold = 50
	snap := SnapshotPlayer(p, hero, 3, "dungeon")
	assert.Equal(t, 3.0, snap.HP)
	assert.Equal(t, 50, snap.Gold)
	assert.Equal(t, 3, snap.CurrentProgress)
	assert.Equal(t, 3, snap.LatestProgress)
	assert.Equal(t, "dungeon", snap.CurrentRoom)
	assert.Len(t, snap.Inventory, 1)
	assert.Equal(t, "sword", snap.Equipment[domain.SlotLeft].Template)
	assert.Equal(t, 7, hero.Gold, "исходный снапшот не меняется")
}
