package engine

import (
	"os"
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func TestMain(m *testing.M) {
	logger.Init("error", "text")
	domain.StrictInvariants = true

	os.Exit(m.Run())
}

func newTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func testConfig() Config {
	cfg := NewConfig()
	cfg.Seed = "test-seed"
	return cfg
}

// openWorld - комната w x h: кольцо стен, внутри пол
func openWorld(w, h, progress int) *domain.GameWorld {
	g := domain.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				g.Set(x, y, domain.TileWall)
			} else {
				g.Set(x, y, domain.TileFloor)
			}
		}
	}
	return domain.NewGameWorld(g, []domain.Rect{{X: 1, Y: 1, W: w - 2, H: h - 2}}, progress)
}

// newTestRoom - комната второго уровня на пустой карте 12x12: вход (2,2), выход (9,9)
func newTestRoom(t *testing.T) *Room {
	t.Helper()
	r := NewRoom(dungeon.RoomDungeon, 2, "room-seed", testConfig(), newTestMetrics())
	r.World = openWorld(12, 12, 2)
	r.Start = pos(2, 2)
	r.End = pos(9, 9)
	return r
}

func pos(x, y int) domain.Position {
	return domain.Position{X: x, Y: y}
}

func newHero(id string) *domain.HeroSnapshot {
	return domain.NewHero(id, "Hero "+id, domain.AttrStrength)
}

// runUntilIdle крутит тики, пока юнит не закончит путь; возвращает все события
func runUntilIdle(r *Room, unit *domain.Entity, limit int) []domain.OutboundEvent {
	var events []domain.OutboundEvent
	for i := 0; i < limit; i++ {
		r.Update()
		events = append(events, r.Drain()...)
		if !unit.Unit.Movement.IsFollowing() {
			break
		}
	}
	return events
}

func runTicks(r *Room, n int) []domain.OutboundEvent {
	var events []domain.OutboundEvent
	for i := 0; i < n; i++ {
		r.Update()
		events = append(events, r.Drain()...)
	}
	return events
}

func findEvent(events []domain.OutboundEvent, t domain.EventType) *domain.OutboundEvent {
	for i := range events {
		if events[i].Type == t {
			return &events[i]
		}
	}
	return nil
}

func hasSound(events []domain.OutboundEvent, name string) bool {
	for _, ev := range events {
		if ev.Type == domain.EventSound && ev.Name == name {
			return true
		}
	}
	return false
}
