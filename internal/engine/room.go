package engine

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine/handlers"
	"github.com/h918m/mazmorra/internal/engine/handlers/actions"
	"github.com/h918m/mazmorra/internal/systems"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/h918m/mazmorra/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Room представляет собой один изолированный запущенный уровень (игровую зону).
// Все методы вызываются из одной горутины хоста комнаты, блокировок нет.
type Room struct {
	ID       string
	Name     string
	Progress int
	Seed     string

	World *domain.GameWorld // Карта, реестр и SpatialHash
	Rng   *rand.Rand        // Единственный генератор комнаты
	Start domain.Position
	End   domain.Position

	Tick     int64 // Логическое время комнаты
	interval int64
	pvp      bool
	capacity int

	players []domain.EntityID // В порядке входа
	clients map[string]domain.EntityID
	heroes  map[string]*domain.HeroSnapshot

	// Очередь исходящих событий, вычитывается раз в тик
	events []domain.OutboundEvent

	// deadLeft - последний ушедший игрок был мертв (дольше держим комнату)
	deadLeft bool

	// Сколько сущностей уже учтено в метрике
	counted int

	Replay   *domain.ReplaySession
	handlers map[domain.ActionType]handlers.HandlerFunc
	metrics  *Metrics
	log      *logrus.Entry
}

// NewRoom генерирует уровень из сида и создает комнату
func NewRoom(name string, progress int, seed string, cfg Config, metrics *Metrics) *Room {
	rng := utils.NewRand(seed)
	world, start, end := dungeon.BuildLevel(dungeon.MapConfigFor(progress), rng)

	id := uuid.NewString()
	r := &Room{
		ID:       id,
		Name:     name,
		Progress: progress,
		Seed:     seed,
		World:    world,
		Rng:      rng,
		Start:    start,
		End:      end,
		interval: cfg.TickInterval(),
		pvp:      cfg.PvP,
		capacity: cfg.MaxClients,
		clients:  make(map[string]domain.EntityID),
		heroes:   make(map[string]*domain.HeroSnapshot),
		Replay: &domain.ReplaySession{
			Room:      name,
			Progress:  progress,
			Seed:      seed,
			Timestamp: time.Now().Unix(),
			Actions:   make([]domain.ReplayAction, 0),
		},
		handlers: newHandlers(),
		metrics:  metrics,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "room",
			"room_id":   id,
			"room":      name,
			"progress":  progress,
		}),
	}
	if r.capacity <= 0 {
		r.capacity = 8
	}
	r.syncEntityGauge()
	return r
}

func newHandlers() map[domain.ActionType]handlers.HandlerFunc {
	return map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionMove:            handlers.WithPayload(actions.HandleMove),
		domain.ActionDistributePoint: handlers.WithPayload(actions.HandleDistributePoint),
		domain.ActionInventoryDrag:   handlers.WithPayload(actions.HandleInventoryDrag),
		domain.ActionInventorySell:   handlers.WithPayload(actions.HandleInventorySell),
		domain.ActionUseItem:         handlers.WithPayload(actions.HandleUseItem),
		domain.ActionCast:            handlers.WithPayload(actions.HandleCast),
		domain.ActionDropItem:        handlers.WithPayload(actions.HandleDropItem),
		domain.ActionCheckpoint:      handlers.WithPayload(actions.HandleCheckpoint),
		domain.ActionMessage:         handlers.WithPayload(actions.HandleMessage),
	}
}

// Now - логические миллисекунды комнаты
func (r *Room) Now() int64 {
	return r.Tick * r.interval
}

// PvP - разрешены ли бои между игроками
func (r *Room) PvP() bool {
	return r.pvp
}

// IsLobby - комната-замок
func (r *Room) IsLobby() bool {
	return r.Progress <= dungeon.LobbyProgress
}

// --- Реестр ---

// AddEntity добавляет сущность в реестр и индекс
func (r *Room) AddEntity(e *domain.Entity) bool {
	if e.CreatedAt == 0 {
		e.CreatedAt = r.Now()
	}
	return r.World.AddEntity(e)
}

// RemoveEntity убирает сущность. Все, кто на нее нацелен, отпускают ее.
func (r *Room) RemoveEntity(id domain.EntityID) *domain.Entity {
	e := r.World.GetEntity(id)
	if e == nil {
		return nil
	}
	if e.Unit != nil {
		systems.Disengage(r.World, e)
	}
	r.World.RemoveEntity(id)
	return e
}

// --- Игроки ---

// Players - живые и мертвые игроки в порядке входа
func (r *Room) Players() []*domain.Entity {
	out := make([]*domain.Entity, 0, len(r.players))
	for _, id := range r.players {
		if e := r.World.GetEntity(id); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// PlayerCount - сколько клиентов в комнате
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// PlayerOf возвращает сущность клиента
func (r *Room) PlayerOf(clientID string) *domain.Entity {
	id, ok := r.clients[clientID]
	if !ok {
		return nil
	}
	return r.World.GetEntity(id)
}

// Join создает игрока из сохраненного героя и ставит его на карту
func (r *Room) Join(clientID string, hero *domain.HeroSnapshot) (*domain.Entity, error) {
	if _, ok := r.clients[clientID]; ok {
		return nil, ErrAlreadyJoined
	}
	if len(r.players) >= r.capacity {
		return nil, ErrRoomFull
	}

	payload, err := json.Marshal(hero)
	if err != nil {
		return nil, err
	}
	r.Replay.Record(r.Tick, clientID, domain.ActionJoin, payload)

	pos := r.spawnPoint(hero)
	player := dungeon.CreatePlayer(r.World, hero, clientID, pos)
	player.Player.CurrentRoom = r.Name
	player.Player.LatestProgress = max(player.Player.LatestProgress, r.Progress)
	player.Unit.Movement.Touch(r.Now())
	player.Unit.LastRegen = r.Now()
	r.AddEntity(player)

	r.players = append(r.players, player.ID)
	r.clients[clientID] = player.ID
	r.heroes[clientID] = hero
	r.deadLeft = false
	r.metrics.Players.Inc()

	r.log.WithFields(logrus.Fields{
		"client_id": clientID,
		"hero_id":   hero.ID,
		"entity_id": player.ID,
		"pos":       pos,
	}).Info("Player joined")
	return player, nil
}

// Leave убирает игрока и возвращает снимок героя для сохранения.
// keepCoords - запомнить клетку, чтобы вернуться в нее при повторном входе.
func (r *Room) Leave(clientID string, keepCoords bool) (*domain.HeroSnapshot, error) {
	id, ok := r.clients[clientID]
	if !ok {
		return nil, ErrUnknownClient
	}
	r.Replay.Record(r.Tick, clientID, domain.ActionLeave, nil)

	player := r.World.GetEntity(id)
	if keepCoords && player.IsAlive() {
		c := player.Pos
		player.Player.SavedCoords = &c
	}
	snap := dungeon.SnapshotPlayer(player, r.heroes[clientID], r.Progress, r.Name)
	r.deadLeft = !player.IsAlive()

	player.Unit.Movement.Stop()
	r.RemoveEntity(id)

	delete(r.clients, clientID)
	delete(r.heroes, clientID)
	for i, pid := range r.players {
		if pid == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.metrics.Players.Dec()

	r.log.WithFields(logrus.Fields{
		"client_id": clientID,
		"hero_id":   snap.ID,
		"alive":     !r.deadLeft,
	}).Info("Player left")
	return snap, nil
}

// spawnPoint: своя клетка при переподключении, выход - если пришли снизу, иначе вход
func (r *Room) spawnPoint(hero *domain.HeroSnapshot) domain.Position {
	pos := r.Start
	switch {
	case hero.CurrentCoords != nil && hero.CurrentRoom == r.Name && hero.CurrentProgress == r.Progress:
		pos = *hero.CurrentCoords
	case hero.CurrentProgress > r.Progress:
		pos = r.End
	}
	if free, ok := r.freeSpot(pos); ok {
		return free
	}
	return r.Start
}

// freeSpot ищет ближайшую свободную клетку пола вокруг p (детерминированно)
func (r *Room) freeSpot(p domain.Position) (domain.Position, bool) {
	for radius := 0; radius <= 3; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(abs(dx), abs(dy)) != radius {
					continue
				}
				candidate := p.Shift(dx, dy)
				if r.World.IsFreeFloor(candidate) {
					return candidate, true
				}
			}
		}
	}
	return domain.Position{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// --- Операции над юнитами ---

// Move прокладывает путь к destiny. allowChangeTarget - клик игрока или решение ИИ:
// то, что стоит в destiny, становится целью (и, если можно, противником).
// Без allowChangeTarget цель сохраняется (погоня).
func (r *Room) Move(unit *domain.Entity, destiny domain.Position, allowChangeTarget bool) bool {
	if unit == nil || unit.Unit == nil || !unit.IsAlive() || unit.Pos == destiny {
		return false
	}
	mv := unit.Unit.Movement
	if mv.SameDestiny(destiny) {
		return false
	}

	// 1. Что стоит в точке назначения
	var target *domain.Entity
	if allowChangeTarget {
		target = r.World.EntityAt(destiny.X, destiny.Y, domain.AliveUnit)
		if target == nil {
			target = r.World.EntityAt(destiny.X, destiny.Y)
		}
	} else if !mv.TargetID.IsNil() {
		target = r.World.GetEntity(mv.TargetID)
	}

	// 2. Путь; цель свою клетку не блокирует
	var except []domain.EntityID
	if target != nil {
		except = append(except, target.ID)
	}
	path := systems.PathInWorld(r.World, unit.Pos, destiny, except...)
	r.metrics.PathRequests.Inc()

	// 3. Решение о бое
	if allowChangeTarget {
		if target != nil && systems.CanEngage(unit, target, r.pvp) {
			systems.Engage(unit, target)
		} else {
			systems.Engage(unit, nil)
		}
	}

	mv.TargetID = domain.NilEntityID
	if target != nil {
		mv.TargetID = target.ID
	}
	mv.MoveTo(path, destiny)

	r.log.WithFields(logrus.Fields{
		"entity_id": unit.ID,
		"destiny":   destiny,
		"target_id": mv.TargetID,
		"steps":     len(path),
	}).Debug("Path requested")
	return true
}

// --- События ---

// Emit ставит событие в очередь
func (r *Room) Emit(ev domain.OutboundEvent) {
	r.events = append(r.events, ev)
}

// Drain забирает накопленные события в порядке появления
func (r *Room) Drain() []domain.OutboundEvent {
	out := r.events
	r.events = nil
	return out
}

// AddText - всплывающий текст над сущностью (урон, опыт, чат)
func (r *Room) AddText(owner *domain.Entity, text, style string) {
	if owner == nil || text == "" {
		return
	}
	ttl := int64(domain.TextEventTTL)
	if style == domain.TextChat {
		ttl = domain.ChatTTL
	}
	r.AddEntity(&domain.Entity{
		Kind:     domain.KindText,
		Pos:      owner.Pos,
		Walkable: true,
		TTL:      ttl,
		Text:     &domain.TextComponent{Text: text, Style: style, OwnerID: owner.ID},
	})
}

// --- Интенты ---

// Dispatch пишет интент в реплей и выполняет его хендлер
func (r *Room) Dispatch(clientID string, action domain.ActionType, payload json.RawMessage) error {
	actor := r.PlayerOf(clientID)
	if actor == nil {
		return ErrUnknownClient
	}
	handler, ok := r.handlers[action]
	if !ok {
		return ErrUnknownAction
	}

	r.Replay.Record(r.Tick, clientID, action, payload)

	ctx := handlers.Context{
		World: r.World,
		Room:  r,
		Actor: actor,
		Now:   r.Now(),
		Rng:   r.Rng,
	}
	result, err := handler(ctx, payload)
	if err != nil {
		r.metrics.Intents.WithLabelValues(action.String(), "rejected").Inc()
		r.log.WithFields(logrus.Fields{
			"client_id": clientID,
			"action":    action.String(),
		}).WithError(err).Debug("Intent rejected")
		return err
	}
	r.metrics.Intents.WithLabelValues(action.String(), "ok").Inc()

	if result.Msg != "" {
		r.log.WithFields(logrus.Fields{
			"component": "game_log",
			"client_id": clientID,
		}).Info(result.Msg)
	}
	if result.Sound != "" {
		r.Emit(domain.SoundEvent(result.Sound, domain.NilEntityID, clientID))
	}
	return nil
}
