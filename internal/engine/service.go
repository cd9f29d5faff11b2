package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/infrastructure/storage"
	"github.com/h918m/mazmorra/internal/network"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/dungeon"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Таймаут фонового сохранения героя
const saveTimeout = 5 * time.Second

// TokenVerifier превращает токен клиента в ID героя
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type roomKey struct {
	name     string
	progress int
}

// session - где сейчас клиент. host == nil, пока герой идет между комнатами.
type session struct {
	host   *Instance
	heroID string
}

// GameService держит запущенные комнаты и маршрутизирует в них клиентов.
// Каждая комната живет в своей горутине, сервис только передает ей задачи.
type GameService struct {
	cfg     Config
	repo    storage.HeroRepository
	tokens  TokenVerifier
	replays *storage.ReplayService
	metrics *Metrics

	Hub *network.Broadcaster

	mu       sync.Mutex
	rooms    map[roomKey]*Instance
	sessions map[string]*session  // clientID -> комната
	online   map[string]string    // heroID -> clientID

	// фоновые сохранения героев и реплеев, Shutdown их дожидается
	saves sync.WaitGroup

	log *logrus.Entry
}

// NewService создает сервис. replays может быть nil (реплеи не пишутся).
func NewService(cfg Config, repo storage.HeroRepository, tokens TokenVerifier, replays *storage.ReplayService, metrics *Metrics) *GameService {
	return &GameService{
		cfg:      cfg,
		repo:     repo,
		tokens:   tokens,
		replays:  replays,
		metrics:  metrics,
		Hub:      network.NewBroadcaster(),
		rooms:    make(map[roomKey]*Instance),
		sessions: make(map[string]*session),
		online:   make(map[string]string),
		log:      logger.Component("game_service"),
	}
}

// --- Вход / выход ---

// Join проверяет токен, загружает героя и ставит его в комнату.
// progress 0 - продолжить с сохраненного прогресса.
func (s *GameService) Join(ctx context.Context, clientID, token string, progress int) (api.ServerMessage, error) {
	// 1. Кто это
	heroID, err := s.tokens.Verify(token)
	if err != nil {
		return api.ServerMessage{}, err
	}
	hero, err := s.repo.Load(ctx, heroID)
	if err != nil {
		return api.ServerMessage{}, fmt.Errorf("load hero: %w", err)
	}

	// 2. Куда
	if progress == 0 {
		progress = max(hero.CurrentProgress, dungeon.LobbyProgress)
	}
	if !canEnter(hero, progress) {
		return api.ServerMessage{}, ErrProgressMismatch
	}

	s.mu.Lock()
	if _, ok := s.online[heroID]; ok {
		s.mu.Unlock()
		return api.ServerMessage{}, ErrAlreadyJoined
	}
	s.online[heroID] = clientID
	s.mu.Unlock()

	host, msg, err := s.enter(clientID, hero, progress)
	if err != nil {
		s.release(heroID, clientID)
		return api.ServerMessage{}, err
	}

	s.mu.Lock()
	s.sessions[clientID] = &session{host: host, heroID: heroID}
	s.mu.Unlock()
	return msg, nil
}

// canEnter - на уровень можно попасть, если он не глубже следующего за достигнутым
// или на нем открыт чекпоинт
func canEnter(hero *domain.HeroSnapshot, progress int) bool {
	if progress < dungeon.LobbyProgress {
		return false
	}
	reached := max(hero.LatestProgress, hero.CurrentProgress)
	if progress <= reached+1 {
		return true
	}
	for _, c := range hero.Checkpoints {
		if c == progress {
			return true
		}
	}
	return false
}

// enter ставит героя в комнату (name, progress) и ждет ответа ее горутины
func (s *GameService) enter(clientID string, hero *domain.HeroSnapshot, progress int) (*Instance, api.ServerMessage, error) {
	// Комната могла закрыться между поиском и задачей: пробуем еще раз
	for attempt := 0; attempt < 2; attempt++ {
		host := s.hostFor(dungeon.RoomFor(progress), progress)

		var msg api.ServerMessage
		var joinErr error
		err := host.call(func(r *Room) {
			if _, joinErr = r.Join(clientID, hero); joinErr != nil {
				return
			}
			host.cancelDispose()
			msg = r.JoinedMessage(clientID)
		})
		if errors.Is(err, ErrRoomClosed) {
			continue
		}
		if err != nil {
			return nil, api.ServerMessage{}, err
		}
		if joinErr != nil {
			return nil, api.ServerMessage{}, joinErr
		}
		return host, msg, nil
	}
	return nil, api.ServerMessage{}, ErrRoomClosed
}

// Leave - клиент отключился. Герой сохраняется в фоне.
func (s *GameService) Leave(clientID string) {
	s.mu.Lock()
	sess, ok := s.sessions[clientID]
	delete(s.sessions, clientID)
	s.mu.Unlock()
	// в пути между комнатами: героя выведет transfer
	if !ok || sess.host == nil {
		return
	}
	s.leaveRoom(sess.host, clientID, sess.heroID)
}

// leaveRoom выводит героя из комнаты, сохраняет его и освобождает.
// Не блокирует: ждет комнату в отдельной горутине.
func (s *GameService) leaveRoom(host *Instance, clientID, heroID string) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		err := host.call(func(r *Room) {
			snap, err := r.Leave(clientID, true)
			if err != nil {
				s.release(heroID, clientID)
				return
			}
			s.release(snap.ID, clientID)
			s.saveAsync(snap)
			host.scheduleDispose()
		})
		if err != nil {
			// комната закрылась раньше, чем дошла до задачи: героя в ней уже нет
			s.release(heroID, clientID)
			s.log.WithField("client_id", clientID).WithError(err).Warn("Leave from closed room")
		}
	}()
}

// release снимает отметку "онлайн", если она принадлежит этому клиенту
func (s *GameService) release(heroID, clientID string) {
	s.mu.Lock()
	if s.online[heroID] == clientID {
		delete(s.online, heroID)
	}
	s.mu.Unlock()
}

// saveAsync - сохранение без ожидания: ошибка логируется и считается, но не повторяется
func (s *GameService) saveAsync(snap *domain.HeroSnapshot) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.repo.Save(ctx, snap); err != nil {
			s.metrics.HeroSaveFailures.Inc()
			s.log.WithField("hero_id", snap.ID).WithError(err).Error("Failed to save hero")
		}
	}()
}

// --- Интенты ---

// HandleCommand передает интент клиента в его комнату
func (s *GameService) HandleCommand(clientID string, cmd api.ClientCommand) error {
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown || action == domain.ActionJoin || action == domain.ActionLeave {
		return fmt.Errorf("%w: %s", ErrUnknownAction, cmd.Action)
	}

	s.mu.Lock()
	sess, ok := s.sessions[clientID]
	s.mu.Unlock()
	if !ok || sess.host == nil {
		return ErrUnknownClient
	}

	return sess.host.submit(func(r *Room) {
		if err := r.Dispatch(clientID, action, cmd.Payload); err != nil {
			s.Hub.SendTo(clientID, api.ServerMessage{Type: api.MessageError, Error: err.Error()})
		}
	})
}

// --- Комнаты ---

// hostFor возвращает запущенную комнату или поднимает новую
func (s *GameService) hostFor(name string, progress int) *Instance {
	key := roomKey{name: name, progress: progress}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.rooms[key]; ok {
		return h
	}

	seed := dungeon.RoomSeed(s.cfg.Seed, name, progress)
	room := NewRoom(name, progress, seed, s.cfg, s.metrics)
	h := newInstance(s, key, room)
	s.rooms[key] = h
	s.metrics.Rooms.Inc()
	go h.run()

	s.log.WithFields(logrus.Fields{
		"room_id":  room.ID,
		"room":     name,
		"progress": progress,
	}).Info("Room created")
	return h
}

// transfer переводит игрока в другую комнату (дверь, портал, чекпоинт).
// Вызывается из горутины исходной комнаты.
func (s *GameService) transfer(from *Instance, clientID string, ev domain.OutboundEvent) {
	// 1. Клиент уже отключился: выходим здесь, как при обычном Leave
	s.mu.Lock()
	sess, ok := s.sessions[clientID]
	stillHere := ok && sess.host == from
	var pending *session
	if stillHere {
		pending = &session{heroID: sess.heroID}
		s.sessions[clientID] = pending
	}
	s.mu.Unlock()

	snap, err := from.room.Leave(clientID, !stillHere)
	if err != nil {
		return
	}
	from.scheduleDispose()
	s.saveAsync(snap)
	if !stillHere {
		s.release(snap.ID, clientID)
		return
	}

	// 2. В другую комнату - из своей горутины, чтобы комнаты не ждали друг друга
	go func() {
		host, msg, err := s.enter(clientID, snap, ev.Progress)

		s.mu.Lock()
		current, ok := s.sessions[clientID]
		connected := ok && current == pending
		switch {
		case connected && err == nil:
			s.sessions[clientID] = &session{host: host, heroID: snap.ID}
		case connected:
			delete(s.sessions, clientID)
		}
		s.mu.Unlock()

		switch {
		case err != nil:
			s.release(snap.ID, clientID)
			s.log.WithField("client_id", clientID).WithError(err).Warn("Transfer failed")
			if connected {
				s.Hub.SendTo(clientID, api.ServerMessage{Type: api.MessageError, Error: err.Error()})
			}
		case !connected:
			// 3. Отключился в пути: герой уже в новой комнате, выводим его оттуда
			s.leaveRoom(host, clientID, snap.ID)
		default:
			s.Hub.SendTo(clientID, msg)
		}
	}()
}

// dispose закрывает комнату. Вызывается из ее горутины.
func (s *GameService) dispose(h *Instance) {
	s.mu.Lock()
	if s.rooms[h.key] == h {
		delete(s.rooms, h.key)
	}
	s.mu.Unlock()

	h.stop()
	h.room.Close()
	s.metrics.Rooms.Dec()
	s.log.WithFields(logrus.Fields{
		"room_id": h.room.ID,
		"ticks":   h.room.Tick,
		"intents": len(h.room.Replay.Actions),
	}).Info("Room disposed")

	if s.replays != nil && len(h.room.Replay.Actions) > 0 {
		session := h.room.Replay
		s.saves.Add(1)
		go func() {
			defer s.saves.Done()
			if path, err := s.replays.Save(session); err != nil {
				s.log.WithError(err).Error("Failed to save replay")
			} else {
				s.log.WithField("path", path).Debug("Replay saved")
			}
		}()
	}
}

// RoomInfo - краткое состояние комнаты для отладки
type RoomInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
	Tick     int64  `json:"tick"`
	Players  int    `json:"players"`
	Entities int    `json:"entities"`
}

// Rooms опрашивает все комнаты
func (s *GameService) Rooms() []RoomInfo {
	s.mu.Lock()
	hosts := make([]*Instance, 0, len(s.rooms))
	for _, h := range s.rooms {
		hosts = append(hosts, h)
	}
	s.mu.Unlock()

	out := make([]RoomInfo, 0, len(hosts))
	for _, h := range hosts {
		var info RoomInfo
		err := h.call(func(r *Room) {
			info = RoomInfo{
				ID:       r.ID,
				Name:     r.Name,
				Progress: r.Progress,
				Tick:     r.Tick,
				Players:  r.PlayerCount(),
				Entities: r.World.Count(),
			}
		})
		if err == nil {
			out = append(out, info)
		}
	}
	return out
}

// Shutdown выводит всех игроков с синхронным сохранением и закрывает комнаты
func (s *GameService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	hosts := make([]*Instance, 0, len(s.rooms))
	for _, h := range s.rooms {
		hosts = append(hosts, h)
	}
	s.mu.Unlock()

	for _, h := range hosts {
		_ = h.call(func(r *Room) {
			for _, p := range r.Players() {
				clientID := p.Player.ClientID
				snap, err := r.Leave(clientID, true)
				if err != nil {
					continue
				}
				if err := s.repo.Save(ctx, snap); err != nil {
					s.log.WithField("hero_id", snap.ID).WithError(err).Error("Failed to save hero on shutdown")
				}
				s.mu.Lock()
				delete(s.sessions, clientID)
				s.mu.Unlock()
				s.release(snap.ID, clientID)
			}
			s.dispose(h)
		})
	}
	s.saves.Wait()
}
