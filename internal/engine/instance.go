package engine

import (
	"time"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Instance - горутина, которая владеет одной комнатой.
// Все обращения к Room идут через inbox, поэтому сама комната без блокировок.
type Instance struct {
	key     roomKey
	room    *Room
	service *GameService

	inbox chan func(*Room)
	done  chan struct{}

	// Таймер закрытия пустой комнаты. Трогается только из горутины инстанса.
	disposeTimer *time.Timer

	log *logrus.Entry
}

func newInstance(service *GameService, key roomKey, room *Room) *Instance {
	return &Instance{
		key:     key,
		room:    room,
		service: service,
		inbox:   make(chan func(*Room), 100),
		done:    make(chan struct{}),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "instance",
			"room_id":   room.ID,
			"room":      room.Name,
			"progress":  room.Progress,
		}),
	}
}

// run - цикл инстанса: задачи из inbox и тики по таймеру
func (h *Instance) run() {
	h.log.Info("Instance loop started")
	ticker := time.NewTicker(time.Duration(max(h.room.interval, 1)) * time.Millisecond)
	defer ticker.Stop()

	for {
		// done закрывается только из задачи этой горутины (dispose),
		// поэтому после нее ни одна задача из inbox уже не выполнится
		select {
		case <-h.done:
			h.log.Info("Instance loop stopped")
			return
		default:
		}

		select {
		case <-h.done:
			h.log.Info("Instance loop stopped")
			return
		case fn := <-h.inbox:
			fn(h.room)
		case <-ticker.C:
			h.tick()
		}
	}
}

// submit кладет задачу в очередь, не дожидаясь выполнения
func (h *Instance) submit(fn func(*Room)) error {
	select {
	case <-h.done:
		return ErrRoomClosed
	default:
	}
	select {
	case h.inbox <- fn:
		return nil
	case <-h.done:
		return ErrRoomClosed
	}
}

// call выполняет задачу и ждет ее завершения.
// Нельзя вызывать из горутины самого инстанса.
func (h *Instance) call(fn func(*Room)) error {
	finished := make(chan struct{})
	err := h.submit(func(r *Room) {
		defer close(finished)
		fn(r)
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-h.done:
		// Задача могла выполниться перед остановкой
		select {
		case <-finished:
			return nil
		default:
			return ErrRoomClosed
		}
	}
}

func (h *Instance) stop() {
	if h.disposeTimer != nil {
		h.disposeTimer.Stop()
		h.disposeTimer = nil
	}
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// tick - шаг симуляции и рассылка
func (h *Instance) tick() {
	r := h.room
	r.Update()
	if r.PlayerCount() == 0 && len(r.events) == 0 {
		return
	}

	// 1. События в порядке появления
	for _, ev := range r.Drain() {
		h.deliver(ev)
	}

	// 2. Кадр состояния каждому (после goto игрока в комнате уже нет)
	for clientID := range r.clients {
		h.service.Hub.SendTo(clientID, r.StateFor(clientID))
	}
}

func (h *Instance) deliver(ev domain.OutboundEvent) {
	msg := api.ServerMessage{
		Type:  ev.Type.String(),
		Tick:  h.room.Tick,
		Event: &ev,
	}

	if ev.ClientID == "" {
		clients := make([]string, 0, len(h.room.clients))
		for clientID := range h.room.clients {
			clients = append(clients, clientID)
		}
		h.service.Hub.Multicast(clients, msg)
		return
	}

	h.service.Hub.SendTo(ev.ClientID, msg)
	if ev.Type == domain.EventGoto {
		h.service.transfer(h, ev.ClientID, ev)
	}
}

// scheduleDispose заводит таймер закрытия, если в комнате никого не осталось.
// Мертвый последний игрок и лобби держат комнату дольше, открытый портал продлевает срок.
func (h *Instance) scheduleDispose() {
	r := h.room
	if r.PlayerCount() > 0 {
		return
	}

	cfg := h.service.cfg
	delay := cfg.DisposeTimeout
	if r.deadLeft || r.IsLobby() {
		delay = cfg.DeadDisposeTimeout
	}
	delay += time.Duration(r.PortalRemaining()) * time.Millisecond

	h.cancelDispose()
	h.disposeTimer = time.AfterFunc(delay, func() {
		_ = h.submit(func(r *Room) {
			if r.PlayerCount() == 0 {
				h.service.dispose(h)
			}
		})
	})
	h.log.WithField("delay", delay).Debug("Dispose scheduled")
}

func (h *Instance) cancelDispose() {
	if h.disposeTimer != nil {
		h.disposeTimer.Stop()
		h.disposeTimer = nil
	}
}
