package network

import (
	"sync"

	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/logger"
)

// Размер личного буфера клиента
const subscriberBuffer = 100

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ClientID -> Личный канал
	subscribers map[string]chan api.ServerMessage
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
	}
}

// Register создает личный канал для клиента
func (b *Broadcaster) Register(clientID string) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, subscriberBuffer)
	b.subscribers[clientID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[clientID]; ok {
		close(ch)
		delete(b.subscribers, clientID)
	}
}

// SendTo отправляет сообщение конкретному клиенту (Unicast).
// Медленный клиент теряет сообщение, а не тормозит комнату.
func (b *Broadcaster) SendTo(clientID string, msg api.ServerMessage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[clientID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		logger.Component("hub").WithField("client_id", clientID).Warn("Channel full, message dropped")
		return false
	}
}

// Multicast отправляет одно сообщение списку клиентов (вся комната)
func (b *Broadcaster) Multicast(clientIDs []string, msg api.ServerMessage) {
	for _, id := range clientIDs {
		b.SendTo(id, msg)
	}
}

// HasSubscriber проверяет, подключен ли клиент
func (b *Broadcaster) HasSubscriber(clientID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[clientID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
