package agent

import (
	"context"
	"encoding/json"
	"math/rand"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/h918m/mazmorra/pkg/utils"
	"github.com/sirupsen/logrus"
)

// thinkEvery - бот принимает решение раз в столько state-кадров
const thinkEvery = 10

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Он подключается к сервису так же, как обычный игрок: регистрируется в хабе,
// входит в комнату по токену и отправляет те же интенты, что и браузер.
//
// Жизненный цикл:
//  1. Run -> регистрация в хабе, Join, чтение личного канала.
//  2. joined -> бот запоминает карту комнаты (она приходит один раз).
//  3. state -> раз в thinkEvery кадров вызывается think.
//  4. Отмена контекста -> Leave, герой сохраняется сервисом.
type Bot struct {
	ClientID string
	Token    string
	Progress int
	Service  *engine.GameService

	rng    *rand.Rand
	grid   *domain.Grid
	myID   domain.EntityID
	frames int
	log    *logrus.Entry
}

func NewBot(clientID, token string, progress int, service *engine.GameService) *Bot {
	return &Bot{
		ClientID: clientID,
		Token:    token,
		Progress: progress,
		Service:  service,
		rng:      utils.NewRand(clientID),
		log:      logger.Component("bot").WithField("client_id", clientID),
	}
}

// Run запускает цикл жизни бота. Блокируется до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	inbox := b.Service.Hub.Register(b.ClientID)

	joined, err := b.Service.Join(ctx, b.ClientID, b.Token, b.Progress)
	if err != nil {
		b.Service.Hub.Unregister(b.ClientID)
		return err
	}
	b.handle(joined)
	b.log.WithField("progress", joined.Progress).Info("Bot joined")

	defer func() {
		b.Service.Leave(b.ClientID)
		b.Service.Hub.Unregister(b.ClientID)
		b.log.Info("Bot shut down")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			b.handle(msg)
		}
	}
}

func (b *Bot) handle(msg api.ServerMessage) {
	switch msg.Type {
	case api.MessageJoined:
		// после перехода через дверь приходит новая карта
		b.grid = msg.Grid
		b.myID = msg.MyEntityID
		b.frames = 0
	case api.MessageState:
		b.frames++
		if b.frames%thinkEvery != 0 {
			return
		}
		if target, ok := b.think(msg); ok {
			b.sendMove(target)
		}
	case api.MessageError:
		b.log.WithField("error", msg.Error).Debug("Command rejected")
	}
}

// think - мозг бота: ближайший живой враг, иначе случайная клетка пола.
func (b *Bot) think(state api.ServerMessage) (domain.Position, bool) {
	var me *api.EntityView
	for i := range state.Entities {
		if state.Entities[i].ID == b.myID {
			me = &state.Entities[i]
			break
		}
	}
	if me == nil || me.Unit == nil || !me.Unit.IsAlive {
		return domain.Position{}, false
	}

	best, bestDist := domain.Position{}, -1
	for _, e := range state.Entities {
		if e.Kind != domain.KindEnemy || e.Unit == nil || !e.Unit.IsAlive {
			continue
		}
		dx, dy := e.Pos.X-me.Pos.X, e.Pos.Y-me.Pos.Y
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			best, bestDist = e.Pos, d
		}
	}
	if bestDist >= 0 {
		return best, true
	}

	// врагов нет - бродим
	if me.Unit.State != domain.MovementIdle.String() || b.grid == nil {
		return domain.Position{}, false
	}
	floor := b.grid.FloorTiles()
	if len(floor) == 0 {
		return domain.Position{}, false
	}
	return utils.Pick(b.rng, floor), true
}

func (b *Bot) sendMove(to domain.Position) {
	payload, err := json.Marshal(api.MovePayload{X: to.X, Y: to.Y})
	if err != nil {
		b.log.WithError(err).Error("Error marshalling payload")
		return
	}
	cmd := api.ClientCommand{Action: domain.ActionMove.String(), Payload: payload}
	if err := b.Service.HandleCommand(b.ClientID, cmd); err != nil {
		b.log.WithError(err).Debug("Move failed")
	}
}
