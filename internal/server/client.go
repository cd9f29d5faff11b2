package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/h918m/mazmorra/internal/engine"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client - посредник между Websocket и GameService
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	ID   string

	// Канал из Hub; закрывается при Unregister
	Send <-chan api.ServerMessage

	log *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, id string, send <-chan api.ServerMessage) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		ID:   id,
		Send: send,
		log:  logger.Log.WithFields(logrus.Fields{"component": "ws_client", "client_id": id}),
	}
}

// readPump читает интенты клиента
func (c *Client) readPump() {
	defer func() {
		// Порядок: сначала выход из комнаты (сохранение героя), потом закрытие канала
		c.Game.Leave(c.ID)
		c.Game.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WS read error")
			}
			return
		}
		if err := c.Game.HandleCommand(c.ID, cmd); err != nil {
			c.log.WithField("action", cmd.Action).WithError(err).Debug("Command rejected")
			c.Game.Hub.SendTo(c.ID, api.ServerMessage{Type: api.MessageError, Error: err.Error()})
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
