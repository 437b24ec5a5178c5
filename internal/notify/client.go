package notify

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// Client одно websocket-подключение владельца.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	owner int64
	send  chan []byte
	// done закрывает только хаб, send не закрывается никогда.
	done chan struct{}
}

// ReadPump читает входящие кадры. Клиент шлёт только {"type":"ping"}, остальное игнорируется.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnw("ws read error", "owner", c.owner, "error", err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != "ping" {
			continue
		}
		pong, err := json.Marshal(Message{Type: "pong", Owner: c.owner, At: time.Now().UTC()})
		if err != nil {
			continue
		}
		select {
		case <-c.done:
			return
		default:
		}
		select {
		case c.send <- pong:
		case <-c.done:
			return
		default:
		}
	}
}

// WritePump отправляет сообщения хаба и пинги.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
