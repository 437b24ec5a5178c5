// Package notify рассылает владельцу события об изменениях его доски по websocket.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
	publishBuffer  = 256
)

// Message то, что уходит клиенту. Type: "columns", "items", "pong".
type Message struct {
	Type  string    `json:"type"`
	Owner int64     `json:"owner"`
	At    time.Time `json:"at"`
}

type envelope struct {
	owner int64
	data  []byte
}

// Hub держит подключения по владельцам и рассылает им события.
type Hub struct {
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader

	clients    map[int64]map[*Client]struct{}
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu        sync.Mutex
	connected map[int64]int
}

// NewHub checkOrigin может быть nil, тогда принимаются любые источники.
func NewHub(logger *zap.SugaredLogger, checkOrigin func(r *http.Request) bool) *Hub {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		logger:     logger,
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024, CheckOrigin: checkOrigin},
		clients:    make(map[int64]map[*Client]struct{}),
		broadcast:  make(chan envelope, publishBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		connected:  make(map[int64]int),
	}
}

// Run главный цикл хаба. Возвращается по отмене ctx, закрывая все подключения.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for owner, set := range h.clients {
				for c := range set {
					close(c.done)
				}
				delete(h.clients, owner)
			}
			h.mu.Lock()
			h.connected = make(map[int64]int)
			h.mu.Unlock()
			return
		case c := <-h.register:
			set, ok := h.clients[c.owner]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.owner] = set
			}
			set[c] = struct{}{}
			h.track(c.owner, 1)
			h.logger.Debugw("ws client connected", "owner", c.owner)
		case c := <-h.unregister:
			h.drop(c)
		case env := <-h.broadcast:
			for c := range h.clients[env.owner] {
				select {
				case c.send <- env.data:
				default:
					h.logger.Warnw("ws client too slow, dropping", "owner", c.owner)
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	set := h.clients[c.owner]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.owner)
	}
	close(c.done)
	h.track(c.owner, -1)
	h.logger.Debugw("ws client disconnected", "owner", c.owner)
}

func (h *Hub) track(owner int64, delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected[owner] += delta
	if h.connected[owner] <= 0 {
		delete(h.connected, owner)
	}
}

// Connected число открытых подключений владельца.
func (h *Hub) Connected(owner int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected[owner]
}

// Publish ставит событие в очередь рассылки. Не блокирует: при переполненной
// очереди событие теряется, клиент всё равно перечитает доску на следующем.
func (h *Hub) Publish(owner int64, event string) {
	data, err := json.Marshal(Message{Type: event, Owner: owner, At: time.Now().UTC()})
	if err != nil {
		h.logger.Errorw("marshal ws message", "error", err)
		return
	}
	select {
	case h.broadcast <- envelope{owner: owner, data: data}:
	default:
		h.logger.Warnw("ws broadcast queue full, event dropped", "owner", owner, "type", event)
	}
}

// Serve апгрейдит запрос до websocket и подписывает подключение на события владельца.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, owner int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws upgrade failed", "owner", owner, "error", err)
		return
	}
	c := &Client{hub: h, conn: conn, owner: owner, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.WritePump()
	go c.ReadPump()
}
