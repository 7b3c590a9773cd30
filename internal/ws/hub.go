package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/monitoring"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Hub fans console output out to every connected client. It is the
// display.Sink of the browser surface.
type Hub struct {
	log     *zap.Logger
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger, metrics *monitoring.Metrics) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:     log,
		metrics: metrics,
		clients: make(map[string]*client),
	}
}

// Output implements display.Sink.
func (h *Hub) Output(id string, data []byte) {
	h.broadcast(Frame{Type: TypeOutput, Session: id, Data: string(data)})
}

// Clear implements display.Sink.
func (h *Hub) Clear(id string) {
	h.broadcast(Frame{Type: TypeClear, Session: id})
}

// Attach implements display.Sink.
func (h *Hub) Attach(id string, replay []byte) {
	h.broadcast(Frame{Type: TypeAttach, Session: id, Data: string(replay)})
}

// Observe publishes the session list after every lifecycle change.
func (h *Hub) Observe(ev console.Event) {
	h.broadcast(Frame{Type: TypeSessions, Sessions: ev.Sessions})
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(f Frame) {
	msg, err := encode(f)
	if err != nil {
		h.log.Error("encode frame", zap.String("type", f.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.enqueue(msg) {
			h.metrics.RecordWSMessage("out", f.Type)
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	c.log = h.log.With(zap.String("client_id", c.id))

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.metrics.IncWSConnections()
	c.log.Info("websocket client connected")
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if ok {
		c.stop()
		h.metrics.DecWSConnections()
		c.log.Info("websocket client disconnected")
	}
}

// client is one browser connection. Only writePump writes to conn.
type client struct {
	id   string
	conn *websocket.Conn
	log  *zap.Logger

	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

// enqueue queues msg without blocking. A client that cannot keep up is
// disconnected.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		c.log.Warn("websocket client too slow, dropping")
		c.stop()
		return false
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
