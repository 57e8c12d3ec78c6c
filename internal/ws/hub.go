package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// EventResourceChanged is sent after every successful create, update or delete.
const EventResourceChanged = "resource_changed"

// Actor identifies the user behind a change.
type Actor struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is one message on the change feed.
type Event struct {
	Type     string    `json:"type"`
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       uint      `json:"id"`
	Cascaded int64     `json:"cascaded,omitempty"`
	User     *Actor    `json:"user,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	done       chan struct{}
	closeOnce  sync.Once
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.Int("clients", n))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues evt for broadcast. It never blocks: when the queue is full
// or the hub is closed the event is dropped.
func (h *Hub) Publish(evt Event) {
	if evt.Type == "" {
		evt.Type = EventResourceChanged
	}
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.Error("marshal ws event", zap.Error(err))
		return
	}

	select {
	case <-h.done:
	case h.Broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, event dropped",
			zap.String("resource", evt.Resource), zap.String("action", evt.Action))
	}
}

// Close stops Run and disconnects every client. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Done is closed once the hub shuts down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Serve keeps conn registered until the peer disconnects or the hub closes.
func (h *Hub) Serve(conn *websocket.Conn) {
	select {
	case h.Register <- conn:
	case <-h.done:
		return
	}
	defer func() {
		select {
		case h.Unregister <- conn:
		case <-h.done:
		}
	}()

	for {
		// Keep alive loop
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
