// Package ws pushes engine events to websocket observers.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"idlerpg/internal/domain/idle"

	"github.com/gorilla/websocket"
)

const (
	defaultQueue = 64
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

type client struct {
	out chan []byte
}

// Hub fans bus events out to connected clients. Publish never blocks: a
// client whose queue is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	queue   int
	dropped atomic.Int64

	upgrader websocket.Upgrader
}

func NewHub(queue int) *Hub {
	if queue <= 0 {
		queue = defaultQueue
	}
	return &Hub{
		clients: map[*client]struct{}{},
		queue:   queue,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Observe subscribes the hub to every event on bus.
func (h *Hub) Observe(bus *idle.Bus) {
	bus.On(idle.AllEvents, h.Publish)
}

func (h *Hub) Publish(evt idle.Event) {
	b, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws: marshal %s: %v", evt.Type, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.out <- b:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped counts events skipped for slow clients.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

func (h *Hub) add() *client {
	c := &client{out: make(chan []byte, h.queue)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := h.add()
		defer h.remove(c)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case b := <-c.out:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

// Mux serves the hub at /ws.
func (h *Hub) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", h.Handler())
	return mux
}
