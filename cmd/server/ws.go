package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"markethub/internal/store"
)

const (
	writeWait = 5 * time.Second
	// Pending states per client. A client that falls this far behind is
	// evicted rather than allowed to stall the hub.
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard may be served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// client is one websocket consumer. Writes go through send so the hub never
// blocks on a slow connection.
type client struct {
	conn *websocket.Conn
	send chan store.State
}

func (c *client) writePump(h *hub) {
	defer h.remove(c)
	for state := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(state); err != nil {
			h.log.Debug("view client dropped", zap.Error(err))
			return
		}
	}
}

// hub pushes every state transition to connected view clients. It is the
// store-to-view notification surface: views re-render idempotently from the
// pushed state alone.
type hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}

	unsubscribe func()
}

func newHub(st *store.Store, log *zap.Logger) *hub {
	h := &hub{log: log, clients: map[*client]struct{}{}}
	h.unsubscribe = st.Subscribe(func(state, _ store.State) {
		h.broadcast(state)
	})
	return h
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan store.State, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("view client connected", zap.String("remote", conn.RemoteAddr().String()))

	go c.writePump(h)

	// Reader loop only detects close; clients never send data.
	go func() {
		defer h.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast hands the state to each client's writer. The lock only guards the
// client set, never a network write.
func (h *hub) broadcast(state store.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- state:
		default:
			h.log.Debug("view client too slow, evicting",
				zap.String("remote", c.conn.RemoteAddr().String()))
			h.evict(c)
		}
	}
}

// evict detaches the client. Caller holds h.mu; send is closed exactly once
// because eviction removes the client from the set first.
func (h *hub) evict(c *client) {
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.evict(c)
	} else {
		c.conn.Close()
	}
}

func (h *hub) close() {
	h.unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.evict(c)
	}
}
