package devgateway

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"shopstream/internal/gateway"
	"shopstream/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dev gateway: the storefront dev server runs on another origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// hub fans row-change events out to every connected realtime client.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]struct{})}
}

// serve upgrades the request and parks the connection until the peer
// leaves. The read loop exists only to observe the close.
func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("realtime upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	logger.Debug("realtime client connected", "clients", count)

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast pushes one change event to every client. Writes happen
// under the lock: the websocket allows a single concurrent writer per
// connection. Dead connections are dropped on write failure.
func (h *hub) broadcast(ev gateway.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		if err := c.WriteJSON(ev); err != nil {
			delete(h.conns, c)
			c.Close()
		}
	}
}

// close disconnects every client.
func (h *hub) close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
