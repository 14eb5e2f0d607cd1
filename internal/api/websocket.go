package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/navigation"
)

const (
	wsOutboundBuffer = 8
	wsWriteTimeout   = 5 * time.Second
)

type wsClient struct {
	outbound chan navigation.View
}

// hub fans view snapshots out to every connected WebSocket client.
type hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	log     *logger.Logger
}

func newHub() *hub {
	return &hub{
		clients: make(map[*wsClient]struct{}),
		log:     logger.Default().WithPrefix("ws-hub"),
	}
}

func (h *hub) add() *wsClient {
	c := &wsClient{outbound: make(chan navigation.View, wsOutboundBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("client connected (%d active)", n)
	return c
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("client disconnected (%d active)", n)
}

// broadcast never blocks; a client with a full buffer misses the update.
func (h *hub) broadcast(v navigation.View) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.outbound <- v:
		default:
			h.log.Warn("dropping view update; outbound buffer full")
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleWebSocket sends the current view, then every view produced by an action.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	client := s.hub.add()
	defer s.hub.remove(client)

	// The feed is write-only; CloseRead discards client frames and cancels
	// ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	if err := writeView(ctx, conn, s.view(ctx)); err != nil {
		log.Debug("initial view write failed: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case v := <-client.outbound:
			if err := writeView(ctx, conn, v); err != nil {
				log.Debug("view write failed: %v", err)
				return
			}
		}
	}
}

func writeView(ctx context.Context, conn *websocket.Conn, v navigation.View) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
