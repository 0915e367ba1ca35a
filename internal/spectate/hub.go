// Package spectate broadcasts run snapshots to websocket watchers.
package spectate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"polychase/internal/sim"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	// Read-only feed; any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to connected watchers. Publish never blocks the
// caller; when the hub falls behind only the newest snapshot is kept.
type Hub struct {
	logger *slog.Logger
	in     chan sim.Snapshot

	mu      sync.Mutex
	clients map[*client]struct{}
	runID   uuid.UUID
	world   []byte // last world frame
	last    []byte // last tick frame
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		in:      make(chan sim.Snapshot, 1),
		clients: make(map[*client]struct{}),
	}
}

// Publish hands a snapshot to the hub without waiting.
func (h *Hub) Publish(s sim.Snapshot) {
	for {
		select {
		case h.in <- s:
			return
		default:
		}
		// Drop the stale pending snapshot and retry.
		select {
		case <-h.in:
		default:
		}
	}
}

// Run encodes and broadcasts snapshots until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case s := <-h.in:
			h.broadcast(s)
		}
	}
}

func (h *Hub) broadcast(s sim.Snapshot) {
	var world []byte
	if s.RunID != h.currentRun() {
		b, err := encode(worldFrame(s))
		if err != nil {
			h.logger.Error("encode world frame", "error", err)
			return
		}
		world = b
	}
	tick, err := encode(tickFrame(s))
	if err != nil {
		h.logger.Error("encode tick frame", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if world != nil {
		h.runID = s.RunID
		h.world = world
	}
	h.last = tick
	for c := range h.clients {
		if world != nil {
			h.offer(c, world)
		}
		h.offer(c, tick)
	}
}

func (h *Hub) currentRun() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runID
}

// offer queues msg for c, disconnecting watchers that cannot keep up.
// Caller holds h.mu.
func (h *Hub) offer(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("spectator too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected watchers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.world != nil {
		c.send <- h.world
	}
	if h.last != nil {
		c.send <- h.last
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeHTTP upgrades the request and streams frames until the watcher leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("spectator upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.logger.Info("spectator connected", "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
	h.logger.Info("spectator disconnected", "remote", r.RemoteAddr)
}

// readPump discards watcher messages and keeps the read deadline alive.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
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

// ListenAndServe serves the feed on addr at /ws until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("spectate: listen %s: %w", addr, err)
	}
	return h.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (h *Hub) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	h.logger.Info("spectator feed listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("spectate: serve: %w", err)
	}
	return nil
}
