package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/metrics"
)

// ErrTooManyObservers is returned when the hub is full.
var ErrTooManyObservers = errors.New("too many observers")

const writeWait = 5 * time.Second

// Message is the envelope written to websocket observers.
type Message struct {
	Event string        `json:"event"`
	Data  game.Snapshot `json:"data"`
}

// observerClient has a one-slot mailbox: a newer snapshot replaces one the
// writer has not sent yet.
type observerClient struct {
	conn    *websocket.Conn
	addr    string
	slot    chan []byte
	limiter *rate.Limiter
	done    chan struct{}
}

func (c *observerClient) offer(msg []byte) {
	select {
	case c.slot <- msg:
		return
	default:
	}
	select {
	case <-c.slot:
		metrics.SnapshotDropped()
	default:
	}
	select {
	case c.slot <- msg:
	default:
	}
}

// Hub fans the feed out to websocket observers.
type Hub struct {
	feed     *Feed
	cfg      Config
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[*observerClient]struct{}
	reserved int // slots held by upgrades in progress
	latest   []byte
}

// NewHub creates a hub reading from feed.
func NewHub(feed *Feed, cfg Config, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		feed:    feed,
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*observerClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Run forwards feed updates to the observers until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case snap := <-h.feed.Updates():
			msg, err := json.Marshal(Message{Event: "game:snapshot", Data: snap})
			if err != nil {
				h.logger.Error("failed to encode snapshot", zap.Error(err))
				continue
			}
			h.broadcast(msg)
		}
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	h.latest = msg
	clients := make([]*observerClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.offer(msg)
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and streams snapshots to it.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := h.reserve(); err != nil {
		h.logger.Warn("observer rejected", zap.String("remote", r.RemoteAddr), zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.release()
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &observerClient{
		conn:    conn,
		addr:    r.RemoteAddr,
		slot:    make(chan []byte, 1),
		limiter: rate.NewLimiter(h.cfg.updateLimit(), 1),
		done:    make(chan struct{}),
	}
	h.register(c)

	go h.writeLoop(c)
	go h.readLoop(c)
}

// reserve holds a client slot until register or release. Connected and
// upgrading observers together never exceed MaxClients.
func (h *Hub) reserve() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg.MaxClients > 0 && len(h.clients)+h.reserved >= h.cfg.MaxClients {
		return ErrTooManyObservers
	}
	h.reserved++
	return nil
}

func (h *Hub) release() {
	h.mu.Lock()
	h.reserved--
	h.mu.Unlock()
}

// register turns a reserved slot into a connected observer.
func (h *Hub) register(c *observerClient) {
	h.mu.Lock()
	h.reserved--
	h.clients[c] = struct{}{}
	latest := h.latest
	count := len(h.clients)
	h.mu.Unlock()

	if latest != nil {
		c.offer(latest)
	}
	metrics.ObserverConnected()
	h.logger.Info("observer connected", zap.String("remote", c.addr), zap.Int("observers", count))
}

func (h *Hub) unregister(c *observerClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	close(c.done)
	c.conn.Close()
	metrics.ObserverDisconnected()
	h.logger.Info("observer disconnected", zap.String("remote", c.addr), zap.Int("observers", count))
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	clients := make([]*observerClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

// writeLoop sends at most MaxUpdatesPerSecond snapshots; whatever arrives
// while it waits collapses into the newest one.
func (h *Hub) writeLoop(c *observerClient) {
	defer h.unregister(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.slot:
			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case newer := <-c.slot:
				msg = newer
			default:
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("observer write failed", zap.String("remote", c.addr), zap.Error(err))
				return
			}
			metrics.SnapshotSent()
		}
	}
}

// readLoop discards client messages and notices when the peer goes away.
func (h *Hub) readLoop(c *observerClient) {
	defer h.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return originAllowed(h.cfg.AllowedOrigins, origin)
}

func originAllowed(allowed []string, origin string) bool {
	for _, pattern := range allowed {
		if pattern == "*" || pattern == origin {
			return true
		}
		if ok, _ := path.Match(pattern, origin); ok {
			return true
		}
	}
	return false
}
