package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Hub relays per-tenant Redis events to websocket clients. One Redis
// subscription is held per tenant with at least one connected client and
// dropped when the last client leaves.
type Hub struct {
	rdb *redis.Client

	mu      sync.Mutex
	tenants map[uuid.UUID]*tenantFeed
}

type tenantFeed struct {
	pubsub *redis.PubSub
	conns  map[*websocket.Conn]struct{}
	cancel context.CancelFunc
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:     rdb,
		tenants: make(map[uuid.UUID]*tenantFeed),
	}
}

// Attach registers a websocket connection for a tenant's event stream and
// blocks until the connection drops. The caller owns the upgrade; the hub
// owns the connection afterwards.
func (h *Hub) Attach(tenantID uuid.UUID, conn *websocket.Conn) {
	h.join(tenantID, conn)
	defer h.leave(tenantID, conn)

	// Reader loop: we never expect client frames, but reading is what
	// detects a dropped connection and answers control frames.
	conn.SetPongHandler(func(string) error { return nil })
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) join(tenantID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	feed, ok := h.tenants[tenantID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		feed = &tenantFeed{
			pubsub: h.rdb.Subscribe(ctx, ChannelFor(tenantID)),
			conns:  make(map[*websocket.Conn]struct{}),
			cancel: cancel,
		}
		h.tenants[tenantID] = feed
		go h.pump(tenantID, feed)
	}
	feed.conns[conn] = struct{}{}
}

func (h *Hub) leave(tenantID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	feed, ok := h.tenants[tenantID]
	if !ok {
		return
	}
	delete(feed.conns, conn)
	_ = conn.Close()

	if len(feed.conns) == 0 {
		feed.cancel()
		_ = feed.pubsub.Close()
		delete(h.tenants, tenantID)
	}
}

// pump forwards Redis messages to every connection of one tenant. A write
// failure only evicts the failing connection; the feed keeps running for
// the rest.
func (h *Hub) pump(tenantID uuid.UUID, feed *tenantFeed) {
	ch := feed.pubsub.Channel()
	for msg := range ch {
		h.mu.Lock()
		for conn := range feed.conns {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				delete(feed.conns, conn)
				_ = conn.Close()
			}
		}
		h.mu.Unlock()
	}
	log.Debug().Str("tenant_id", tenantID.String()).Msg("realtime: feed closed")
}
