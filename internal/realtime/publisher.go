// Package realtime fans out entity change events to dashboard clients.
// Mutations publish onto a per-tenant Redis channel; the websocket hub relays
// them to every connected client of that tenant, so dashboards re-render on
// push instead of polling.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Event describes one entity mutation. Payload carries the response DTO the
// dashboards already know how to render.
type Event struct {
	Entity  string      `json:"entity"` // order | tab | table | register
	Action  string      `json:"action"` // created | updated | closed
	Payload interface{} `json:"payload"`
}

// Publisher is the side services depend on. Kept minimal so unit tests can
// substitute a no-op.
type Publisher interface {
	Publish(ctx context.Context, tenantID uuid.UUID, ev Event)
}

const channelPrefix = "rt:"

// ChannelFor returns the Redis channel name for one tenant's event stream.
func ChannelFor(tenantID uuid.UUID) string {
	return channelPrefix + tenantID.String()
}

type redisPublisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) Publisher {
	return &redisPublisher{rdb: rdb}
}

// Publish is best-effort: a fan-out failure is logged and never surfaces to
// the mutation that triggered it.
func (p *redisPublisher) Publish(ctx context.Context, tenantID uuid.UUID, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("entity", ev.Entity).Msg("realtime: marshal event")
		return
	}
	if err := p.rdb.Publish(ctx, ChannelFor(tenantID), data).Err(); err != nil {
		log.Warn().Err(err).Str("entity", ev.Entity).Msg("realtime: publish failed")
	}
}

// NopPublisher discards all events. Used by tests and one-shot CLI tools.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uuid.UUID, Event) {}
