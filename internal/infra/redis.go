package infra

import (
	"context"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// NewLocker returns a redislock client used for per-table arbitration when
// resolving tabs. The DB's partial unique index is the backstop; the lock
// keeps concurrent terminals from even reaching the conflicting insert.
func NewLocker(rdb *redis.Client) *redislock.Client {
	return redislock.New(rdb)
}
