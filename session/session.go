// Package session persists finished pipeline states keyed by session ID,
// so a caller can fetch the last report produced under a session.
package session

import (
	"context"
	"fmt"

	"github.com/thomasma/langgraph-researcher/agents"
	"github.com/thomasma/langgraph-researcher/config"
	"github.com/thomasma/langgraph-researcher/session/inmemory"
	redis_store "github.com/thomasma/langgraph-researcher/session/redis"
)

// Store is the interface for checkpoint storage
type Store interface {
	Save(ctx context.Context, id string, state *agents.State) error
	Get(ctx context.Context, id string) (*agents.State, error)
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)

// NewStore creates a checkpoint store from configuration.
func NewStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch StoreType(cfg.Store) {
	case InMemoryStore, "":
		return inmemory.NewStore(), nil
	case RedisStore:
		client, err := redis_store.Conn(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return redis_store.NewStore(client, cfg.Redis.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", cfg.Store)
	}
}
