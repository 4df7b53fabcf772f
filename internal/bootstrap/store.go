package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gate2way/gate2way-backend/config"
	httpapi "github.com/gate2way/gate2way-backend/internal/api/http"
	"github.com/gate2way/gate2way-backend/internal/drafts/repository"
)

// SessionStore bundles the configured draft store with what must be stopped
// on shutdown.
type SessionStore struct {
	Store   repository.SessionStore
	Pinger  httpapi.Pinger
	sweeper *repository.Sweeper
	redis   *redis.Client
}

// OpenSessionStore builds the store selected by SESSION_STORE. The memory
// store gets a cron sweeper; Redis expires keys on its own.
func OpenSessionStore(ctx context.Context, cfg *config.Config) (*SessionStore, error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		store := repository.NewRedisStore(client, cfg.Session.TTL)
		return &SessionStore{Store: store, Pinger: store, redis: client}, nil

	case config.StoreMemory, "":
		store := repository.NewMemoryStore(cfg.Session.TTL)
		sweeper, err := repository.NewSweeper(store, cfg.Session.SweepSchedule)
		if err != nil {
			return nil, fmt.Errorf("session sweeper: %w", err)
		}
		sweeper.Start()
		return &SessionStore{Store: store, Pinger: store, sweeper: sweeper}, nil

	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

// Close stops the sweeper or closes the Redis client.
func (s *SessionStore) Close(timeout time.Duration) error {
	if s.sweeper != nil {
		select {
		case <-s.sweeper.Stop().Done():
		case <-time.After(timeout):
		}
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
