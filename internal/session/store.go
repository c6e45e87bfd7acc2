package session

import (
	"context"
	"fmt"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/pkg/redis"
)

// TokenKey is the single key a session token is stored under.
const TokenKey = "token"

// Store persists the bearer token between runs. Load returns "" when nothing
// is stored.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Open returns the backend selected by cfg.Client.SessionBackend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Client.SessionBackend {
	case "", "file":
		return NewFileStore(cfg.Client.SessionFile), nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		if !cfg.Redis.Enabled() {
			return nil, fmt.Errorf("session backend redis requires REDIS_HOST")
		}
		if err := redis.Init(&cfg.Redis); err != nil {
			return nil, err
		}
		return NewRedisStore(redis.GetClient()), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Client.SessionBackend)
	}
}
