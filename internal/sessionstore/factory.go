package sessionstore

import (
	"fmt"

	"github.com/jaylife/storefront-api/pkg/config"
	"github.com/jaylife/storefront-api/pkg/db"
	"github.com/jaylife/storefront-api/pkg/logger"
	"github.com/jaylife/storefront-api/pkg/redis"
)

// New selects the configured durable backend and layers the in-memory
// fallback over it. The memory backend needs no clients at all.
func New(cfg config.SessionStoreConfig, redisClient *redis.Client, dbClient *db.Client, logg *logger.Logger) (Store, error) {
	switch cfg.Backend {
	case config.SessionBackendMemory:
		return NewMemoryStore(), nil
	case config.SessionBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("session backend %q requires a redis client", cfg.Backend)
		}
		return WithFallback(NewRedisStore(redisClient, cfg.TTL, logg), NewMemoryStore()), nil
	case config.SessionBackendDB:
		if dbClient == nil {
			return nil, fmt.Errorf("session backend %q requires a database client", cfg.Backend)
		}
		return WithFallback(NewDBStore(dbClient.DB(), logg), NewMemoryStore()), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}
