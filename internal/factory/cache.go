package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/config"
)

// NewTagStore returns the tag cache selected by cfg.CacheDriver. The redis
// backend connects lazily; the cache health checker surfaces a dead server.
func NewTagStore(cfg *config.Config, log zerolog.Logger) (cache.TagStore, error) {
	switch cfg.CacheDriver {
	case "redis":
		log.Debug().Str("addr", cfg.RedisAddr).Msg("using redis tag cache")
		return cache.NewRedisStore(cfg.RedisAddr), nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER: %s", cfg.CacheDriver)
	}
}
