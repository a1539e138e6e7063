package cache

import (
	"context"
	"io"

	"github.com/prakruthi/storefront/internal/domain/cart"
	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CartStore is a session store that owns background resources
type CartStore interface {
	cart.SessionStore
	io.Closer
	Ping(ctx context.Context) error
}

// NewCartStore creates the cart store selected by configuration.
// When Redis is selected but unreachable it falls back to memory, logging a warning.
func NewCartStore(cfg config.CartConfig, redisCfg config.RedisConfig, logger *zap.Logger) CartStore {
	if cfg.Backend == "redis" {
		store, err := NewRedisCartStore(redisCfg, cfg.SessionTTL)
		if err == nil {
			logger.Info("Using Redis cart store", zap.String("addr", redisCfg.Addr()))
			return store
		}
		logger.Warn("Redis unavailable, falling back to in-memory cart store",
			zap.String("addr", redisCfg.Addr()),
			zap.Error(err),
		)
	}

	logger.Info("Using in-memory cart store")
	return NewInMemoryCartStore(cfg.SessionTTL)
}
