package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

// New builds the store selected by cfg.Store. The redis store pings the server first.
func New(ctx context.Context, cfg config.SessionConfig, log logger.Logger) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}

		log.Info(ctx, "Session store: redis %s db=%d ttl=%s", cfg.Redis.Addr, cfg.Redis.DB, cfg.TTL)
		return NewRedis(client, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
