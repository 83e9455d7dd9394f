package app

import (
	"context"

	"portal/internal/config"
	"portal/internal/db"
	"portal/internal/logger"
	"portal/internal/redis"
	"portal/internal/session"
)

type Infra struct {
	DB       *db.DB
	Redis    *redis.Client
	Sessions session.Store

	closers []func() error
}

// setupInfra opens the database and the session store selected by
// SESSION_STORE. Redis is only dialed when it backs sessions.
func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	infra := &Infra{DB: database}
	infra.closers = append(infra.closers, database.Close)

	logger.Info("database ready", nil)

	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client, err := redis.New(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Redis = client
		infra.Sessions = session.NewRedisStore(client.Client)
		infra.closers = append(infra.closers, client.Close)

		logger.Info("redis ready", map[string]any{
			"addr": cfg.RedisAddr,
		})
	default:
		store := session.NewMemoryStore()
		infra.Sessions = store
		infra.closers = append(infra.closers, store.Close)

		logger.Warn("using in-memory sessions", map[string]any{
			"store": cfg.SessionStore,
		})
	}

	return infra, nil
}

// Close releases resources in reverse order and returns the first error.
func (i *Infra) Close() error {
	var first error
	for idx := len(i.closers) - 1; idx >= 0; idx-- {
		if err := i.closers[idx](); err != nil && first == nil {
			first = err
		}
	}
	i.closers = nil
	return first
}
