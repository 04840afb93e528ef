// Package bootstrap opens the storage handles shared by both binaries.
package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cloudmart/accounts/internal/api/handler"
	"github.com/cloudmart/accounts/internal/core/ports"
	"github.com/cloudmart/accounts/internal/infrastructure/db/memory"
	"github.com/cloudmart/accounts/internal/infrastructure/db/mongo"
	"github.com/cloudmart/accounts/internal/infrastructure/db/redis"
	"github.com/cloudmart/accounts/internal/pkg/config"
)

// Deps holds the opened stores. Redis is nil when disabled or unreachable.
type Deps struct {
	Users ports.UserRepository
	Creds ports.CredentialStore
	Redis *goredis.Client
	Ready []handler.Dependency

	closers []func(context.Context) error
}

// Open connects to the configured user store and, when enabled, Redis. A
// Redis failure is logged and the services run without cache and throttle.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Deps, error) {
	d := &Deps{}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		d.Users, d.Creds = store, store
		log.Warn().Msg("using in-memory user store; data is lost on exit")

	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func(ctx context.Context) error { return mongo.Disconnect(ctx, client) })

		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			d.Close(ctx, log)
			return nil, err
		}
		d.Users, d.Creds = repo, repo
		d.Ready = append(d.Ready, handler.MongoDependency(db))
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.RedisEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache and login throttle")
		} else {
			d.Redis = rdb
			d.closers = append(d.closers, func(context.Context) error { return rdb.Close() })
			d.Ready = append(d.Ready, handler.RedisDependency(rdb))
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		}
	}

	return d, nil
}

// Close releases every opened handle, most recent first.
func (d *Deps) Close(ctx context.Context, log zerolog.Logger) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("close dependency")
		}
	}
	d.closers = nil
}
