// Package redis holds the Redis-backed helpers of both services: the
// username cache and the login attempt counter.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 3 * time.Second

// Config selects the Redis server. Timeout bounds the startup ping and every
// command round trip; zero keeps the go-redis defaults.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

func (c Config) options() *redis.Options {
	opts := &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: dialTimeout,
	}
	if c.Timeout > 0 {
		opts.ReadTimeout = c.Timeout
		opts.WriteTimeout = c.Timeout
	}
	return opts
}

// Connect returns a client that answered a ping. The caller owns Close.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	pingTimeout := cfg.Timeout
	if pingTimeout <= 0 {
		pingTimeout = dialTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
