package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is shared by both binaries; each one reads the section it needs.
type Config struct {
	Env             string        `env:"ENV,         default=development"`
	LogLevel        string        `env:"LOG_LEVEL,   default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,  default=false"`
	StoreDriver     string        `env:"STORE_DRIVER, default=mongo"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Identity IdentityConfig
	Account  AccountConfig
	Token    TokenConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type IdentityConfig struct {
	GRPCAddr         string        `env:"IDENTITY_GRPC_ADDR,    default=:50051"`
	HTTPPort         string        `env:"IDENTITY_HTTP_PORT,    default=8080"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS,    default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,          default=15m"`
}

type AccountConfig struct {
	GRPCAddr     string        `env:"ACCOUNT_GRPC_ADDR,  default=:50052"`
	HTTPPort     string        `env:"ACCOUNT_HTTP_PORT,  default=8081"`
	BcryptCost   int           `env:"BCRYPT_COST,        default=10"`
	RequireAuth  bool          `env:"REQUIRE_AUTH,       default=false"`
	NameCacheTTL time.Duration `env:"NAME_CACHE_TTL,     default=10m"`
}

type TokenConfig struct {
	Secret string        `env:"JWT_SECRET"`
	Issuer string        `env:"JWT_ISSUER, default=storefront-identity"`
	TTL    time.Duration `env:"TOKEN_TTL,  default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

// RedisConfig backs the username cache and the login throttle. Both services
// run without them when Redis is disabled.
type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=true"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=2s"`
}

var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return &cfg, nil
}

// RequireSecret fails when no signing secret is configured. The identity
// service always needs it; the account service only when REQUIRE_AUTH is set.
func (c *Config) RequireSecret() error {
	if c.Token.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

func (c *Config) RedisEnabled() bool { return c.Redis.Enabled && c.Redis.Addr != "" }
