package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	StoreBackend    string        `env:"STORE_BACKEND,    default=memory"`
	SeedSampleData  bool          `env:"SEED_SAMPLE_DATA, default=true"`
	Timezone        string        `env:"TIMEZONE,         default=UTC"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=30s"`

	Mongo  MongoConfig
	Redis  RedisConfig
	AMQP   AMQPConfig
	Events EventsConfig
	Export ExportConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=expense_system"`
}

// RedisConfig configures the dashboard stats cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,        default=0"`
	StatsTTL time.Duration `env:"STATS_CACHE_TTL, default=1m"`
}

// AMQPConfig configures the event publisher. An empty URL logs events instead.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE, default=expenses"`
	Queue    string `env:"AMQP_QUEUE,    default=expense-events"`
}

type EventsConfig struct {
	Workers int `env:"EVENT_WORKERS, default=4"`
}

type ExportConfig struct {
	ReplaceCommas bool `env:"EXPORT_CSV_REPLACE_COMMAS, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at wiring time.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, BackendMemory, BackendMongo)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.Events.Workers < 1 {
		return fmt.Errorf("config: EVENT_WORKERS must be at least 1, got %d", c.Events.Workers)
	}
	return nil
}

// Location returns the time zone used for calendar calculations.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Development reports whether the service runs with developer-friendly output.
func (c *Config) Development() bool {
	return c.Env == "development"
}
