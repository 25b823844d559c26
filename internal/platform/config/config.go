// Package config loads the service configuration from the environment and
// the optional catalogue file it points to.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	pstrings "github.com/Estar-Games/sc-customize-nft/pkg/platform/strings"
)

// StorageMode selects the persistence backend.
type StorageMode string

const (
	StorageMemory   StorageMode = "memory"
	StoragePostgres StorageMode = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	JWTSigningKey   string        `env:"JWT_SIGNING_KEY"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"sc-customize-nft"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Collection identifies the equippable collection and the accounts involved.
type Collection struct {
	Equippable string `env:"EQUIPPABLE_TOKEN,required"`
	Owner      string `env:"OWNER,required"`
	Custody    string `env:"CUSTODY,required"`
}

// Storage configures where registrations, balances and render state live.
type Storage struct {
	Mode        StorageMode `env:"STORAGE_MODE" envDefault:"memory"`
	PostgresDSN string      `env:"POSTGRES_DSN"`
	Redis       RedisConfig `envPrefix:"REDIS_"`
}

// RedisConfig configures the render store client. An empty URL keeps the
// render queue in memory.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// Audit configures the audit pipeline. Without brokers the outbox relay is off.
type Audit struct {
	Buffer        int           `env:"BUFFER" envDefault:"256"`
	KafkaBrokers  []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic    string        `env:"KAFKA_TOPIC" envDefault:"customize.audit"`
	RelayInterval time.Duration `env:"RELAY_INTERVAL" envDefault:"2s"`
	RelayBatch    int           `env:"RELAY_BATCH" envDefault:"100"`
}

// RateLimit sets the per-caller sliding-window budgets. Anonymous requests
// are keyed by client IP. The buckets share the render Redis when one is
// configured.
type RateLimit struct {
	Enabled       bool          `env:"ENABLED" envDefault:"true"`
	ReadRequests  int           `env:"READ_REQUESTS" envDefault:"300"`
	WriteRequests int           `env:"WRITE_REQUESTS" envDefault:"60"`
	Window        time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Config is the full service configuration.
type Config struct {
	Server        Server     `envPrefix:"CUSTOMIZE_"`
	Collection    Collection `envPrefix:"CUSTOMIZE_"`
	Storage       Storage    `envPrefix:"CUSTOMIZE_"`
	Audit         Audit      `envPrefix:"CUSTOMIZE_AUDIT_"`
	RateLimit     RateLimit  `envPrefix:"CUSTOMIZE_RATE_LIMIT_"`
	CataloguePath string     `env:"CUSTOMIZE_CATALOGUE"`
}

// FromEnv parses the environment and validates cross-field rules.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Audit.KafkaBrokers = pstrings.TrimList(cfg.Audit.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that parse but cannot run together.
func (c Config) Validate() error {
	switch c.Storage.Mode {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("CUSTOMIZE_POSTGRES_DSN is required in postgres storage mode")
		}
	default:
		return fmt.Errorf("unknown storage mode %q", c.Storage.Mode)
	}
	if c.Server.JWTSigningKey == "" {
		return errors.New("CUSTOMIZE_JWT_SIGNING_KEY is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.Window <= 0 {
		return errors.New("CUSTOMIZE_RATE_LIMIT_WINDOW must be positive")
	}
	if len(c.Audit.KafkaBrokers) > 0 && c.Storage.Mode != StoragePostgres {
		return errors.New("the kafka audit relay reads the postgres outbox and needs postgres storage mode")
	}
	return nil
}
