package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

var validate = validator.New()

// Config holds all application configuration
type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"3001" validate:"omitempty,numeric"`

	// Security
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:5173" validate:"omitempty,eq=*|url"`

	// Store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	BadgerPath  string `env:"BADGER_PATH"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// Chat
	Room         string `env:"CHAT_ROOM" envDefault:"general"`
	SystemSender string `env:"SYSTEM_SENDER" envDefault:"System"`
	HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"50"`

	// WebSocket
	MaxMessageSize int64 `env:"MAX_MESSAGE_SIZE" envDefault:"4096"`
	SendBufferSize int   `env:"SEND_BUFFER_SIZE" envDefault:"256"`

	// Rate Limiting
	RateLimitWS float64 `env:"RATE_LIMIT_WS" envDefault:"5" validate:"gte=0"`
	BurstWS     int     `env:"RATE_BURST_WS" envDefault:"10"`
	TrustProxy  bool    `env:"TRUST_PROXY" envDefault:"false"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"omitempty,oneof=debug info silent off"` // debug, info, silent
}

// LoadFromEnv parses the environment and validates store credentials
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects a configuration the relay cannot start with
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", domain.ErrStoreNotConfigured)
		}
	case DriverBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("%w: BADGER_PATH is required for the badger driver", domain.ErrStoreNotConfigured)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.HistoryLimit <= 0 {
		c.HistoryLimit = domain.DefaultHistoryLimit
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = domain.MaxMessageSize
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = domain.SendBufferSize
	}
	if c.Room == "" {
		c.Room = domain.DefaultRoom
	}
	if c.SystemSender == "" {
		c.SystemSender = domain.SystemSender
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WebSocketLimit returns the handshake rate as a limiter value
func (c *Config) WebSocketLimit() (rate.Limit, int) {
	limit := rate.Limit(c.RateLimitWS)
	if limit <= 0 {
		limit = domain.DefaultRateLimitWS
	}
	burst := c.BurstWS
	if burst <= 0 {
		burst = domain.DefaultBurstWS
	}
	return limit, burst
}
