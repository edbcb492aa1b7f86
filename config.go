package vivasync

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the environment-driven configuration surface. All variables
// carry the VIVA_ prefix, e.g. VIVA_BASE_URL.
type Config struct {
	BaseURL          string        `envconfig:"BASE_URL" required:"true"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	SQLitePath       string        `envconfig:"SQLITE_PATH"`
	UserID           string        `envconfig:"USER_ID"`
	SyncShards       int           `envconfig:"SYNC_SHARDS" default:"2"`
	BoundaryInterval time.Duration `envconfig:"BOUNDARY_INTERVAL" default:"60s"`
	WaterTargetL     float64       `envconfig:"WATER_TARGET_L"`

	RetryMaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"4"`
	RetryBaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"1s"`
	RetryMaxJitter   time.Duration `envconfig:"RETRY_MAX_JITTER" default:"1s"`
}

// LoadConfig reads the VIVA_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("VIVA", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// NewFromConfig builds a Client from cfg. When SQLitePath is set the
// side channel is a durable SQLite store owned by the Client and closed
// with it. Extra options are applied after the config-derived ones and
// win on conflict.
func NewFromConfig(cfg *Config, extra ...Option) (*Client, error) {
	opts := []Option{
		WithHTTPTimeout(cfg.HTTPTimeout),
		WithRetryPolicy(cfg.RetryMaxAttempts, cfg.RetryBaseDelay, cfg.RetryMaxJitter),
		WithBoundaryInterval(cfg.BoundaryInterval),
		WithSyncShards(cfg.SyncShards),
	}
	if cfg.UserID != "" {
		opts = append(opts, WithUserID(cfg.UserID))
	}
	if cfg.WaterTargetL > 0 {
		opts = append(opts, WithWaterTarget(cfg.WaterTargetL))
	}

	var owned interface{ Close() error }
	if cfg.SQLitePath != "" {
		store, err := OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		owned = store
		opts = append(opts, WithStore(store))
	}
	opts = append(opts, extra...)

	c := New(cfg.BaseURL, opts...)
	c.ownedStore = owned
	return c, nil
}
