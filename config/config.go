// Package config defines the static configuration for the tool registry:
// the set of MCP providers to discover, cache settings, and timeouts.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Defaults applied by Load when the config file leaves a value unset.
const (
	DefaultCacheTTL        = Duration(10 * time.Minute)
	DefaultCachePrefix     = "mcp_cache:"
	DefaultRefreshInterval = Duration(30 * time.Second)
	DefaultConnectTimeout  = Duration(5 * time.Second)
	DefaultCallTimeout     = Duration(2 * time.Minute)
	DefaultHealthTimeout   = Duration(3 * time.Second)
)

// Provider identifies one remote MCP tool provider.
type Provider struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	URL  string `json:"url" yaml:"url" validate:"required,url"`
}

// Redis specifies the cache backing store connection.
// An empty Addr disables the result cache.
type Redis struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
}

// Cache specifies result cache behavior.
type Cache struct {
	TTL    Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Prefix string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Discovery specifies timeouts and the background refresh interval.
type Discovery struct {
	RefreshInterval Duration `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
	ConnectTimeout  Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	CallTimeout     Duration `json:"call_timeout,omitempty" yaml:"call_timeout,omitempty"`
	HealthTimeout   Duration `json:"health_timeout,omitempty" yaml:"health_timeout,omitempty"`
}

// Config is the top level configuration.
type Config struct {
	Providers []Provider `json:"providers" yaml:"providers" validate:"dive"`
	Redis     Redis      `json:"redis,omitempty" yaml:"redis,omitempty"`
	Cache     Cache      `json:"cache,omitempty" yaml:"cache,omitempty"`
	Discovery Discovery  `json:"discovery,omitempty" yaml:"discovery,omitempty"`
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()

	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid configuration")
	}
	return cfg, nil
}

// ApplyDefaults fills unset values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = DefaultCachePrefix
	}
	if c.Discovery.RefreshInterval == 0 {
		c.Discovery.RefreshInterval = DefaultRefreshInterval
	}
	if c.Discovery.ConnectTimeout == 0 {
		c.Discovery.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Discovery.CallTimeout == 0 {
		c.Discovery.CallTimeout = DefaultCallTimeout
	}
	if c.Discovery.HealthTimeout == 0 {
		c.Discovery.HealthTimeout = DefaultHealthTimeout
	}
}
