package appsettings

import (
	"fmt"
	"time"
)

type Config struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	MaxKeyLength  int           `mapstructure:"max_key_length"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
	CleanupPeriod time.Duration `mapstructure:"cleanup_period"`
}

func DefaultConfig() *Config {
	return &Config{
		CacheTTL:      30 * time.Second,
		MaxKeyLength:  128,
		MaxBodyBytes:  256 << 10,
		CleanupPeriod: time.Minute,
	}
}

func (c *Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if c.MaxKeyLength <= 0 {
		return fmt.Errorf("max_key_length must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
