package searchusers

import (
	"fmt"
	"time"
)

type Config struct {
	Limit        int           `mapstructure:"limit"`
	MaxTermChars int           `mapstructure:"max_term_chars"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Limit:        20,
		MaxTermChars: 100,
		Timeout:      5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	if c.MaxTermChars <= 0 {
		return fmt.Errorf("max_term_chars must be positive")
	}
	return nil
}
