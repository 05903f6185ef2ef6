package liveprices

import (
	"fmt"
	"time"
)

type Config struct {
	Heartbeat  time.Duration `mapstructure:"heartbeat"`
	RetryAfter time.Duration `mapstructure:"retry_after"`
}

func DefaultConfig() *Config {
	return &Config{
		Heartbeat:  25 * time.Second,
		RetryAfter: 3 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive")
	}
	return nil
}
