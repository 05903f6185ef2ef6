package adinteraction

import "fmt"

type Config struct {
	MaxBodyBytes    int64 `mapstructure:"max_body_bytes"`
	MaxEventTypeLen int   `mapstructure:"max_event_type_len"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxBodyBytes:    64 << 10,
		MaxEventTypeLen: 64,
	}
}

func (c *Config) Validate() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.MaxEventTypeLen <= 0 {
		return fmt.Errorf("max_event_type_len must be positive")
	}
	return nil
}
