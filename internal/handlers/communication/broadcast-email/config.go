package broadcastemail

import "fmt"

type Config struct {
	Enabled      bool  `mapstructure:"enabled"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MaxBodyBytes: 1 << 20,
	}
}

func (c *Config) Validate() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
