package registerstation

import "fmt"

type Config struct {
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	MaxNameChars int   `mapstructure:"max_name_chars"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxBodyBytes: 16 << 10,
		MaxNameChars: 120,
	}
}

func (c *Config) Validate() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.MaxNameChars < 2 {
		return fmt.Errorf("max_name_chars must be at least 2")
	}
	return nil
}
