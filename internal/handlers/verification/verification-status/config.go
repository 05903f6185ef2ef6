package verificationstatus

import "fmt"

type Config struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
}

func DefaultConfig() *Config {
	return &Config{PollIntervalSeconds: 10}
}

func (c *Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive")
	}
	return nil
}
