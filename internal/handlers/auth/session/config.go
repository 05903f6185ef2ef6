package session

import "fmt"

type Config struct {
	CookieName string `mapstructure:"cookie_name"`
}

func DefaultConfig() *Config {
	return &Config{CookieName: "sb-access-token"}
}

func (c *Config) Validate() error {
	if c.CookieName == "" {
		return fmt.Errorf("cookie_name is required")
	}
	return nil
}
