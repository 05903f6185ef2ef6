package uploadphoto

import "fmt"

type Config struct {
	FieldName     string `mapstructure:"field_name"`
	MaxPhotoBytes int64  `mapstructure:"max_photo_bytes"`
	MemoryLimit   int64  `mapstructure:"memory_limit"`
	AllowedPrefix string `mapstructure:"allowed_prefix"`
	FormOverhead  int64  `mapstructure:"form_overhead"`
}

func DefaultConfig() *Config {
	return &Config{
		FieldName:     "photo",
		MaxPhotoBytes: 5 << 20,
		MemoryLimit:   1 << 20,
		AllowedPrefix: "image/",
		FormOverhead:  64 << 10,
	}
}

func (c *Config) Validate() error {
	if c.FieldName == "" {
		return fmt.Errorf("field_name is required")
	}
	if c.MaxPhotoBytes <= 0 {
		return fmt.Errorf("max_photo_bytes must be positive")
	}
	if c.MemoryLimit <= 0 {
		return fmt.Errorf("memory_limit must be positive")
	}
	return nil
}
