package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultMaxRecipients       = 50
	DefaultPingTimeoutMs       = 5000
	DefaultPollIntervalSeconds = 10
	DefaultFooter              = "You received this email because you are a registered user of our Fuel Price Dashboard."
)

// Load reads configs/config.yaml, overlays config.<APP_ENVIRONMENT>.yaml and environment variables.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return build(v)
}

// LoadFromFile reads a single config file. Environment overrides still apply.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env", "../../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setIfEmpty(&cfg.Integrations.SMTP.Username, "SMTP_USERNAME")
	setIfEmpty(&cfg.Integrations.SMTP.Password, "SMTP_PASSWORD")
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*dst = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "station-dashboard"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Database.Redis.PoolSize == 0 {
		cfg.Database.Redis.PoolSize = 10
	}
	if cfg.Database.Redis.MinIdle == 0 {
		cfg.Database.Redis.MinIdle = 2
	}
	if cfg.Database.Redis.DialTimeout == 0 {
		cfg.Database.Redis.DialTimeout = 5000
	}
	if cfg.Database.Redis.OpTimeout == 0 {
		cfg.Database.Redis.OpTimeout = 3000
	}

	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "authenticated"
	}
	if cfg.Auth.SessionPrefix == "" {
		cfg.Auth.SessionPrefix = "session"
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "sb-access-token"
	}

	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "us-east-1"
	}
	if cfg.Integrations.SMTP.Port == 0 {
		cfg.Integrations.SMTP.Port = 587
	}
	if cfg.Integrations.SMTP.TLSMode == "" {
		cfg.Integrations.SMTP.TLSMode = "auto"
	}
	if cfg.Integrations.Backend.PingTimeout == 0 {
		cfg.Integrations.Backend.PingTimeout = DefaultPingTimeoutMs
	}

	if cfg.Broadcast.Provider == "" {
		cfg.Broadcast.Provider = "ses"
	}
	if cfg.Broadcast.MaxRecipients == 0 {
		cfg.Broadcast.MaxRecipients = DefaultMaxRecipients
	}
	if cfg.Broadcast.FromName == "" {
		cfg.Broadcast.FromName = "Support"
	}
	if cfg.Broadcast.Footer == "" {
		cfg.Broadcast.Footer = DefaultFooter
	}

	if cfg.Notifications.InsertChunkSize == 0 {
		cfg.Notifications.InsertChunkSize = 1000
	}

	if cfg.Verification.ObjectPrefix == "" {
		cfg.Verification.ObjectPrefix = "verifications"
	}
	if cfg.Verification.PollIntervalSeconds == 0 {
		cfg.Verification.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if cfg.Verification.MaxPhotoBytes == 0 {
		cfg.Verification.MaxPhotoBytes = 5 << 20
	}

	if cfg.Settings.CacheTTL == 0 {
		cfg.Settings.CacheTTL = 30000
	}

	if cfg.Realtime.Channel == "" {
		cfg.Realtime.Channel = "official_prices"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	switch cfg.Broadcast.Provider {
	case "ses":
	case "smtp":
		if cfg.Integrations.SMTP.Host == "" {
			return fmt.Errorf("integrations.smtp.host is required when broadcast.provider is smtp")
		}
	default:
		return fmt.Errorf("broadcast.provider must be ses or smtp, got %q", cfg.Broadcast.Provider)
	}
	if cfg.Broadcast.FromEmail == "" {
		return fmt.Errorf("broadcast.from_email is required")
	}
	if cfg.Broadcast.MaxRecipients < 0 {
		return fmt.Errorf("broadcast.max_recipients must be positive")
	}

	if cfg.Integrations.AWS.SNS.Enabled && cfg.Integrations.AWS.SNS.TopicARN == "" {
		return fmt.Errorf("integrations.aws.sns.topic_arn is required when sns is enabled")
	}
	if cfg.Integrations.AWS.S3.Bucket == "" {
		return fmt.Errorf("integrations.aws.s3.bucket is required")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
