package config

import "fmt"

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Integrations  IntegrationConfig   `mapstructure:"integrations"`
	Broadcast     BroadcastConfig     `mapstructure:"broadcast"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Verification  VerificationConfig  `mapstructure:"verification"`
	Settings      SettingsConfig      `mapstructure:"settings"`
	Realtime      RealtimeConfig      `mapstructure:"realtime"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	StaticDir       string `mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig backs sessions and the price change subscription.
type RedisConfig struct {
	Address     string `mapstructure:"address"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	PoolSize    int    `mapstructure:"pool_size"`
	MinIdle     int    `mapstructure:"min_idle"`
	DialTimeout int    `mapstructure:"dial_timeout"` // milliseconds
	OpTimeout   int    `mapstructure:"op_timeout"`   // milliseconds
}

// AuthConfig describes how provider-issued access tokens are verified and where sessions live.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	Issuer        string `mapstructure:"issuer"`
	Audience      string `mapstructure:"audience"`
	SessionPrefix string `mapstructure:"session_prefix"`
	CookieName    string `mapstructure:"cookie_name"`
}

type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled bool `mapstructure:"enabled"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
		S3 struct {
			Bucket        string `mapstructure:"bucket"`
			PublicBaseURL string `mapstructure:"public_base_url"`
		} `mapstructure:"s3"`
	} `mapstructure:"aws"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		TLSMode  string `mapstructure:"tls_mode"` // auto | starttls | ssl | none
	} `mapstructure:"smtp"`

	Backend struct {
		HealthURL   string `mapstructure:"health_url"`
		PingTimeout int    `mapstructure:"ping_timeout"` // milliseconds
	} `mapstructure:"backend"`
}

type BroadcastConfig struct {
	Provider      string `mapstructure:"provider"` // ses | smtp
	MaxRecipients int    `mapstructure:"max_recipients"`
	FromName      string `mapstructure:"from_name"`
	FromEmail     string `mapstructure:"from_email"`
	Footer        string `mapstructure:"footer"`
}

// Sender renders the From header, e.g. "Support <onboarding@example.com>".
func (b BroadcastConfig) Sender() string {
	if b.FromName == "" {
		return b.FromEmail
	}
	return fmt.Sprintf("%s <%s>", b.FromName, b.FromEmail)
}

type NotificationConfig struct {
	Announce        bool `mapstructure:"announce"`
	InsertChunkSize int  `mapstructure:"insert_chunk_size"`
}

type VerificationConfig struct {
	ObjectPrefix        string `mapstructure:"object_prefix"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	MaxPhotoBytes       int64  `mapstructure:"max_photo_bytes"`
}

type SettingsConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // milliseconds
}

type RealtimeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
