package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
)

// Validation errors returned by Config.Validate.
var (
	ErrInvalidLogLevel    = errors.New("app.log_level must be one of debug, info, warn, error")
	ErrInvalidLogFormat   = errors.New("app.log_format must be json or text")
	ErrMissingAPIKey      = errors.New("neows.api_key is required")
	ErrInvalidTimeout     = errors.New("neows.timeout must be positive")
	ErrInvalidCacheTTL    = errors.New("cache.ttl must be positive")
	ErrInvalidRangeDays   = errors.New("feed.max_range_days must be between 1 and 7")
	ErrMissingRedisAddr   = errors.New("redis.addr is required")
	ErrIncompletePostgres = errors.New("postgres.host, postgres.user and postgres.db_name must all be set")
	ErrInvalidSessionTTL  = errors.New("auth.session_ttl must be positive")
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// NeoWsConfig holds upstream NASA NeoWs API settings. The public DEMO_KEY
// works out of the box with a tight rate limit.
type NeoWsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedConfig holds feed aggregation policy.
type FeedConfig struct {
	MaxRangeDays int `mapstructure:"max_range_days"`
}

// CacheConfig holds response cache settings. The cache is on unless
// explicitly disabled.
type CacheConfig struct {
	Disabled bool          `mapstructure:"disabled"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds redis connection settings for the session store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig holds the favorites database connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN renders the keyword/value connection string for the postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// AuthConfig holds session settings.
type AuthConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	NeoWs    NeoWsConfig    `mapstructure:"neows"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "json"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.NeoWs.BaseURL == "" {
		c.NeoWs.BaseURL = "https://api.nasa.gov/neo/rest/v1"
	}
	if c.NeoWs.APIKey == "" {
		c.NeoWs.APIKey = "DEMO_KEY"
	}
	if c.NeoWs.Timeout == 0 {
		c.NeoWs.Timeout = 10 * time.Second
	}
	if c.Feed.MaxRangeDays == 0 {
		c.Feed.MaxRangeDays = domain.MaxRangeDays
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 2 * time.Minute
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Postgres.Host == "" {
		c.Postgres.Host = "127.0.0.1"
	}
	if c.Postgres.Port == "" {
		c.Postgres.Port = "5432"
	}
	if c.Postgres.User == "" {
		c.Postgres.User = "cosmic"
	}
	if c.Postgres.DBName == "" {
		c.Postgres.DBName = "cosmic_event"
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 30 * 24 * time.Hour
	}
}

// Validate checks the configuration after defaults have been filled.
func (c *Config) Validate() error {
	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.App.LogFormat {
	case "json", "text":
	default:
		return ErrInvalidLogFormat
	}
	if c.NeoWs.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.NeoWs.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Feed.MaxRangeDays < 1 || c.Feed.MaxRangeDays > domain.MaxRangeDays {
		return ErrInvalidRangeDays
	}
	if !c.Cache.Disabled && c.Cache.TTL <= 0 {
		return ErrInvalidCacheTTL
	}
	if c.Redis.Addr == "" {
		return ErrMissingRedisAddr
	}
	if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.DBName == "" {
		return ErrIncompletePostgres
	}
	if c.Auth.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	return nil
}
