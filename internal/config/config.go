package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Institution sources
const (
	InstitutionSourceStatic = "static"
	InstitutionSourceSQLite = "sqlite"
)

// DefaultDatabasePath is the SQLite file used when DB_CONNECTION_STRING is unset
const DefaultDatabasePath = "./data/institutions.db"

// Config holds all configuration for the application
type Config struct {
	Environment  string
	Port         string
	RoutePrefix  string
	Card         CardConfig
	Institutions InstitutionConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	HTTP         HTTPConfig
	Log          LogConfig
}

// CardConfig holds card building configuration
type CardConfig struct {
	NextAgent string
	PageSize  int
}

// InstitutionConfig selects where json card data comes from
type InstitutionConfig struct {
	Source string // "static" or "sqlite"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
}

// RedisConfig holds the optional lookup cache configuration
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// HTTPConfig holds transport level limits
type HTTPConfig struct {
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxBodyBytes       int64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8081")
	v.SetDefault("ROUTE_PREFIX", "/api")
	v.SetDefault("NEXT_AGENT", "classifier_agent")
	v.SetDefault("CARD_PAGE_SIZE", 10)
	v.SetDefault("INSTITUTION_SOURCE", InstitutionSourceStatic)
	v.SetDefault("DB_CONNECTION_STRING", DefaultDatabasePath)
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		RoutePrefix: normalizePrefix(v.GetString("ROUTE_PREFIX")),
		Card: CardConfig{
			NextAgent: v.GetString("NEXT_AGENT"),
			PageSize:  v.GetInt("CARD_PAGE_SIZE"),
		},
		Institutions: InstitutionConfig{
			Source: strings.ToLower(v.GetString("INSTITUTION_SOURCE")),
		},
		Database: DatabaseConfig{
			ConnectionString: v.GetString("DB_CONNECTION_STRING"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("REDIS_URL"),
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
			MaxBodyBytes:       v.GetInt64("MAX_BODY_BYTES"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	// Azure Functions custom handlers must listen on the port the host assigns
	if port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT"); port != "" {
		config.Port = port
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	switch c.Institutions.Source {
	case InstitutionSourceStatic, InstitutionSourceSQLite:
	default:
		return fmt.Errorf("invalid INSTITUTION_SOURCE %q: use %q or %q",
			c.Institutions.Source, InstitutionSourceStatic, InstitutionSourceSQLite)
	}

	if c.Card.PageSize <= 0 {
		return fmt.Errorf("CARD_PAGE_SIZE must be positive, got %d", c.Card.PageSize)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q: use \"json\" or \"text\"", c.Log.Format)
	}

	return nil
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
