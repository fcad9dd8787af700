package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	Environment    string   `yaml:"environment"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig contains session token settings.
type AuthConfig struct {
	SigningKey      string `yaml:"signing_key"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// CacheConfig contains query cache TTL settings.
type CacheConfig struct {
	ListTTLMinutes   int `yaml:"list_ttl_minutes"`
	DetailTTLMinutes int `yaml:"detail_ttl_minutes"`
}

// SearchConfig contains search engine settings.
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings.
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// StorageConfig contains object storage settings.
type StorageConfig struct {
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Bucket         string `yaml:"bucket"`
	UseSSL         bool   `yaml:"use_ssl"`
	URLExpiryHours int    `yaml:"url_expiry_hours"`
}

// RateLimitConfig contains rate limiting settings for mutating routes.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// SchedulerConfig contains maintenance job settings.
type SchedulerConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DailyRunTime string `yaml:"daily_run_time"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8084",
			Environment:    "development",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Type: "mysql",
		},
		Auth: AuthConfig{
			ExpirationHours: 24,
		},
		Cache: CacheConfig{
			ListTTLMinutes:   5,
			DetailTTLMinutes: 10,
		},
		Storage: StorageConfig{
			Bucket:         "crm-assets",
			URLExpiryHours: 168,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			RequestsPerHour:   1800,
			RequestsPerDay:    20000,
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			DailyRunTime: "03:00",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to
// defaults when the file does not exist. Environment variables override
// file values for deployment-sensitive settings.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overlays environment variables onto the loaded config.
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Environment = getEnv("APP_ENV", c.Server.Environment)

	c.Database.Type = getEnv("DB_TYPE", c.Database.Type)
	c.Database.MySQL.Host = getEnv("DB_HOST", c.Database.MySQL.Host)
	c.Database.MySQL.Port = getEnvInt("DB_PORT", c.Database.MySQL.Port)
	c.Database.MySQL.User = getEnv("DB_USER", c.Database.MySQL.User)
	c.Database.MySQL.Password = getEnv("DB_PASSWORD", c.Database.MySQL.Password)
	c.Database.MySQL.Database = getEnv("DB_NAME", c.Database.MySQL.Database)
	c.Database.Postgres.Host = getEnv("DB_HOST", c.Database.Postgres.Host)
	c.Database.Postgres.Port = getEnvInt("DB_PORT", c.Database.Postgres.Port)
	c.Database.Postgres.User = getEnv("DB_USER", c.Database.Postgres.User)
	c.Database.Postgres.Password = getEnv("DB_PASSWORD", c.Database.Postgres.Password)
	c.Database.Postgres.Database = getEnv("DB_NAME", c.Database.Postgres.Database)

	c.Auth.SigningKey = getEnv("JWT_SIGNING_KEY", c.Auth.SigningKey)

	c.Search.Meilisearch.Host = getEnv("MEILISEARCH_HOST", c.Search.Meilisearch.Host)
	c.Search.Meilisearch.APIKey = getEnv("MEILISEARCH_KEY", c.Search.Meilisearch.APIKey)

	c.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", c.Storage.Endpoint)
	c.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.Bucket = getEnv("STORAGE_BUCKET", c.Storage.Bucket)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
}

// ListTTL returns the list cache freshness interval.
func (c *CacheConfig) ListTTL() time.Duration {
	return time.Duration(c.ListTTLMinutes) * time.Minute
}

// DetailTTL returns the detail cache freshness interval.
func (c *CacheConfig) DetailTTL() time.Duration {
	return time.Duration(c.DetailTTLMinutes) * time.Minute
}

// TokenTTL returns the session token lifetime.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// URLExpiry returns the presigned download URL lifetime.
func (c *StorageConfig) URLExpiry() time.Duration {
	return time.Duration(c.URLExpiryHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
