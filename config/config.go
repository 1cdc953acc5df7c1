package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"
)

// Database drivers usable by the SQL session store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the web frontend
type Config struct {
	Environment Environment `ignored:"true"`

	// Server configuration
	ServerHost string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ServerPort string `envconfig:"SERVER_PORT" default:"3000"`

	// Backend REST API root, e.g. http://localhost:8080/api
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Session configuration
	SessionStore  string        `envconfig:"SESSION_STORE" default:"memory"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"bitebox_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`

	// Redis configuration, used by the redis session store and rate limits
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisURL      string `envconfig:"REDIS_URL"`

	// Database configuration, used by the sql session store
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseDSN    string `envconfig:"DATABASE_DSN" default:"file:bitebox-sessions.db?cache=shared"`

	// Origins allowed to call the /api JSON endpoints
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	RateLimit bool `envconfig:"RATE_LIMIT" default:"true"`
}

// RedisConfigured reports whether enough Redis settings exist to connect.
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr is the listen address of the web server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance from the environment, an
// optional .env file outside production, and Docker secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if !env.IsProduction() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}
	cfg.Environment = env

	// Docker secrets win over plain environment variables
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("redis_url"); v != "" {
		cfg.RedisURL = v
	}
	if v := readSecret("database_dsn"); v != "" {
		cfg.DatabaseDSN = v
	}

	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
