package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the requirements of its
// environment and reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("API_BASE_URL", "must be an absolute http(s) URL")
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("API_BASE_URL", "must use http or https")
	}

	if cfg.SessionCookie == "" {
		add("SESSION_COOKIE", "is required")
	}
	if cfg.SessionTTL <= 0 {
		add("SESSION_TTL", "must be positive")
	}

	switch cfg.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if !cfg.RedisConfigured() {
			add("REDIS_URL", "REDIS_URL or REDIS_HOST is required for the redis session store")
		}
	case StoreSQL:
		if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverPostgres {
			add("DATABASE_DRIVER", "must be sqlite or postgres")
		}
		if cfg.DatabaseDSN == "" {
			add("DATABASE_DSN", "is required for the sql session store")
		}
	default:
		add("SESSION_STORE", fmt.Sprintf("unknown store %q", cfg.SessionStore))
	}

	if cfg.Environment.IsProduction() {
		if cfg.SessionStore == StoreMemory {
			add("SESSION_STORE", "memory store is not allowed in production")
		}
		if !cfg.SecureCookies {
			add("SECURE_COOKIES", "must be enabled in production")
		}
		if strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.Contains(cfg.APIBaseURL, "localhost") {
			add("API_BASE_URL", "must use https in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
