package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreCookie = "cookie"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Store          string
	CookieName     string
	CookieSecret   string
	CookieSecure   bool
	CookieMaxAge   int
	BlockingVerify bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	PprofAddr    string
	LogLevel     string
	OTLPEndpoint string
}

type Config struct {
	API           APIConfig
	Session       SessionConfig
	Redis         RedisConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
	ServerPort    string
	ListingsTTL   time.Duration
}

// RateLimitConfig bounds credential submissions per client IP.
type RateLimitConfig struct {
	AuthRequests int
	AuthWindow   time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnvOrDefault("ESTATE_API_URL", "http://localhost:8090/api"), "/"),
			Timeout: getDurationOrDefault("ESTATE_API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			Store:          getEnvOrDefault("SESSION_STORE", StoreCookie),
			CookieName:     getEnvOrDefault("SESSION_COOKIE_NAME", "estate_session"),
			CookieSecret:   getEnvOrDefault("SESSION_SECRET", ""),
			CookieSecure:   getBoolOrDefault("SESSION_COOKIE_SECURE", false),
			CookieMaxAge:   getIntOrDefault("SESSION_COOKIE_MAX_AGE", 30*24*60*60),
			BlockingVerify: getBoolOrDefault("SESSION_BLOCKING_VERIFY", true),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Prefix:   getEnvOrDefault("REDIS_PREFIX", "estate"),
			TTL:      getDurationOrDefault("REDIS_SESSION_TTL", 30*24*time.Hour),
		},
		Observability: ObservabilityConfig{
			ServiceName: getEnvOrDefault("SERVICE_NAME", "estate-templui"),
			MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:   getEnvOrDefault("PPROF_ADDR", ":6060"),
			LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
			// base URL of an OTLP/HTTP collector, e.g. http://collector:4318;
			// empty disables span export.
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		RateLimit: RateLimitConfig{
			AuthRequests: getIntOrDefault("AUTH_RATE_LIMIT", 10),
			AuthWindow:   getDurationOrDefault("AUTH_RATE_WINDOW", time.Minute),
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8091"),
		ListingsTTL: getDurationOrDefault("LISTINGS_CACHE_TTL", 2*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	// Every store signs the browser cookie (browser id, flashes).
	if len(c.Session.CookieSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	switch c.Session.Store {
	case StoreCookie:
		if !c.Session.BlockingVerify {
			return fmt.Errorf("SESSION_BLOCKING_VERIFY=false needs a redis or memory SESSION_STORE")
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR environment variable is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want cookie, redis or memory)", c.Session.Store)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("ESTATE_API_URL environment variable is required")
	}
	if c.RateLimit.AuthRequests <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", c.RateLimit.AuthRequests)
	}
	if c.RateLimit.AuthWindow <= 0 {
		return fmt.Errorf("AUTH_RATE_WINDOW must be positive, got %s", c.RateLimit.AuthWindow)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
