package devapi

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port       string
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Seed       bool
}

// LoadConfig reads the DEVAPI_* environment.
func LoadConfig() Config {
	cfg := Config{
		Port:       getEnvOrDefault("DEVAPI_PORT", "8090"),
		JWTSecret:  getEnvOrDefault("DEVAPI_JWT_SECRET", "dev-secret-change-me-dev-secret-change-me"),
		TokenTTL:   24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
		Seed:       getEnvOrDefault("DEVAPI_SEED", "true") == "true",
	}
	if d, err := time.ParseDuration(os.Getenv("DEVAPI_TOKEN_TTL")); err == nil {
		cfg.TokenTTL = d
	}
	if n, err := strconv.Atoi(os.Getenv("DEVAPI_BCRYPT_COST")); err == nil {
		cfg.BcryptCost = n
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
