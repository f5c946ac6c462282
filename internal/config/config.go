// Package config reads runtime settings from the environment, loading a
// local .env file first outside production.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                string
	HTTPAddr           string
	StorageDriver      string
	MongoURI           string
	MongoDatabase      string
	DBConnectionString string
	RedisURL           string
	MatchRadiusKM      float64
	EventQueueSize     int
	JWT                JWTConfig
}

type JWTConfig struct {
	Secret   []byte
	TTLHours int
}

func (c *Config) Production() bool { return c.Env == "production" }

// RadiusMeters is the candidate search radius.
func (c *Config) RadiusMeters() float64 { return c.MatchRadiusKM * 1000 }

func loadDotEnv() {
	if os.Getenv("APP_ENV") != "production" {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
	}
}

// Load reads and validates the full configuration.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		Env:                getenv("APP_ENV", "development"),
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		StorageDriver:      strings.ToLower(getenv("STORAGE_DRIVER", DriverMemory)),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGO_DATABASE", "relief"),
		DBConnectionString: os.Getenv("DB_CONNECTION_STRING"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWT:                LoadJWT(),
	}

	var err error
	if cfg.MatchRadiusKM, err = getFloat("MATCH_RADIUS_KM", 50); err != nil {
		return nil, err
	}
	if cfg.MatchRadiusKM <= 0 {
		return nil, fmt.Errorf("MATCH_RADIUS_KM must be positive")
	}
	if cfg.EventQueueSize, err = getInt("EVENT_QUEUE_SIZE", 1024); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverMongo:
	case DriverPostgres:
		if cfg.DBConnectionString == "" {
			return nil, fmt.Errorf("DB_CONNECTION_STRING is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.Production() && len(cfg.JWT.Secret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	return cfg, nil
}

// LoadJWT returns the token settings. A malformed TTL falls back to 24 hours.
func LoadJWT() JWTConfig {
	loadDotEnv()
	ttl, err := getInt("JWT_TTL_HOURS", 24)
	if err != nil || ttl <= 0 {
		ttl = 24
	}
	return JWTConfig{
		Secret:   []byte(os.Getenv("JWT_SECRET")),
		TTLHours: ttl,
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
