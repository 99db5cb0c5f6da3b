package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	App     AppConfig
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
	MaxBodyBytes int64
}

type DBConfig struct {
	DSN      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type AppConfig struct {
	Environment string
	Version     string
	// Soft-deleted projects older than this are purged by the maintenance job.
	PurgeRetention time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			AllowOrigins: splitCSV(getEnv("CORS_ALLOW_ORIGINS", "*")),
			MaxBodyBytes: int64(getEnvAsInt("MAX_BODY_MB", 50)) << 20,
		},
		DB: DBConfig{
			DSN:      os.Getenv("DB_DSN"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL:          time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
			CookieName:   getEnv("SESSION_COOKIE_NAME", "filmcut_session"),
			CookieSecure: getEnv("SESSION_COOKIE_SECURE", "false") == "true",
		},
		App: AppConfig{
			Environment:    getEnv("APP_ENV", "development"),
			Version:        getEnv("APP_VERSION", "3.2.0"),
			PurgeRetention: time.Duration(getEnvAsInt("PURGE_RETENTION_DAYS", 30)) * 24 * time.Hour,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
