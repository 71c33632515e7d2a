package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	DefaultUserID   string
	DefaultPageSize int
	MaxPageSize     int

	// Client-side settings.
	APIBaseURL  string
	HTTPTimeout int // seconds
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		DefaultUserID:   envOr("DEFAULT_USER_ID", "00000000-0000-0000-0000-000000000001"),
		DefaultPageSize: envIntOr("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     envIntOr("MAX_PAGE_SIZE", 100),
		APIBaseURL:      envOr("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeout:     envIntOr("HTTP_TIMEOUT_SECONDS", 15),
	}
}

// Validate checks the configuration for values that would break the server
// at runtime. It is called once at startup.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if _, err := uuid.Parse(c.DefaultUserID); err != nil {
		return fmt.Errorf("DEFAULT_USER_ID must be a valid UUID: %w", err)
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be at least 1, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("MAX_PAGE_SIZE must be >= DEFAULT_PAGE_SIZE, got %d", c.MaxPageSize)
	}
	if c.HTTPTimeout < 1 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be at least 1, got %d", c.HTTPTimeout)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
