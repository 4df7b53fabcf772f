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
	Server    ServerConfig
	App       AppConfig
	RemoteAPI RemoteAPIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Drafts    DraftsConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

// RemoteAPIConfig points at the Gate2Way REST API that stores projects.
type RemoteAPIConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type SessionConfig struct {
	Store         string
	TTL           time.Duration
	SweepSchedule string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DraftsConfig struct {
	CanvasRowHeightPx int
	UploadMaxBytes    int64
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		RemoteAPI: RemoteAPIConfig{
			URL:     getEnv("REMOTE_API_URL", ""),
			Token:   getEnv("REMOTE_API_TOKEN", ""),
			Timeout: getEnvAsDuration("REMOTE_API_TIMEOUT", 30*time.Second),
			RPS:     getEnvAsFloat("REMOTE_API_RPS", 0),
			Burst:   getEnvAsInt("REMOTE_API_BURST", 10),
		},
		Session: SessionConfig{
			Store:         strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
			TTL:           getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Drafts: DraftsConfig{
			CanvasRowHeightPx: getEnvAsInt("CANVAS_ROW_HEIGHT_PX", 30),
			UploadMaxBytes:    int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
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

	if c.RemoteAPI.URL == "" {
		return fmt.Errorf("REMOTE_API_URL is required")
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.Session.Store)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Drafts.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
