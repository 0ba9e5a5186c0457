package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Session snapshot backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	SessionBackend string
	SessionFile    string

	Redis RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:5000"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		SessionBackend: getEnv("SESSION_BACKEND", BackendFile),
		SessionFile:    getEnv("SESSION_FILE", defaultSessionFile()),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(home, ".storefront", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
