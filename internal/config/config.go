package config

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Env            string
	LogLevel       string
	HTTPAddr       string
	StorageBackend string
	PostgresDSN    string
	SQLitePath     string
	DailyInputFile string
	AuthToken      string
	AuthServiceURL string
	CORSOrigins    []string
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the configuration once per process. A .env file in the working
// directory is applied first; variables already set in the environment win.
// The result is not validated: callers apply their overrides and then call
// Validate.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = FromEnv()
	})
	return cfg
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8088"),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/sleepsense.db"),
		DailyInputFile: getEnv("DAILY_INPUT_FILE", "data/daily_inputs.json"),
		AuthToken:      getEnv("AUTH_TOKEN", "MOCK-TOKEN"),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case BackendFile:
		if c.DailyInputFile == "" {
			return errors.New("File storage requires DAILY_INPUT_FILE to be set")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, postgres, sqlite")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env == "development" && c.AuthToken == "" {
		return errors.New("AUTH_TOKEN is required in development")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
