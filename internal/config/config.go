// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins string // comma-separated; empty disables CORS
	ReadTimeout    int    // seconds
	WriteTimeout   int    // seconds
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string
	MaxConns     int
	TxMaxRetries int
}

// AuthConfig holds token signing settings and the CLI operator credentials.
type AuthConfig struct {
	JWTSecret        string
	OperatorUsername string
	OperatorPassword string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel   string
	LogFormat  string // "json" or "console"
	Migrations bool   // run schema migrations on boot
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxConns:     getEnvInt("DB_MAX_CONNS", 10),
			TxMaxRetries: getEnvInt("TX_MAX_RETRIES", 3),
		},
		Auth: AuthConfig{
			JWTSecret:        os.Getenv("JWT_SECRET"),
			OperatorUsername: os.Getenv("LEDGER_USER"),
			OperatorPassword: os.Getenv("LEDGER_PASSWORD"),
		},
		App: AppConfig{
			LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
			LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", "json")),
			Migrations: getEnvBool("MIGRATIONS", false),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Origins splits AllowedOrigins into a trimmed list.
func (s ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate reports configuration that would make the service unusable.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	if c.Database.TxMaxRetries < 0 {
		return fmt.Errorf("TX_MAX_RETRIES cannot be negative, got %d", c.Database.TxMaxRetries)
	}
	switch c.App.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.App.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
