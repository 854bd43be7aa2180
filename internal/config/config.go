package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     int
	DBDatabase string
	DBUser     string
	DBPassword string
	DBMaxConns int32

	RedisAddr  string
	CacheTTL   time.Duration
	RateLimit  int
	RateWindow time.Duration
	LogLevel   string
}

func NewConfig() *Config {
	return &Config{
		HTTPPort:   getEnv("HTTP_PORT", "8888"),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBDatabase: getEnv("DB_DATABASE", "postgres"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 0)),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		CacheTTL:   getEnvDuration("CACHE_TTL", 30*time.Second),
		RateLimit:  getEnvInt("RATE_LIMIT", 0),
		RateWindow: getEnvDuration("RATE_WINDOW", 60*time.Second),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

// DSN builds a postgres:// URL understood by pgxpool. Credentials and the
// database name are escaped, so empty values and spaces survive parsing.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBDatabase,
	}
	return u.String()
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Ignoring malformed integer env var", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Ignoring malformed duration env var", "key", key, "value", value)
		return fallback
	}
	return d
}
