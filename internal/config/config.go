package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Document store (MongoDB)
	DBHost     string
	DBPort     string
	DBDatabase string

	// Session store / queue backing (Redis)
	RedisHost string
	RedisPort string

	// Blob store
	FolderPath string

	// Sessions
	SessionTTL time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return &Config{
		AppName: envString("APP_NAME", "FileVault"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "5000"),

		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envString("DB_PORT", "27017"),
		DBDatabase: envString("DB_DATABASE", "files_manager"),

		RedisHost: envString("REDIS_HOST", "localhost"),
		RedisPort: envString("REDIS_PORT", "6379"),

		FolderPath: envString("FOLDER_PATH", "tmp/files_manager"),

		SessionTTL: envDuration("SESSION_TTL", 24*time.Hour),

		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MongoURI builds the connection string for the document store.
func (c *Config) MongoURI() string {
	return "mongodb://" + c.DBHost + ":" + c.DBPort
}

// RedisAddr builds the address for the session store and queues.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
