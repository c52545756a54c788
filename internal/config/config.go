package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBLogLevel string

	HTTPAddr      string
	GinMode       string
	SessionSecret string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	LogLevel  string
	LogFormat string

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	ReminderInterval time.Duration
	ChatTimeout      time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", "sqlite"))

	return &Config{
		DBDriver:   driver,
		DBPath:     getEnv("DB_PATH", "crm.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", defaultDBPort(driver)),
		DBUser:     getEnv("DB_USER", "crmuser"),
		DBPassword: getEnv("DB_PASSWORD", "crmpassword"),
		DBName:     getEnv("DB_NAME", "crm"),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),

		ReminderInterval: parseDuration(getEnv("REMINDER_INTERVAL", "1m"), time.Minute),
		ChatTimeout:      parseDuration(getEnv("CHAT_TIMEOUT", "60s"), 60*time.Second),
	}
}

// UsesRedisSessions reports whether sessions should be kept in Redis rather
// than in signed cookies.
func (c *Config) UsesRedisSessions() bool {
	return c.RedisHost != ""
}

// defaultDBPort returns the usual port of the server engine.
func defaultDBPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
