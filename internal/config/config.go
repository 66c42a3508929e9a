package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Site      SiteConfig
	Email     EmailConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type AuthConfig struct {
	// MaxLoginAttempts failures within LockoutDuration lock an account; the
	// same threshold over the same window locks an IP out of the login form.
	MaxLoginAttempts     int
	LockoutDuration      time.Duration
	SessionLifetime      time.Duration
	SessionRegenInterval time.Duration
	CookieName           string
	CookieSecure         bool
}

type RateLimitConfig struct {
	Enabled        bool
	MaxSubmissions int
	Window         time.Duration
}

type SiteConfig struct {
	Name            string
	BaseURL         string
	ItemsPerPage    int
	DefaultLanguage string
}

type EmailConfig struct {
	Enabled     bool
	AWSRegion   string
	FromAddress string
	ToAddress   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "telconnect"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			Env:      env,
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			MaxLoginAttempts:     getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			LockoutDuration:      getEnvAsSeconds("LOCKOUT_DURATION", 900*time.Second),
			SessionLifetime:      getEnvAsSeconds("SESSION_LIFETIME", 7200*time.Second),
			SessionRegenInterval: getEnvAsSeconds("SESSION_REGEN_INTERVAL", 1800*time.Second),
			CookieName:           getEnv("SESSION_COOKIE_NAME", "telconnect_session"),
			CookieSecure:         env == "production",
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("ENABLE_RATE_LIMIT", true),
			MaxSubmissions: getEnvAsInt("RATE_LIMIT_MAX", 3),
			Window:         getEnvAsSeconds("RATE_LIMIT_WINDOW", 3600*time.Second),
		},
		Site: SiteConfig{
			Name:            getEnv("SITE_NAME", "Telecom Connect"),
			BaseURL:         getEnv("SITE_URL", "http://localhost:8080"),
			ItemsPerPage:    getEnvAsInt("ITEMS_PER_PAGE", 20),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		},
		Email: EmailConfig{
			Enabled:     getEnvAsBool("ENABLE_EMAIL", false),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("EMAIL_FROM", "noreply@telecomconnect.com"),
			ToAddress:   getEnv("SITE_EMAIL", "contact@telecomconnect.com"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.Auth.MaxLoginAttempts < 1 {
		return nil, fmt.Errorf("MAX_LOGIN_ATTEMPTS must be at least 1")
	}

	if cfg.RateLimit.MaxSubmissions < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be at least 1")
	}

	if cfg.Site.ItemsPerPage < 1 {
		return nil, fmt.Errorf("ITEMS_PER_PAGE must be at least 1")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// getEnvAsSeconds reads a bare integer second count, the form the deployed
// site configuration has always used for these knobs.
func getEnvAsSeconds(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
