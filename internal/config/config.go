package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	AI       AIConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	FrontendURL string // used to build password reset links
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// AuthConfig carries the credential lifecycle windows. Defaults match
// the product behavior: short OTP windows, day-long access sessions,
// month-long remembered sessions.
type AuthConfig struct {
	OTPExpiry          time.Duration
	OTPResendCooldown  time.Duration
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type SMTPConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	EmailDomain string // noreply@<domain> sender
}

type AIConfig struct {
	GeminiAPIKey string
}

// Load reads config from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MedLink API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "medlink"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			OTPExpiry:          getEnvDuration("AUTH_OTP_EXPIRY", 5*time.Minute),
			OTPResendCooldown:  getEnvDuration("AUTH_OTP_RESEND_COOLDOWN", 2*time.Minute),
			AccessTokenExpiry:  getEnvDuration("AUTH_ACCESS_TOKEN_EXPIRY", 24*time.Hour),
			RefreshTokenExpiry: getEnvDuration("AUTH_REFRESH_TOKEN_EXPIRY", 30*24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", "localhost"),
			Port:        getEnv("SMTP_PORT", "1025"),
			User:        getEnv("SMTP_USER", ""),
			Password:    getEnv("SMTP_PASS", ""),
			EmailDomain: getEnv("EMAIL_DOMAIN", "medlink.dev"),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the invariants a running deployment depends on.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.SMTP.User == "" || c.SMTP.Password == "" {
			return fmt.Errorf("SMTP credentials must be set in production")
		}
	}

	// the resend window inside the OTP lifetime is what makes the
	// cooldown math in the auth workflow meaningful
	if c.Auth.OTPResendCooldown >= c.Auth.OTPExpiry {
		return fmt.Errorf("AUTH_OTP_RESEND_COOLDOWN must be shorter than AUTH_OTP_EXPIRY")
	}

	if c.AI.GeminiAPIKey == "" {
		fmt.Println("WARNING: GEMINI_API_KEY not set - AI medicine lookup will return empty results")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
