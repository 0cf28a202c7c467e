package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	QR         QRConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds student session token configuration
type JWTConfig struct {
	Secret            string
	SessionExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
}

// QRConfig holds the rotating-token parameters. ValiditySeconds must match
// between the display and scanner sides; RefreshSeconds is the display redraw
// cadence and must stay below ValiditySeconds so a fresh token is usually
// on-screen.
type QRConfig struct {
	ValiditySeconds int
	RefreshSeconds  int
}

type AttendanceConfig struct {
	DefaultGraceMinutes int
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments; env vars win.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "qrams"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("APP_TIMEZONE", "Asia/Manila"),
	}

	// Session configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		SessionExpiration: getEnv("SESSION_EXPIRATION", "12h"),
	}

	// QR token configuration
	validity, err := strconv.Atoi(getEnv("QR_VALIDITY_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid QR_VALIDITY_SECONDS: %w", err)
	}
	refresh, err := strconv.Atoi(getEnv("QR_REFRESH_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid QR_REFRESH_SECONDS: %w", err)
	}
	config.QR = QRConfig{
		ValiditySeconds: validity,
		RefreshSeconds:  refresh,
	}

	grace, err := strconv.Atoi(getEnv("DEFAULT_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_GRACE_MINUTES: %w", err)
	}
	config.Attendance = AttendanceConfig{DefaultGraceMinutes: grace}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.SessionExpiration); err != nil {
		return fmt.Errorf("invalid SESSION_EXPIRATION: %w", err)
	}
	if c.QR.ValiditySeconds <= 0 {
		return fmt.Errorf("QR_VALIDITY_SECONDS must be positive")
	}
	if c.QR.RefreshSeconds <= 0 || c.QR.RefreshSeconds >= c.QR.ValiditySeconds {
		return fmt.Errorf("QR_REFRESH_SECONDS must be positive and below QR_VALIDITY_SECONDS")
	}
	if c.Attendance.DefaultGraceMinutes < 0 {
		return fmt.Errorf("DEFAULT_GRACE_MINUTES must be zero or positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the deployment timezone. Validate has already checked it
// parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
