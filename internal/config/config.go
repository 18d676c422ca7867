package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	CORS     CORSConfig
	Report   ReportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ReportConfig holds outshift report settings
type ReportConfig struct {
	Timezone         string
	Location         *time.Location
	TicketBucket     time.Duration
	Workers          int
	DefaultDays      int
	SnapshotInterval time.Duration
}

// Load reads .env when present and builds the configuration from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "helpdesk"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	jwtAccessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: jwtAccessExpiration,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Report configuration
	timezone := getEnv("REPORT_TIMEZONE", "Africa/Cairo")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}
	ticketBucket, err := time.ParseDuration(getEnv("REPORT_TICKET_BUCKET", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TICKET_BUCKET: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("REPORT_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_WORKERS: %w", err)
	}
	defaultDays, err := strconv.Atoi(getEnv("REPORT_DEFAULT_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_DEFAULT_DAYS: %w", err)
	}
	snapshotInterval, err := time.ParseDuration(getEnv("OUTSHIFT_SNAPSHOT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTSHIFT_SNAPSHOT_INTERVAL: %w", err)
	}

	config.Report = ReportConfig{
		Timezone:         timezone,
		Location:         location,
		TicketBucket:     ticketBucket,
		Workers:          workers,
		DefaultDays:      defaultDays,
		SnapshotInterval: snapshotInterval,
	}

	// Validate required fields
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
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Report.TicketBucket <= 0 {
		return fmt.Errorf("REPORT_TICKET_BUCKET must be positive")
	}
	if c.Report.Workers <= 0 {
		return fmt.Errorf("REPORT_WORKERS must be positive")
	}
	if c.Report.DefaultDays <= 0 {
		return fmt.Errorf("REPORT_DEFAULT_DAYS must be positive")
	}
	if c.Report.SnapshotInterval < 0 {
		return fmt.Errorf("OUTSHIFT_SNAPSHOT_INTERVAL must not be negative")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
