package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Storage   StorageConfig
	Queue     QueueConfig
	Telemetry TelemetryConfig
	Payroll   PayrollConfig
	Holidays  HolidaysConfig
	Cron      CronConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	AutoMigrate     bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	Timezone       string
}

// StorageConfig selects where selfies and payroll archives are written.
type StorageConfig struct {
	Type     string // local or s3
	BasePath string
	BaseURL  string

	S3Bucket   string
	S3Prefix   string
	S3Region   string
	S3Endpoint string // set for S3-compatible stores such as MinIO or LocalStack
}

type QueueConfig struct {
	SQSQueueURL string
	SQSRegion   string
	SQSEndpoint string
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
	OTLPInsecure bool
	Stdout       bool
}

type PayrollConfig struct {
	HourlyRate decimal.Decimal
}

type HolidaysConfig struct {
	File string // empty uses the embedded table
}

type CronConfig struct {
	Enabled            bool
	PayrollArchiveSpec string
	OpenSessionSpec    string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	connLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "asistencia"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        maxConns,
		MinConns:        minConns,
		MaxConnLifetime: connLifetime,
		AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		Timezone:       getEnv("APP_TIMEZONE", "America/Bogota"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:       getEnv("STORAGE_TYPE", "local"),
		BasePath:   getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Prefix:   getEnv("S3_PREFIX", ""),
		S3Region:   getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
	}

	// Queue configuration
	config.Queue = QueueConfig{
		SQSQueueURL: getEnv("SQS_QUEUE_URL", ""),
		SQSRegion:   getEnv("AWS_REGION", "us-east-1"),
		SQSEndpoint: getEnv("SQS_ENDPOINT", ""),
	}

	// Telemetry configuration
	config.Telemetry = TelemetryConfig{
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "asistencia-api"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		Stdout:       getEnvBool("OTEL_STDOUT", false),
	}

	// Payroll configuration
	rate, err := decimal.NewFromString(getEnv("PAYROLL_HOURLY_RATE", "12000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_HOURLY_RATE: %w", err)
	}
	config.Payroll = PayrollConfig{HourlyRate: rate}

	config.Holidays = HolidaysConfig{File: getEnv("HOLIDAYS_FILE", "")}

	config.Cron = CronConfig{
		Enabled:            getEnvBool("CRON_ENABLED", true),
		PayrollArchiveSpec: getEnv("CRON_PAYROLL_ARCHIVE", "0 6 * * 1"),
		OpenSessionSpec:    getEnv("CRON_OPEN_SESSION_SWEEP", "55 23 * * *"),
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
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch c.Storage.Type {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE is s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.Payroll.HourlyRate.IsNegative() {
		return fmt.Errorf("PAYROLL_HOURLY_RATE must not be negative")
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

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values are info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
