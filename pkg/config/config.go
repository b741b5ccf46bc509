package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Artifact source kinds
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Artifacts (대시보드 JSON 산출물)
	Artifacts ArtifactConfig

	// Dashboard display settings (YAML)
	DashboardConfigPath string

	// Refresh cadence (cron with seconds)
	RefreshSchedule string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// ArtifactConfig describes where the pre-computed JSON artifacts live
type ArtifactConfig struct {
	Source    string  // file, http, redis, postgres
	Dir       string  // file source
	BaseURL   string  // http source
	RateLimit float64 // http source, requests per second
	KeyPrefix string  // redis source
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Artifacts: ArtifactConfig{
			Source:    getEnv("ARTIFACT_SOURCE", SourceFile),
			Dir:       getEnv("ARTIFACT_DIR", "data"),
			BaseURL:   getEnv("ARTIFACT_BASE_URL", ""),
			RateLimit: getEnvAsFloat("ARTIFACT_RATE_LIMIT", 10),
			KeyPrefix: getEnv("ARTIFACT_KEY_PREFIX", "fortunelab"),
		},

		DashboardConfigPath: getEnv("DASHBOARD_CONFIG", "config/dashboard.yaml"),
		RefreshSchedule:     getEnv("REFRESH_SCHEDULE", "0 */5 * * * *"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Artifacts.Source {
	case SourceFile:
		if c.Artifacts.Dir == "" {
			return fmt.Errorf("ARTIFACT_DIR is required for file source")
		}
	case SourceHTTP:
		if c.Artifacts.BaseURL == "" {
			return fmt.Errorf("ARTIFACT_BASE_URL is required for http source")
		}
		if c.Artifacts.RateLimit <= 0 {
			return fmt.Errorf("ARTIFACT_RATE_LIMIT must be positive")
		}
	case SourceRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("REDIS_ENABLED must be true for redis source")
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres source")
		}
	default:
		return fmt.Errorf("ARTIFACT_SOURCE must be one of: file, http, redis, postgres")
	}

	return nil
}

// LoadEnvFile loads an explicit env file (--config).
// Variables already set in the environment win.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
