// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Analytics   AnalyticsConfig
	Breaker     BreakerConfig
	Log         LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	CorsOrigins     []string
	RateLimit       int
	RateWindow      time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
	AutoMigrate  bool
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// AnalyticsConfig holds pipeline configuration
type AnalyticsConfig struct {
	EventsTopic         string
	SimilarityThreshold float64
	EigenvectorMaxIter  int
	ForestTrees         int
	Seed                int64
	TestFraction        float64
	CalendarWeekday     bool
	DefaultListLimit    int
	MaxListLimit        int
}

// BreakerConfig holds channel source circuit breaker configuration
type BreakerConfig struct {
	MaxRequests  int
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  int
	FailureRatio float64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Caller bool
}

// Load loads configuration from environment variables. Values from an
// optional .env file (or ENV_FILE) fill in variables that are not set.
func Load() (Config, error) {
	if err := loadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
			RateLimit:       getEnvAsInt("SERVER_RATE_LIMIT", 30),
			RateWindow:      getEnvAsDuration("SERVER_RATE_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "chanalytics"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Analytics: AnalyticsConfig{
			EventsTopic:         getEnv("ANALYTICS_EVENTS_TOPIC", "analytics"),
			SimilarityThreshold: getEnvAsFloat("ANALYTICS_SIMILARITY_THRESHOLD", 0.3),
			EigenvectorMaxIter:  getEnvAsInt("ANALYTICS_EIGENVECTOR_MAX_ITER", 2000),
			ForestTrees:         getEnvAsInt("ANALYTICS_FOREST_TREES", 200),
			Seed:                int64(getEnvAsInt("ANALYTICS_SEED", 42)),
			TestFraction:        getEnvAsFloat("ANALYTICS_TEST_FRACTION", 0.2),
			CalendarWeekday:     getEnvAsBool("ANALYTICS_CALENDAR_WEEKDAY", false),
			DefaultListLimit:    getEnvAsInt("ANALYTICS_DEFAULT_LIST_LIMIT", 20),
			MaxListLimit:        getEnvAsInt("ANALYTICS_MAX_LIST_LIMIT", 100),
		},
		Breaker: BreakerConfig{
			MaxRequests:  getEnvAsInt("BREAKER_MAX_REQUESTS", 3),
			Interval:     getEnvAsDuration("BREAKER_INTERVAL", time.Minute),
			Timeout:      getEnvAsDuration("BREAKER_TIMEOUT", 30*time.Second),
			MinRequests:  getEnvAsInt("BREAKER_MIN_REQUESTS", 5),
			FailureRatio: getEnvAsFloat("BREAKER_FAILURE_RATIO", 0.6),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Caller: getEnvAsBool("LOG_CALLER", false),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", config.Server.Port)
	}

	if config.Analytics.SimilarityThreshold <= 0 || config.Analytics.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be within (0, 1], got %v", config.Analytics.SimilarityThreshold)
	}

	if config.Analytics.TestFraction <= 0 || config.Analytics.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be within (0, 1), got %v", config.Analytics.TestFraction)
	}

	if config.Analytics.ForestTrees <= 0 {
		return fmt.Errorf("forest trees must be positive")
	}

	if config.Analytics.EigenvectorMaxIter <= 0 {
		return fmt.Errorf("eigenvector max iterations must be positive")
	}

	if config.Analytics.EventsTopic == "" {
		return fmt.Errorf("analytics events topic must be set")
	}

	if config.Breaker.FailureRatio <= 0 || config.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker failure ratio must be within (0, 1], got %v", config.Breaker.FailureRatio)
	}

	if config.Database.Password == "postgres" && config.Environment == "production" {
		return fmt.Errorf("database password must be set in production")
	}

	return nil
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
