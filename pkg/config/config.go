package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Series fetcher
	Fetcher FetcherConfig

	// Model search defaults
	Search SearchConfig

	// Logging
	LogLevel  string
	LogFormat string
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

// FetcherConfig holds observation-series fetcher configuration
type FetcherConfig struct {
	BaseURL     string
	RatePerSec  float64 // requests per second against the source page
	Timeout     time.Duration
	TableSelect string // CSS selector for the observation table rows
}

// SearchConfig holds grid-search defaults
type SearchConfig struct {
	NTest     int    // held-out observations for walk-forward validation
	Parallel  bool   // fan out scoring across workers
	Workers   int    // 0 = number of CPUs
	TopK      int    // ranked results reported to console/API
	SeriesCSV string // default series for api/scheduler runs
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Fetcher
		Fetcher: FetcherConfig{
			BaseURL:     getEnv("FETCHER_BASE_URL", ""),
			RatePerSec:  getEnvAsFloat("FETCHER_RATE_PER_SEC", 1.0),
			Timeout:     getEnvAsDuration("FETCHER_TIMEOUT", "30s"),
			TableSelect: getEnv("FETCHER_TABLE_SELECTOR", "table tbody tr"),
		},

		// Search
		Search: SearchConfig{
			NTest:     getEnvAsInt("SEARCH_N_TEST", 165),
			Parallel:  getEnvAsBool("SEARCH_PARALLEL", true),
			Workers:   getEnvAsInt("SEARCH_WORKERS", 0),
			TopK:      getEnvAsInt("SEARCH_TOP_K", 3),
			SeriesCSV: getEnv("SEARCH_SERIES_CSV", ""),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
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

	if c.Search.NTest <= 0 {
		return fmt.Errorf("SEARCH_N_TEST must be positive")
	}

	if c.Search.TopK <= 0 {
		return fmt.Errorf("SEARCH_TOP_K must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
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
