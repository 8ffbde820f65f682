package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Prices   PricesConfig
	Metrics  MetricsConfig
	CORS     CORSConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// ImportConfig points at the directory holding the per-currency transaction
// CSV exports (US_Trx.csv, TW_Trx.csv, JP_Trx.csv, HK_Trx.csv).
type ImportConfig struct {
	DataDir string
}

// PricesConfig holds the price-provider settings. The provider token is kept
// in the settings store encrypted with FernetKey.
type PricesConfig struct {
	BaseURL         string
	FernetKey       string
	RefreshSchedule string // cron expression for the daily refresh
}

// MetricsConfig tunes the statistical conventions of the metrics engine.
// These follow standard finance practice by default but are configuration,
// not hard-coded constants.
type MetricsConfig struct {
	TradingDaysPerYear  int
	TrailingWindowYears int
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio.db"),
		},
		Import: ImportConfig{
			DataDir: getEnv("IMPORT_DATA_DIR", "./imported_data"),
		},
		Prices: PricesConfig{
			BaseURL:         getEnv("PRICE_API_BASE_URL", "https://query1.finance.yahoo.com"),
			FernetKey:       getEnv("SETTINGS_FERNET_KEY", ""),
			RefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 18 * * *"),
		},
		Metrics: MetricsConfig{
			TradingDaysPerYear:  getEnvInt("METRICS_TRADING_DAYS", 252),
			TrailingWindowYears: getEnvInt("METRICS_TRAILING_YEARS", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
