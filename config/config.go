package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"smcScanBot/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Binance API. Keys are optional: the scanner only uses public
	// market-data endpoints.
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Market selection
	Symbol   string
	Interval string

	// Analysis Parameters
	KlineLimit    int // How many candles the scanner keeps in memory
	MinCandles    int // Series length gate for a full analysis
	SwingLookback int // Symmetric swing confirmation window
	ATRPeriod     int // Volatility lookback

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter

	// Connection Settings
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Market selection
	cfg.Symbol = getEnv("SYMBOL", "ETHUSDT")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}
	cfg.Interval = getEnv("INTERVAL", "1m")
	if cfg.Interval == "" {
		errs = append(errs, "INTERVAL must be set")
	}

	// Analysis Parameters
	cfg.KlineLimit, err = getEnvAsIntRequired("KLINE_LIMIT", 500)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid KLINE_LIMIT: %v", err))
	} else if cfg.KlineLimit <= 0 {
		errs = append(errs, "KLINE_LIMIT must be positive")
	}

	cfg.MinCandles, err = getEnvAsIntRequired("MIN_CANDLES", 50)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MIN_CANDLES: %v", err))
	} else if cfg.MinCandles <= 0 {
		errs = append(errs, "MIN_CANDLES must be positive")
	}

	cfg.SwingLookback, err = getEnvAsIntRequired("SWING_LOOKBACK", 5)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SWING_LOOKBACK: %v", err))
	} else if cfg.SwingLookback <= 0 {
		errs = append(errs, "SWING_LOOKBACK must be positive")
	}

	cfg.ATRPeriod, err = getEnvAsIntRequired("ATR_PERIOD", 14)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ATR_PERIOD: %v", err))
	} else if cfg.ATRPeriod <= 0 {
		errs = append(errs, "ATR_PERIOD must be positive")
	}

	if cfg.MinCandles > cfg.KlineLimit {
		errs = append(errs, "MIN_CANDLES must not exceed KLINE_LIMIT")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/smc_scanner.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Connection Settings
	reconnectDelaySeconds := getEnvAsInt("RECONNECT_DELAY_SECONDS", 5)
	if reconnectDelaySeconds <= 0 {
		errs = append(errs, "RECONNECT_DELAY_SECONDS must be positive")
	}
	cfg.ReconnectDelay = time.Duration(reconnectDelaySeconds) * time.Second

	cfg.MaxReconnectAttempts = getEnvAsInt("MAX_RECONNECT_ATTEMPTS", 10)
	if cfg.MaxReconnectAttempts < 0 {
		errs = append(errs, "MAX_RECONNECT_ATTEMPTS cannot be negative")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
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

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
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
