package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"smcScanBot/config"
	"smcScanBot/internal/adapters/binanceclient"
	"smcScanBot/internal/adapters/logger"
	"smcScanBot/internal/adapters/sqlite"
	"smcScanBot/internal/domain"
	"smcScanBot/internal/smc"
	"smcScanBot/internal/utils"
)

// analyze_klines runs a one-shot structure analysis over a candle window and
// prints the summary. The window comes from a CSV export, the local cache or
// the exchange, in that order of preference.
func main() {
	csvIn := flag.String("csv", "", "CSV file to analyze instead of the cache or exchange")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	// 3. Initialize Structure Analyzer
	analyzer, err := smc.New(smc.Config{
		SwingLookback: cfg.SwingLookback,
		ATRPeriod:     cfg.ATRPeriod,
		MinCandles:    cfg.MinCandles,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize structure analyzer")
		log.Fatalf("FATAL: Failed to initialize structure analyzer: %v", err)
	}

	// 4. Load the candle window
	var klines []*domain.Kline
	switch {
	case *csvIn != "":
		klines, err = utils.ReadKlinesFromCSV(*csvIn)
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to read CSV", map[string]interface{}{"file": *csvIn})
			log.Fatalf("FATAL: Failed to read CSV %s: %v", *csvIn, err)
		}
		appLogger.Info(ctx, "Loaded klines from CSV", map[string]interface{}{"file": *csvIn, "count": len(klines)})
	default:
		klines = loadFromCacheOrExchange(ctx, cfg, appLogger)
	}

	if len(klines) < analyzer.MinCandles() {
		log.Fatalf("FATAL: Only %d candles available, need at least %d", len(klines), analyzer.MinCandles())
	}

	// 5. Analyze and print
	result := analyzer.Analyze(ctx, klines)
	fmt.Println(smc.Describe(result))
}

// loadFromCacheOrExchange prefers the local cache and falls back to a REST
// fetch when the cache has too little history.
func loadFromCacheOrExchange(ctx context.Context, cfg *config.Config, appLogger *logger.StdLogger) []*domain.Kline {
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err == nil {
		defer repo.Close()
		cached, findErr := repo.FindRecent(ctx, cfg.Symbol, cfg.Interval, cfg.KlineLimit)
		if findErr == nil && len(cached) >= cfg.MinCandles {
			appLogger.Info(ctx, "Loaded klines from cache", map[string]interface{}{"count": len(cached)})
			return cached
		}
	} else {
		appLogger.Warn(ctx, "Cache unavailable, falling back to exchange", map[string]interface{}{"error": err.Error()})
	}

	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:               cfg.APIKey,
		SecretKey:            cfg.SecretKey,
		UseTestnet:           cfg.IsTestnet,
		Logger:               appLogger,
		ReconnectDelay:       cfg.ReconnectDelay,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	klines, err := binanceClient.GetKlines(ctx, cfg.Symbol, cfg.Interval, cfg.KlineLimit)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to fetch klines from exchange")
		log.Fatalf("FATAL: Failed to fetch klines: %v", err)
	}
	appLogger.Info(ctx, "Loaded klines from exchange", map[string]interface{}{"count": len(klines)})
	return klines
}
