package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"smcScanBot/config"
	"smcScanBot/internal/adapters/binanceclient"
	"smcScanBot/internal/adapters/logger"
	"smcScanBot/internal/adapters/sqlite"
	"smcScanBot/internal/utils"
)

func main() {
	days := flag.Int("days", 30, "how many days of history to fetch")
	csvOut := flag.String("csv", "", "optional CSV output path (in addition to the local cache)")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:               cfg.APIKey,
		SecretKey:            cfg.SecretKey,
		UseTestnet:           cfg.IsTestnet,
		Logger:               appLogger,
		ReconnectDelay:       cfg.ReconnectDelay,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// 4. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer repo.Close()

	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	fmt.Printf("Fetching klines for %s %s from %s to %s...\n", cfg.Symbol, cfg.Interval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	klines, err := binanceClient.GetKlinesRange(context.Background(), cfg.Symbol, cfg.Interval, start, end)
	if err != nil {
		appLogger.Error(context.Background(), err, "Error fetching klines")
		log.Fatalf("Error fetching klines: %v", err)
	}
	appLogger.Info(context.Background(), "Fetched klines", map[string]interface{}{"count": len(klines)})

	if err := repo.SaveKlines(context.Background(), klines); err != nil {
		appLogger.Error(context.Background(), err, "Error caching klines")
		log.Fatalf("Error caching klines: %v", err)
	}
	appLogger.Info(context.Background(), "Cached klines", map[string]interface{}{"dbPath": cfg.DBPath})

	if *csvOut != "" {
		if err := utils.WriteKlinesToCSV(klines, *csvOut); err != nil {
			appLogger.Error(context.Background(), err, "Error writing CSV")
			log.Fatalf("Error writing CSV: %v", err)
		}
		appLogger.Info(context.Background(), "Saved CSV", map[string]interface{}{"filename": *csvOut})
	}
}
