package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"smcScanBot/config"
	"smcScanBot/internal/adapters/binanceclient"
	"smcScanBot/internal/adapters/logger"
	"smcScanBot/internal/adapters/notifier"
	"smcScanBot/internal/adapters/sqlite"
	"smcScanBot/internal/app"
	"smcScanBot/internal/smc"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err) // Also log to stderr
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Exchange Client (Binance Adapter)
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
	appLogger.Info(context.Background(), "Binance client initialized")

	// 5. Initialize Structure Analyzer
	analyzer, err := smc.New(smc.Config{
		SwingLookback: cfg.SwingLookback,
		ATRPeriod:     cfg.ATRPeriod,
		MinCandles:    cfg.MinCandles,
	}, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize structure analyzer")
		log.Fatalf("FATAL: Failed to initialize structure analyzer: %v", err)
	}
	appLogger.Info(context.Background(), "Structure analyzer initialized")

	// 6. Initialize Notifier
	alertNotifier, err := notifier.New(appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize notifier")
		log.Fatalf("FATAL: Failed to initialize notifier: %v", err)
	}

	// 7. Initialize Application Service
	scanner, err := app.NewScannerService(
		cfg,
		appLogger,
		binanceClient, // Pass the concrete implementation, service expects the interface
		repo,          // Pass the concrete implementation, service expects the interface
		analyzer,
		alertNotifier,
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize scanner service")
		log.Fatalf("FATAL: Failed to initialize scanner service: %v", err)
	}
	appLogger.Info(context.Background(), "Scanner service initialized")

	// 8. Start the Service
	if err := scanner.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Scanner service exited with error")
		log.Fatalf("FATAL: Scanner service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
