package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"smcScanBot/config"
	"smcScanBot/internal/domain"
	"smcScanBot/internal/ports"
	"smcScanBot/internal/smc"
)

// ScannerService orchestrates the market-structure scanner: it warms up the
// candle window from the local cache or the exchange, follows the live kline
// stream and re-runs the analyzer on every closed candle.
type ScannerService struct {
	cfg       *config.Config
	logger    ports.Logger
	exchange  ports.ExchangeClient
	klineRepo ports.KlineRepository
	analyzer  ports.StructureAnalyzer
	notifier  ports.Notifier

	// State fields
	mu         sync.Mutex // Protects access to state fields below
	klineCache []*domain.Kline
	lastResult *domain.AnalysisResult
	generation uint64 // Incremented per closed candle; stale analyses are dropped
}

// NewScannerService creates a new application service instance.
func NewScannerService(
	cfg *config.Config,
	logger ports.Logger,
	exchange ports.ExchangeClient,
	klineRepo ports.KlineRepository,
	analyzer ports.StructureAnalyzer,
	notifier ports.Notifier,
) (*ScannerService, error) {

	if cfg == nil || logger == nil || exchange == nil || klineRepo == nil || analyzer == nil || notifier == nil {
		return nil, fmt.Errorf("missing required dependencies for ScannerService")
	}

	if cfg.KlineLimit <= 0 {
		return nil, fmt.Errorf("configuration KlineLimit must be positive")
	}
	if cfg.KlineLimit < analyzer.MinCandles() {
		return nil, fmt.Errorf("configuration KlineLimit (%d) is below the analyzer minimum (%d)",
			cfg.KlineLimit, analyzer.MinCandles())
	}

	return &ScannerService{
		cfg:        cfg,
		logger:     logger,
		exchange:   exchange,
		klineRepo:  klineRepo,
		analyzer:   analyzer,
		notifier:   notifier,
		klineCache: make([]*domain.Kline, 0, cfg.KlineLimit),
	}, nil
}

// LastResult returns the most recently published analysis, or nil before the
// first closed candle has been processed.
func (s *ScannerService) LastResult() *domain.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// Start begins the scanner's main loop. It blocks until the context is
// cancelled, a shutdown signal arrives or the kline stream dies for good.
func (s *ScannerService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting Scanner Service...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	// --- Initialization Steps ---
	// 1. Verify exchange connectivity and check the clock drift
	if err := s.exchange.Ping(ctx); err != nil {
		s.logger.Error(ctx, err, "Exchange is not reachable")
		return fmt.Errorf("exchange ping failed: %w", err)
	}
	if serverTime, err := s.exchange.GetServerTime(ctx); err != nil {
		s.logger.Warn(ctx, "Failed to read exchange server time", map[string]interface{}{"error": err.Error()})
	} else {
		drift := time.Since(serverTime).Round(time.Millisecond)
		s.logger.Info(ctx, "Exchange reachable", map[string]interface{}{
			"serverTime": serverTime.UTC(),
			"clockDrift": drift.String(),
		})
	}

	// 2. Warm up the candle window
	if err := s.warmUp(ctx); err != nil {
		return err
	}

	// 3. Run the first analysis over the warm-up window
	s.processKline(ctx, nil)

	// --- Start WebSocket Stream ---
	handler := func(kline *domain.Kline) { s.handleKlineEvent(ctx, kline) }
	wsDoneCh, wsStopCh, err := s.exchange.StreamKlines(ctx, s.cfg.Symbol, s.cfg.Interval, handler, s.handleWsError)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to start WebSocket stream")
		return fmt.Errorf("failed to start WebSocket stream: %w", err)
	}
	s.logger.Info(ctx, "WebSocket stream started", map[string]interface{}{"symbol": s.cfg.Symbol, "interval": s.cfg.Interval})

	// --- Main Loop ---
	// The work happens in handleKlineEvent; wait for shutdown or stream death.
	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Main context cancelled, initiating shutdown...")
		select {
		case wsStopCh <- struct{}{}:
			s.logger.Info(ctx, "Stop signal sent to WebSocket stream")
		default:
			s.logger.Warn(ctx, "Failed to send stop signal to WebSocket (already closed?)")
		}
		select {
		case <-wsDoneCh:
			s.logger.Info(ctx, "WebSocket stream shut down gracefully")
		case <-time.After(5 * time.Second):
			s.logger.Warn(ctx, "Timeout waiting for WebSocket stream to shut down")
		}
	case <-wsDoneCh:
		// Stream closed unexpectedly (e.g., max reconnect attempts exceeded)
		s.logger.Error(ctx, fmt.Errorf("websocket stream closed unexpectedly"), "WebSocket stream stopped")
		return fmt.Errorf("websocket stream stopped unexpectedly")
	}

	s.logger.Info(ctx, "Scanner Service stopped.")
	return nil
}

// warmUp fills the kline cache from the local repository, falling back to the
// exchange REST API when the cache has too little history.
func (s *ScannerService) warmUp(ctx context.Context) error {
	cached, err := s.klineRepo.FindRecent(ctx, s.cfg.Symbol, s.cfg.Interval, s.cfg.KlineLimit)
	if err != nil {
		// A broken cache is not fatal for a scanner; fall through to the exchange.
		s.logger.Warn(ctx, "Failed to load cached klines, falling back to exchange", map[string]interface{}{"error": err.Error()})
		cached = nil
	}

	if len(cached) >= s.analyzer.MinCandles() {
		s.mu.Lock()
		s.klineCache = cached
		s.mu.Unlock()
		s.logger.Info(ctx, "Warm-up from local cache", map[string]interface{}{"count": len(cached)})
		return nil
	}

	s.logger.Info(ctx, "Local cache insufficient, fetching history from exchange", map[string]interface{}{
		"cached": len(cached), "need": s.analyzer.MinCandles()})

	fetched, err := s.exchange.GetKlines(ctx, s.cfg.Symbol, s.cfg.Interval, s.cfg.KlineLimit)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load initial klines from exchange")
		return fmt.Errorf("failed to load initial klines: %w", err)
	}
	if len(fetched) < s.analyzer.MinCandles() {
		err := fmt.Errorf("not enough initial klines loaded (%d) to meet analyzer requirement (%d): %w",
			len(fetched), s.analyzer.MinCandles(), ports.ErrInsufficientData)
		s.logger.Error(ctx, err, "Insufficient historical data")
		return err
	}

	if err := s.klineRepo.SaveKlines(ctx, fetched); err != nil {
		s.logger.Warn(ctx, "Failed to cache warm-up klines", map[string]interface{}{"error": err.Error()})
	}

	s.mu.Lock()
	s.klineCache = fetched
	s.mu.Unlock()
	s.logger.Info(ctx, "Warm-up from exchange", map[string]interface{}{"count": len(fetched)})
	return nil
}

// handleKlineEvent processes incoming kline data from the WebSocket stream.
func (s *ScannerService) handleKlineEvent(ctx context.Context, kline *domain.Kline) {
	s.logger.Debug(ctx, "Received kline event", map[string]interface{}{
		"symbol":    kline.Symbol,
		"interval":  kline.Interval,
		"closeTime": kline.CloseTime,
		"close":     kline.Close,
		"isFinal":   kline.IsFinal,
	})

	// Only closed candles advance the analysis window
	if !kline.IsFinal {
		return
	}

	if err := s.klineRepo.SaveKlines(ctx, []*domain.Kline{kline}); err != nil {
		s.logger.Warn(ctx, "Failed to cache streamed kline", map[string]interface{}{"error": err.Error()})
	}

	s.processKline(ctx, kline)
}

// processKline appends a closed candle (nil means reuse the current window),
// re-runs the analyzer and publishes the result unless a newer candle has
// superseded it in the meantime.
func (s *ScannerService) processKline(ctx context.Context, kline *domain.Kline) {
	s.mu.Lock()
	if kline != nil {
		// Replace rather than duplicate if the stream redelivers a candle
		if n := len(s.klineCache); n > 0 && !kline.OpenTime.After(s.klineCache[n-1].OpenTime) {
			if kline.OpenTime.Equal(s.klineCache[n-1].OpenTime) {
				s.klineCache[n-1] = kline
			} else {
				s.mu.Unlock()
				s.logger.Warn(ctx, "Dropping out-of-order kline", map[string]interface{}{"openTime": kline.OpenTime})
				return
			}
		} else {
			s.klineCache = append(s.klineCache, kline)
		}
		if len(s.klineCache) > s.cfg.KlineLimit {
			s.klineCache = s.klineCache[len(s.klineCache)-s.cfg.KlineLimit:]
		}
	}
	s.generation++
	gen := s.generation
	window := make([]*domain.Kline, len(s.klineCache))
	copy(window, s.klineCache)
	s.mu.Unlock()

	// Analysis runs outside the lock so a fresh candle is never blocked
	result := s.analyzer.Analyze(ctx, window)

	prev, err := s.publishResult(gen, result)
	if err != nil {
		s.logger.Debug(ctx, "Discarding superseded analysis", map[string]interface{}{
			"generation": gen, "reason": err.Error()})
		return
	}

	if len(window) == 0 {
		return
	}
	currentPrice := window[len(window)-1].Close

	if prev == nil || prev.Trend != result.Trend || prev.Bias != result.Bias {
		s.logger.Info(ctx, "Market structure updated", map[string]interface{}{
			"symbol": s.cfg.Symbol,
			"trend":  result.Trend,
			"bias":   result.Bias,
		})
		s.logger.Info(ctx, smc.Describe(result))
	}

	for _, event := range evaluateAlerts(s.cfg.Symbol, prev, result, currentPrice) {
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Warn(ctx, "Failed to deliver alert", map[string]interface{}{"rule": event.Rule, "error": err.Error()})
		}
	}
}

// publishResult installs the analysis computed for generation gen as the
// latest result and returns the one it replaced. When a newer candle bumped
// the generation while the analysis ran it reports ports.ErrStaleResult and
// leaves the published state untouched.
func (s *ScannerService) publishResult(gen uint64, result *domain.AnalysisResult) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, fmt.Errorf("analysis for generation %d arrived after generation %d: %w",
			gen, s.generation, ports.ErrStaleResult)
	}
	prev := s.lastResult
	s.lastResult = result
	return prev, nil
}

// handleWsError handles errors reported by the WebSocket stream. Reconnection
// is handled inside the adapter, so this only logs.
func (s *ScannerService) handleWsError(err error) {
	s.logger.Error(context.Background(), err, "WebSocket stream error reported")
}
