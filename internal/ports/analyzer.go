package ports

import (
	"context"

	"smcScanBot/internal/domain"
)

// StructureAnalyzer defines the interface for the market-structure engine.
// Implementations must be pure functions of the input slice: safe for
// concurrent calls and free of retained references into the input.
type StructureAnalyzer interface {
	// MinCandles returns the minimum series length for a full analysis; shorter
	// input yields a neutral result, never an error.
	MinCandles() int

	// Analyze derives swing points, order blocks, fair value gaps, structure
	// breaks, liquidity sweeps and the premium/discount zone from a time-sorted
	// kline series. The input is borrowed for the duration of the call only.
	Analyze(ctx context.Context, klines []*domain.Kline) *domain.AnalysisResult
}

// Notifier delivers alert events raised while evaluating an analysis result.
// Delivery transports (Telegram, webhooks, ...) live behind this interface.
type Notifier interface {
	Notify(ctx context.Context, event AlertEvent) error
}

// AlertEvent describes a single condition that fired during alert evaluation.
type AlertEvent struct {
	Symbol  string
	Rule    string
	Message string
	Price   float64
}
