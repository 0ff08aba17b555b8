package ports

import (
	"context"
	"time"

	"smcScanBot/internal/domain"
)

// KlineRepository defines the interface for caching candle history locally.
// Only raw input klines are persisted; detected structure features are
// recomputed from scratch on every analysis and never stored.
type KlineRepository interface {
	// SaveKlines upserts a batch of klines keyed by (symbol, interval, open_time).
	SaveKlines(ctx context.Context, klines []*domain.Kline) error
	// FindRecent retrieves the most recent klines for a symbol and interval,
	// ordered ascending by open time, up to a limit.
	FindRecent(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error)
	// FindRange retrieves klines within [start, end], ordered ascending by open time.
	FindRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error)
	// LatestOpenTime returns the open time of the newest cached kline, or the
	// zero time when the cache is empty for that symbol and interval.
	LatestOpenTime(ctx context.Context, symbol, interval string) (time.Time, error)
	// Count returns the number of cached klines for a symbol and interval.
	Count(ctx context.Context, symbol, interval string) (int, error)
}
