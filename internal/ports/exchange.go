package ports

import (
	"context"
	"time"

	"smcScanBot/internal/domain"
)

// ExchangeClient defines the interface for retrieving candlestick data from an
// exchange. This abstraction decouples the scanner from specific exchange
// implementations; only market-data endpoints are required, no trading
// permissions are ever needed.
type ExchangeClient interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the current server time from the exchange.
	GetServerTime(ctx context.Context) (time.Time, error)

	// GetKlines retrieves the most recent klines for the given symbol and interval.
	GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error)

	// GetKlinesRange fetches all klines for a symbol and interval between start
	// and end, paginating as needed.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error)

	// StreamKlines starts a WebSocket stream for kline data. It takes handlers
	// for processing domain.Kline events and errors, and returns channels to
	// observe and stop the stream.
	StreamKlines(ctx context.Context, symbol, interval string, handler func(kline *domain.Kline), errHandler func(err error)) (doneCh chan struct{}, stopCh chan struct{}, err error)
}
