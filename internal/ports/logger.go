package ports

import "context"

// Logger is the structured logging interface the scanner writes through.
// Adapters and the analysis pipeline log via this port so the backing
// implementation (standard log today) stays swappable.
type Logger interface {
	// Debug logs high-volume diagnostics such as per-kline stream events.
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	// Info logs lifecycle and analysis milestones.
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	// Warn logs recoverable problems, e.g. a cache miss or dropped candle.
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error logs a failure together with its underlying error.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}
