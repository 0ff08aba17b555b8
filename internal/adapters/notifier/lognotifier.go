package notifier

import (
	"context"
	"fmt"

	"smcScanBot/internal/ports"
)

// LogNotifier implements the ports.Notifier interface by writing alert events
// to the configured logger. It is the default delivery transport; richer
// transports can be swapped in behind the same interface.
type LogNotifier struct {
	logger ports.Logger
}

// New creates a new log-backed notifier.
func New(logger ports.Logger) (*LogNotifier, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for notifier")
	}
	return &LogNotifier{logger: logger}, nil
}

// Notify writes the alert event at Info level.
func (n *LogNotifier) Notify(ctx context.Context, event ports.AlertEvent) error {
	n.logger.Info(ctx, "ALERT: "+event.Message, map[string]interface{}{
		"symbol": event.Symbol,
		"rule":   event.Rule,
		"price":  event.Price,
	})
	return nil
}
