package smc

import (
	"context"
	"math"
	"time"

	"smcScanBot/internal/domain"
)

// noopLogger satisfies ports.Logger and discards everything.
type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (noopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// kline builds a one-minute test candle at slot i.
func kline(i int, open, high, low, close, volume float64) *domain.Kline {
	start := testStart.Add(time.Duration(i) * time.Minute)
	return &domain.Kline{
		OpenTime:  start,
		CloseTime: start.Add(time.Minute),
		Symbol:    "ETHUSDT",
		Interval:  "1m",
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		IsFinal:   true,
	}
}

// flatSeries builds n identical candles.
func flatSeries(n int, open, high, low, close float64) []*domain.Kline {
	klines := make([]*domain.Kline, 0, n)
	for i := 0; i < n; i++ {
		klines = append(klines, kline(i, open, high, low, close, 1000))
	}
	return klines
}

// waveSeries builds a deterministic oscillating series with swings on both sides.
// The wick widens slightly per index so no two candles share an exact high or low.
func waveSeries(n int) []*domain.Kline {
	klines := make([]*domain.Kline, 0, n)
	prevClose := 100.0
	for i := 0; i < n; i++ {
		close := 100 + 10*math.Sin(float64(i)/5)
		open := prevClose
		wick := 0.5 + 0.001*float64(i)
		high := math.Max(open, close) + wick
		low := math.Min(open, close) - wick
		klines = append(klines, kline(i, open, high, low, close, 1000+float64(i)))
		prevClose = close
	}
	return klines
}

// swingAt builds a hand-placed swing point for detector-level tests.
func swingAt(index int, kind domain.SwingKind, price float64) domain.SwingPoint {
	return domain.SwingPoint{
		Time:     testStart.Add(time.Duration(index) * time.Minute),
		Price:    price,
		Kind:     kind,
		Index:    index,
		Strength: 10,
	}
}
