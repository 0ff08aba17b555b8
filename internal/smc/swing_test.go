package smc

import (
	"testing"

	"smcScanBot/internal/domain"
)

// peakSeries builds candles whose highs follow the given center values with a
// fixed half-range of 0.5.
func peakSeries(values []float64) []*domain.Kline {
	klines := make([]*domain.Kline, 0, len(values))
	for i, v := range values {
		klines = append(klines, kline(i, v, v+0.5, v-0.5, v, 1000))
	}
	return klines
}

func TestDetectSwingPoints_SingleHigh(t *testing.T) {
	klines := peakSeries([]float64{1, 2, 3, 4, 5, 10, 5, 4, 3, 2, 1})
	swings := DetectSwingPoints(klines, 5)

	if len(swings) != 1 {
		t.Fatalf("expected 1 swing, got %d", len(swings))
	}
	s := swings[0]
	if s.Kind != domain.SwingHigh {
		t.Errorf("expected swing high, got %s", s.Kind)
	}
	if s.Index != 5 {
		t.Errorf("expected index 5, got %d", s.Index)
	}
	if s.Price != 10.5 {
		t.Errorf("expected price 10.5, got %f", s.Price)
	}
	if s.Strength != 10 {
		t.Errorf("expected strength 10 (2*lookback), got %d", s.Strength)
	}
}

func TestDetectSwingPoints_TiesExcluded(t *testing.T) {
	// Two equal peaks: the strict comparison disqualifies both.
	klines := peakSeries([]float64{1, 2, 3, 4, 5, 10, 10, 4, 3, 2, 1, 1})
	swings := DetectSwingPoints(klines, 5)
	for _, s := range swings {
		if s.Kind == domain.SwingHigh {
			t.Errorf("flat peak must not qualify as swing high, got one at index %d", s.Index)
		}
	}
}

func TestDetectSwingPoints_HighAndLowOnSameCandle(t *testing.T) {
	klines := []*domain.Kline{
		kline(0, 5, 5.2, 4.8, 5, 1000),
		kline(1, 5, 5.2, 4.8, 5, 1000),
		kline(2, 5, 8, 2, 5, 1000), // engulfs the window on both sides
		kline(3, 5, 5.2, 4.8, 5, 1000),
		kline(4, 5, 5.2, 4.8, 5, 1000),
	}
	swings := DetectSwingPoints(klines, 2)
	if len(swings) != 2 {
		t.Fatalf("expected the middle candle to be both swing high and swing low, got %d swings", len(swings))
	}
	if swings[0].Index != 2 || swings[1].Index != 2 {
		t.Errorf("expected both swings at index 2, got %d and %d", swings[0].Index, swings[1].Index)
	}
}

func TestDetectSwingPoints_InsufficientData(t *testing.T) {
	if got := DetectSwingPoints(peakSeries([]float64{1, 2, 3}), 5); len(got) != 0 {
		t.Errorf("expected no swings for short series, got %d", len(got))
	}
}

func TestDetectSwingPoints_SortedByTime(t *testing.T) {
	klines := waveSeries(120)
	swings := DetectSwingPoints(klines, 5)
	if len(swings) == 0 {
		t.Fatal("expected swings in an oscillating series")
	}
	highs, lows := 0, 0
	for i, s := range swings {
		if i > 0 && s.Time.Before(swings[i-1].Time) {
			t.Errorf("swings out of time order at position %d", i)
		}
		switch s.Kind {
		case domain.SwingHigh:
			highs++
		case domain.SwingLow:
			lows++
		}
	}
	if highs == 0 || lows == 0 {
		t.Errorf("expected swings on both sides, got %d highs and %d lows", highs, lows)
	}
}
