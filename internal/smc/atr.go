package smc

import (
	"math"

	"smcScanBot/internal/domain"
)

// DefaultATRPeriod is the lookback used when no period is configured.
const DefaultATRPeriod = 14

// ATR computes the Average True Range over the last `period` true ranges.
// The true range of a candle is the greatest of high-low, |high-prevClose|
// and |low-prevClose|; the first candle contributes none. Returns 0 when
// fewer than period+1 klines are available; callers must guard against
// dividing by that zero.
func ATR(klines []*domain.Kline, period int) float64 {
	if period <= 0 || len(klines) < period+1 {
		return 0
	}

	trueRanges := make([]float64, 0, len(klines)-1)
	for i := 1; i < len(klines); i++ {
		high := klines[i].High
		low := klines[i].Low
		prevClose := klines[i-1].Close

		tr := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		trueRanges = append(trueRanges, tr)
	}

	sum := 0.0
	for _, tr := range trueRanges[len(trueRanges)-period:] {
		sum += tr
	}
	return sum / float64(period)
}
