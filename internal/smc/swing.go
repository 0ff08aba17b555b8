package smc

import "smcScanBot/internal/domain"

// DefaultSwingLookback is the symmetric window used when none is configured.
const DefaultSwingLookback = 5

// DetectSwingPoints finds local extrema confirmed by a symmetric window of
// `lookback` candles on both sides. A candle is a swing high when its high is
// strictly greater than every high in the window, and a swing low when its low
// is strictly less than every low. Ties never qualify: flat or equal extrema
// are excluded by the strict comparison. A single candle may be both a swing
// high and a swing low. Output is sorted ascending by time.
func DetectSwingPoints(klines []*domain.Kline, lookback int) []domain.SwingPoint {
	if lookback <= 0 || len(klines) < 2*lookback+1 {
		return nil
	}

	swings := make([]domain.SwingPoint, 0, len(klines)/lookback)
	for i := lookback; i < len(klines)-lookback; i++ {
		isHigh, isLow := true, true
		highStrength, lowStrength := 0, 0

		for j := i - lookback; j <= i+lookback; j++ {
			if j == i {
				continue
			}
			if klines[j].High < klines[i].High {
				highStrength++
			} else {
				isHigh = false
			}
			if klines[j].Low > klines[i].Low {
				lowStrength++
			} else {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}

		if isHigh {
			swings = append(swings, domain.SwingPoint{
				Time:     klines[i].OpenTime,
				Price:    klines[i].High,
				Kind:     domain.SwingHigh,
				Index:    i,
				Strength: highStrength,
			})
		}
		if isLow {
			swings = append(swings, domain.SwingPoint{
				Time:     klines[i].OpenTime,
				Price:    klines[i].Low,
				Kind:     domain.SwingLow,
				Index:    i,
				Strength: lowStrength,
			})
		}
	}
	return swings
}

// swingsOfKind filters swings by kind, preserving time order.
func swingsOfKind(swings []domain.SwingPoint, kind domain.SwingKind) []domain.SwingPoint {
	out := make([]domain.SwingPoint, 0, len(swings))
	for _, s := range swings {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
