package smc

import (
	"math"

	"smcScanBot/internal/domain"
)

// fvgMinSizePercent is the minimum gap size, relative to the middle candle
// close, for a fair value gap to be recorded.
const fvgMinSizePercent = 0.1

// DetectFairValueGaps finds three-candle imbalances. A bullish gap exists when
// the third candle's low sits strictly above the first candle's high, a
// bearish gap when the third candle's high sits strictly below the first
// candle's low. Gaps smaller than fvgMinSizePercent of the middle candle close
// are ignored. Consecutive overlapping gaps of the same kind are widened into
// one zone rather than recorded twice. Each recorded gap is then scanned
// forward for fill and inversion.
func DetectFairValueGaps(klines []*domain.Kline) []domain.FairValueGap {
	if len(klines) < 3 {
		return nil
	}

	type openGap struct {
		gap      domain.FairValueGap
		scanFrom int
	}
	gaps := make([]openGap, 0, 4)

	for i := 2; i < len(klines); i++ {
		c1, c2, c3 := klines[i-2], klines[i-1], klines[i]
		if c2.Close == 0 {
			continue
		}

		var g domain.FairValueGap
		switch {
		case c3.Low > c1.High:
			g = domain.FairValueGap{
				Kind:       domain.DirectionBullish,
				ZoneTop:    c3.Low,
				ZoneBottom: c1.High,
			}
		case c3.High < c1.Low:
			g = domain.FairValueGap{
				Kind:       domain.DirectionBearish,
				ZoneTop:    c1.Low,
				ZoneBottom: c3.High,
			}
		default:
			continue
		}

		g.SizePercent = (g.ZoneTop - g.ZoneBottom) / c2.Close * 100
		if g.SizePercent <= fvgMinSizePercent {
			continue
		}
		g.StartTime = c1.OpenTime
		g.EndTime = c3.CloseTime

		// A gap continuing across consecutive triples overlaps the previous
		// zone; widen that zone instead of recording the same imbalance twice.
		if n := len(gaps); n > 0 {
			last := &gaps[n-1].gap
			if last.Kind == g.Kind && g.ZoneBottom <= last.ZoneTop && g.ZoneTop >= last.ZoneBottom {
				last.ZoneTop = math.Max(last.ZoneTop, g.ZoneTop)
				last.ZoneBottom = math.Min(last.ZoneBottom, g.ZoneBottom)
				last.EndTime = g.EndTime
				last.SizePercent = (last.ZoneTop - last.ZoneBottom) / c2.Close * 100
				gaps[n-1].scanFrom = i + 1
				continue
			}
		}

		g.ID = featureID("fvg-"+string(g.Kind), c1.OpenTime, g.ZoneBottom)
		gaps = append(gaps, openGap{gap: g, scanFrom: i + 1})
	}

	out := make([]domain.FairValueGap, 0, len(gaps))
	for _, og := range gaps {
		trackFill(&og.gap, klines, og.scanFrom)
		out = append(out, og.gap)
	}
	return out
}

// trackFill walks forward from the candle after the gap. The first candle that
// trades through the far side of the zone marks the gap filled at 100%; if
// that candle also closes beyond the zone the gap is an inversion (price
// reclaimed it as opposing structure). Partial penetrations only ratchet the
// fill percentage upward, never down.
func trackFill(g *domain.FairValueGap, klines []*domain.Kline, from int) {
	size := g.ZoneTop - g.ZoneBottom
	if size <= 0 {
		return
	}

	for j := from; j < len(klines); j++ {
		k := klines[j]
		if g.Kind == domain.DirectionBullish {
			if k.Low <= g.ZoneBottom {
				g.Filled = true
				g.FillPercentage = 100
				g.IsInversion = k.Close < g.ZoneBottom
				return
			}
			if k.Low < g.ZoneTop {
				depth := g.ZoneTop - k.Low
				g.FillPercentage = math.Max(g.FillPercentage, math.Min(depth/size*100, 100))
			}
		} else {
			if k.High >= g.ZoneTop {
				g.Filled = true
				g.FillPercentage = 100
				g.IsInversion = k.Close > g.ZoneTop
				return
			}
			if k.High > g.ZoneBottom {
				depth := k.High - g.ZoneBottom
				g.FillPercentage = math.Max(g.FillPercentage, math.Min(depth/size*100, 100))
			}
		}
	}
}
