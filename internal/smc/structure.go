package smc

import "smcScanBot/internal/domain"

// DetectStructureBreaks finds Break-of-Structure and Change-of-Character
// events. It requires at least two swing highs and two swing lows; otherwise
// no breaks are reported.
//
// The tracked trend is seeded from the two most recent swing highs and lows:
// both rising seeds a bullish trend, both falling a bearish one, anything else
// leaves the trend unset. Swings are then iterated in time order; for each
// swing the nearest earlier swing of the same kind provides the level, and the
// candles are scanned forward from that prior swing for the first close-side
// violation (high above a prior swing high, low below a prior swing low). A
// break against the tracked trend is a CHoCH and flips the trend; any other
// break is a BOS. Only the first break per distinct (level, direction) pair is
// kept; later identical triggers are discarded.
func DetectStructureBreaks(klines []*domain.Kline, swings []domain.SwingPoint) []domain.StructureBreak {
	highs := swingsOfKind(swings, domain.SwingHigh)
	lows := swingsOfKind(swings, domain.SwingLow)
	if len(highs) < 2 || len(lows) < 2 {
		return nil
	}

	trend := seedTrend(highs, lows)

	type levelKey struct {
		level     float64
		direction domain.Direction
	}
	seen := make(map[levelKey]bool)
	breaks := make([]domain.StructureBreak, 0, 4)

	lastSameKind := map[domain.SwingKind]int{domain.SwingHigh: -1, domain.SwingLow: -1}
	for i, s := range swings {
		priorIdx := lastSameKind[s.Kind]
		lastSameKind[s.Kind] = i
		if priorIdx < 0 {
			continue
		}
		prior := swings[priorIdx]

		direction := domain.DirectionBullish
		if prior.Kind == domain.SwingLow {
			direction = domain.DirectionBearish
		}

		confirmIdx := scanBreak(klines, prior)
		if confirmIdx < 0 {
			continue
		}

		key := levelKey{level: prior.Price, direction: direction}
		if seen[key] {
			continue
		}
		seen[key] = true

		kind := domain.BreakBOS
		switch {
		case trend == domain.TrendBullish && direction == domain.DirectionBearish,
			trend == domain.TrendBearish && direction == domain.DirectionBullish:
			kind = domain.BreakCHoCH
		}
		if direction == domain.DirectionBullish {
			trend = domain.TrendBullish
		} else {
			trend = domain.TrendBearish
		}

		breaks = append(breaks, domain.StructureBreak{
			ID:                    featureID("break-"+string(direction), klines[confirmIdx].OpenTime, prior.Price),
			Kind:                  kind,
			Direction:             direction,
			BrokenLevel:           prior.Price,
			BreakTime:             klines[confirmIdx].OpenTime,
			ConfirmingCandleIndex: confirmIdx,
			OriginSwing:           prior,
		})
	}
	return breaks
}

// seedTrend compares the two most recent swing highs and lows. Both rising
// seeds bullish, both falling bearish; mixed structure leaves the trend unset
// so that subsequent breaks default to BOS classification.
func seedTrend(highs, lows []domain.SwingPoint) domain.Trend {
	risingHighs := highs[len(highs)-1].Price > highs[len(highs)-2].Price
	risingLows := lows[len(lows)-1].Price > lows[len(lows)-2].Price

	switch {
	case risingHighs && risingLows:
		return domain.TrendBullish
	case !risingHighs && !risingLows:
		return domain.TrendBearish
	default:
		return ""
	}
}

// scanBreak walks forward from the candle after the given swing and returns
// the index of the first candle trading through its level, or -1.
func scanBreak(klines []*domain.Kline, prior domain.SwingPoint) int {
	for j := prior.Index + 1; j < len(klines); j++ {
		if prior.Kind == domain.SwingHigh && klines[j].High > prior.Price {
			return j
		}
		if prior.Kind == domain.SwingLow && klines[j].Low < prior.Price {
			return j
		}
	}
	return -1
}
