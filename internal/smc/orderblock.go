package smc

import (
	"math"

	"smcScanBot/internal/domain"
)

const (
	// obBodyATRMultiplier is the impulse threshold: the confirming candle body
	// must exceed this multiple of the ATR for an order block to form.
	obBodyATRMultiplier = 1.5
	// obVolumeLookback is the number of candles whose volume is averaged when
	// classifying order block strength.
	obVolumeLookback = 20
	// obDisplacementWindow is how many candles ahead are scanned for the
	// displacement move when classifying strength.
	obDisplacementWindow = 5
)

// DetectOrderBlocks finds the last opposing candle before an impulsive move.
// For each interior index i (skipping the first three candles and the last),
// the triple (prev, current, next) forms a bullish order block when prev is
// bearish, current is bullish with a body above obBodyATRMultiplier*atr, and
// next closes above current; the bearish case mirrors it. Each block is then
// scanned forward for mitigation and classified by strength. atrPeriod
// controls the per-block displacement baseline.
func DetectOrderBlocks(klines []*domain.Kline, atr float64, atrPeriod int) []domain.OrderBlock {
	if len(klines) < 5 {
		return nil
	}

	blocks := make([]domain.OrderBlock, 0, 4)
	for i := 3; i < len(klines)-1; i++ {
		prev, current, next := klines[i-1], klines[i], klines[i+1]

		var kind domain.Direction
		switch {
		case prev.IsBearish() && current.IsBullish() &&
			current.Close-current.Open > obBodyATRMultiplier*atr &&
			next.Close > current.Close:
			kind = domain.DirectionBullish
		case prev.IsBullish() && current.IsBearish() &&
			current.Open-current.Close > obBodyATRMultiplier*atr &&
			next.Close < current.Close:
			kind = domain.DirectionBearish
		default:
			continue
		}

		ob := domain.OrderBlock{
			Kind:      kind,
			StartTime: prev.OpenTime,
			EndTime:   current.CloseTime,
		}
		if kind == domain.DirectionBullish {
			ob.ZoneTop = prev.BodyTop()
			ob.ZoneBottom = prev.Low
		} else {
			ob.ZoneTop = prev.High
			ob.ZoneBottom = prev.BodyBottom()
		}
		ob.ID = featureID("ob-"+string(kind), prev.OpenTime, ob.ZoneTop)

		scanMitigation(&ob, klines, i+1)
		ob.Strength = classifyStrength(klines, i, kind, atrPeriod)

		blocks = append(blocks, ob)
	}
	return blocks
}

// scanMitigation walks forward from `from` until the first candle re-enters
// the zone. A bullish block is mitigated the first time a low reaches the zone
// top or below; a bearish block the first time a high reaches the zone bottom
// or above. The scan stops at first mitigation: the result is final and a
// block never reverts to unmitigated. Candles that approach within one zone
// height without entering count as respects.
func scanMitigation(ob *domain.OrderBlock, klines []*domain.Kline, from int) {
	height := ob.ZoneTop - ob.ZoneBottom
	for j := from; j < len(klines); j++ {
		k := klines[j]
		if ob.Kind == domain.DirectionBullish {
			if k.Low <= ob.ZoneTop {
				ob.Mitigated = true
				ob.MitigationTime = k.OpenTime
				return
			}
			if k.Low <= ob.ZoneTop+height {
				ob.RespectCount++
			}
		} else {
			if k.High >= ob.ZoneBottom {
				ob.Mitigated = true
				ob.MitigationTime = k.OpenTime
				return
			}
			if k.High >= ob.ZoneBottom-height {
				ob.RespectCount++
			}
		}
	}
}

// classifyStrength grades an order block by relative volume of the impulse
// candle and by the displacement that followed it. Strong requires both a
// volume ratio above 1.5 and a displacement above 2 ATR; Medium requires
// either a volume ratio above 1 or a displacement above 1.5 ATR. When the ATR
// before the block is zero the displacement ratio is undefined, so the block
// stays Weak rather than dividing by zero.
func classifyStrength(klines []*domain.Kline, i int, kind domain.Direction, atrPeriod int) domain.OrderBlockStrength {
	atrBefore := ATR(klines[:i+1], atrPeriod)
	if atrBefore <= 0 {
		return domain.StrengthWeak
	}

	volumeRatio := 0.0
	start := i - obVolumeLookback
	if start < 0 {
		start = 0
	}
	if i > start {
		sum := 0.0
		for _, k := range klines[start:i] {
			sum += k.Volume
		}
		if avg := sum / float64(i-start); avg > 0 {
			volumeRatio = klines[i].Volume / avg
		}
	}

	move := 0.0
	end := i + 1 + obDisplacementWindow
	if end > len(klines) {
		end = len(klines)
	}
	for _, k := range klines[i+1 : end] {
		if kind == domain.DirectionBullish {
			move = math.Max(move, k.High-klines[i].Close)
		} else {
			move = math.Max(move, klines[i].Close-k.Low)
		}
	}
	displacementRatio := move / atrBefore

	switch {
	case volumeRatio > 1.5 && displacementRatio > 2:
		return domain.StrengthStrong
	case volumeRatio > 1 || displacementRatio > 1.5:
		return domain.StrengthMedium
	default:
		return domain.StrengthWeak
	}
}
