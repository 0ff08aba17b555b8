package smc

import "smcScanBot/internal/domain"

// DetectLiquiditySweeps finds wick-through-and-reject patterns at prior swing
// levels. A candle sweeps buy-side liquidity when its high pierces an earlier
// swing high but it closes back below that level with an upper wick larger
// than half its body; sweeping sell-side liquidity below an earlier swing low
// mirrors the rule. Sweeps are point-in-time events: there is no mitigation
// and no expiry.
func DetectLiquiditySweeps(klines []*domain.Kline, swings []domain.SwingPoint) []domain.LiquiditySweep {
	if len(swings) == 0 {
		return nil
	}

	sweeps := make([]domain.LiquiditySweep, 0, 4)
	for i, k := range klines {
		halfBody := k.Body() / 2
		for _, s := range swings {
			if s.Index >= i {
				break
			}
			switch s.Kind {
			case domain.SwingHigh:
				if k.High > s.Price && k.Close < s.Price && k.UpperWick() > halfBody {
					sweeps = append(sweeps, domain.LiquiditySweep{
						ID:              featureID("sweep-buy", k.OpenTime, s.Price),
						Side:            domain.SweepBuySide,
						SweptLevel:      s.Price,
						SweepTime:       k.OpenTime,
						WickSize:        k.High - s.Price,
						ClosedBackAbove: false,
						Valid:           true,
					})
				}
			case domain.SwingLow:
				if k.Low < s.Price && k.Close > s.Price && k.LowerWick() > halfBody {
					sweeps = append(sweeps, domain.LiquiditySweep{
						ID:              featureID("sweep-sell", k.OpenTime, s.Price),
						Side:            domain.SweepSellSide,
						SweptLevel:      s.Price,
						SweepTime:       k.OpenTime,
						WickSize:        s.Price - k.Low,
						ClosedBackAbove: true,
						Valid:           true,
					})
				}
			}
		}
	}
	return sweeps
}
