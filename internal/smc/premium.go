package smc

import "smcScanBot/internal/domain"

// pdSwingSample is how many of the most recent swing highs and lows define the
// premium/discount range.
const pdSwingSample = 3

// CalcPremiumDiscount derives an equilibrium price band from recent swings.
// It takes up to the three most recent swing highs and lows (fewer is fine),
// spans the range from their extremes and splits it at the midpoint. Returns
// nil when either side has no swings at all.
func CalcPremiumDiscount(swings []domain.SwingPoint) *domain.PremiumDiscountZone {
	highs := lastN(swingsOfKind(swings, domain.SwingHigh), pdSwingSample)
	lows := lastN(swingsOfKind(swings, domain.SwingLow), pdSwingSample)
	if len(highs) == 0 || len(lows) == 0 {
		return nil
	}

	swingHigh := highs[0].Price
	for _, s := range highs[1:] {
		if s.Price > swingHigh {
			swingHigh = s.Price
		}
	}
	swingLow := lows[0].Price
	for _, s := range lows[1:] {
		if s.Price < swingLow {
			swingLow = s.Price
		}
	}

	equilibrium := swingLow + (swingHigh-swingLow)/2
	return &domain.PremiumDiscountZone{
		Equilibrium:  equilibrium,
		PremiumBand:  domain.PriceBand{Top: swingHigh, Bottom: equilibrium},
		DiscountBand: domain.PriceBand{Top: equilibrium, Bottom: swingLow},
		SwingHigh:    swingHigh,
		SwingLow:     swingLow,
	}
}

// lastN returns the final n elements of swings, or all of them when shorter.
func lastN(swings []domain.SwingPoint, n int) []domain.SwingPoint {
	if len(swings) <= n {
		return swings
	}
	return swings[len(swings)-n:]
}
