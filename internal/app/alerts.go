package app

import (
	"fmt"

	"smcScanBot/internal/domain"
	"smcScanBot/internal/ports"
)

// Alert rule names reported in ports.AlertEvent.Rule.
const (
	RulePriceInOrderBlock = "PRICE_IN_ORDER_BLOCK"
	RulePriceInFVG        = "PRICE_IN_FVG"
	RuleTrendShift        = "TREND_SHIFT"
	RuleLiquiditySweep    = "LIQUIDITY_SWEEP"
)

// evaluateAlerts compares the fresh analysis against the previous one and
// returns the alert events that fired on this candle. prev may be nil on the
// first analysis; in that case only price-location rules can fire.
func evaluateAlerts(symbol string, prev, curr *domain.AnalysisResult, price float64) []ports.AlertEvent {
	if curr == nil {
		return nil
	}
	var events []ports.AlertEvent

	for _, ob := range curr.ActiveOrderBlocks() {
		if price >= ob.ZoneBottom && price <= ob.ZoneTop {
			events = append(events, ports.AlertEvent{
				Symbol: symbol,
				Rule:   RulePriceInOrderBlock,
				Message: fmt.Sprintf("price %.4f inside %s %s order block %.4f-%.4f",
					price, ob.Strength, ob.Kind, ob.ZoneBottom, ob.ZoneTop),
				Price: price,
			})
			break // One order block alert per candle is enough
		}
	}

	for _, gap := range curr.OpenFairValueGaps() {
		if price >= gap.ZoneBottom && price <= gap.ZoneTop {
			events = append(events, ports.AlertEvent{
				Symbol: symbol,
				Rule:   RulePriceInFVG,
				Message: fmt.Sprintf("price %.4f inside open %s FVG %.4f-%.4f",
					price, gap.Kind, gap.ZoneBottom, gap.ZoneTop),
				Price: price,
			})
			break
		}
	}

	if b, ok := freshBreak(prev, curr); ok && b.Kind == domain.BreakCHoCH {
		events = append(events, ports.AlertEvent{
			Symbol: symbol,
			Rule:   RuleTrendShift,
			Message: fmt.Sprintf("change of character: %s break through %.4f",
				b.Direction, b.BrokenLevel),
			Price: price,
		})
	}

	if sw, ok := freshSweep(prev, curr); ok {
		events = append(events, ports.AlertEvent{
			Symbol: symbol,
			Rule:   RuleLiquiditySweep,
			Message: fmt.Sprintf("%s liquidity sweep at %.4f (wick %.4f)",
				sw.Side, sw.SweptLevel, sw.WickSize),
			Price: price,
		})
	}

	return events
}

// freshBreak reports the newest structure break when it was not present in the
// previous result.
func freshBreak(prev, curr *domain.AnalysisResult) (domain.StructureBreak, bool) {
	if prev == nil || len(curr.StructureBreaks) == 0 {
		return domain.StructureBreak{}, false
	}
	latest := curr.StructureBreaks[len(curr.StructureBreaks)-1]
	for _, b := range prev.StructureBreaks {
		if b.ID == latest.ID {
			return domain.StructureBreak{}, false
		}
	}
	return latest, true
}

// freshSweep reports the newest liquidity sweep when it was not present in the
// previous result.
func freshSweep(prev, curr *domain.AnalysisResult) (domain.LiquiditySweep, bool) {
	if prev == nil || len(curr.LiquiditySweeps) == 0 {
		return domain.LiquiditySweep{}, false
	}
	latest := curr.LiquiditySweeps[len(curr.LiquiditySweeps)-1]
	for _, sw := range prev.LiquiditySweeps {
		if sw.ID == latest.ID {
			return domain.LiquiditySweep{}, false
		}
	}
	return latest, true
}
