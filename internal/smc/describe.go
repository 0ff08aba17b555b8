package smc

import (
	"fmt"
	"strings"

	"smcScanBot/internal/domain"
)

// describeItemLimit caps how many entries of each feature type the summary shows.
const describeItemLimit = 3

// Describe renders a human-readable multi-line summary of an analysis result.
// It is a pure formatting step over the result and carries no state.
func Describe(r *domain.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Market structure: trend=%s bias=%s\n", r.Trend, r.Bias)

	if pd := r.PremiumDiscount; pd != nil {
		fmt.Fprintf(&sb, "Equilibrium %.4f | premium %.4f-%.4f | discount %.4f-%.4f\n",
			pd.Equilibrium, pd.PremiumBand.Bottom, pd.PremiumBand.Top,
			pd.DiscountBand.Bottom, pd.DiscountBand.Top)
	}

	if obs := r.ActiveOrderBlocks(); len(obs) > 0 {
		sb.WriteString("Active order blocks:\n")
		for i, ob := range obs {
			if i == describeItemLimit {
				break
			}
			fmt.Fprintf(&sb, "  %s %s OB %.4f-%.4f (respected %dx) since %s\n",
				strings.ToLower(string(ob.Strength)), strings.ToLower(string(ob.Kind)),
				ob.ZoneBottom, ob.ZoneTop, ob.RespectCount, ob.StartTime.Format("2006-01-02 15:04"))
		}
	}

	if gaps := r.OpenFairValueGaps(); len(gaps) > 0 {
		sb.WriteString("Open fair value gaps:\n")
		for i, g := range gaps {
			if i == describeItemLimit {
				break
			}
			fmt.Fprintf(&sb, "  %s FVG %.4f-%.4f (%.2f%%, filled %.0f%%)\n",
				strings.ToLower(string(g.Kind)), g.ZoneBottom, g.ZoneTop, g.SizePercent, g.FillPercentage)
		}
	}

	if n := len(r.StructureBreaks); n > 0 {
		sb.WriteString("Recent structure breaks:\n")
		start := n - describeItemLimit
		if start < 0 {
			start = 0
		}
		for i := n - 1; i >= start; i-- {
			b := r.StructureBreaks[i]
			fmt.Fprintf(&sb, "  %s %s through %.4f at %s\n",
				strings.ToLower(string(b.Direction)), b.Kind, b.BrokenLevel,
				b.BreakTime.Format("2006-01-02 15:04"))
		}
	}

	if n := len(r.LiquiditySweeps); n > 0 {
		last := r.LiquiditySweeps[n-1]
		side := "buy-side"
		if last.Side == domain.SweepSellSide {
			side = "sell-side"
		}
		fmt.Fprintf(&sb, "Last liquidity sweep: %s at %.4f (wick %.4f)\n", side, last.SweptLevel, last.WickSize)
	}

	return strings.TrimRight(sb.String(), "\n")
}
