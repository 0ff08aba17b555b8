package domain

import "time"

// SwingPoint is a local price extremum confirmed by a symmetric lookback
// window of strictly lesser (for highs) or strictly greater (for lows)
// neighbors. Downstream detectors reference swings by value copy and series
// index, never by shared handle.
type SwingPoint struct {
	Time     time.Time
	Price    float64
	Kind     SwingKind
	Index    int // position in the analyzed kline series
	Strength int // count of confirming neighbors, at most 2*lookback
}

// OrderBlock is the last opposite-colored candle preceding an impulsive move,
// treated as a zone of institutional interest. ZoneTop >= ZoneBottom always
// holds; Mitigated transitions false->true at most once and never reverts.
type OrderBlock struct {
	ID             string
	Kind           Direction
	ZoneTop        float64
	ZoneBottom     float64
	StartTime      time.Time
	EndTime        time.Time
	Mitigated      bool
	MitigationTime time.Time // zero when not mitigated
	Strength       OrderBlockStrength
	RespectCount   int // approaches that held the zone before mitigation
}

// Midpoint returns the center price of the zone.
func (ob *OrderBlock) Midpoint() float64 {
	return (ob.ZoneTop + ob.ZoneBottom) / 2
}

// FairValueGap is a three-candle imbalance where the first and third candle
// ranges do not overlap. FillPercentage is monotonically non-decreasing within
// a detection pass; Filled implies FillPercentage == 100.
type FairValueGap struct {
	ID             string
	Kind           Direction
	ZoneTop        float64
	ZoneBottom     float64
	StartTime      time.Time
	EndTime        time.Time
	Filled         bool
	FillPercentage float64 // 0..100
	SizePercent    float64 // gap size relative to the middle candle close
	IsInversion    bool    // price closed through the gap, reclaiming it
}

// Midpoint returns the center price of the gap.
func (g *FairValueGap) Midpoint() float64 {
	return (g.ZoneTop + g.ZoneBottom) / 2
}

// StructureBreak records a candle that traded through a prior swing level.
// At most one break is kept per distinct (BrokenLevel, Direction) pair; the
// first occurrence wins.
type StructureBreak struct {
	ID                    string
	Kind                  BreakKind
	Direction             Direction
	BrokenLevel           float64
	BreakTime             time.Time
	ConfirmingCandleIndex int
	OriginSwing           SwingPoint // value copy of the broken swing
}

// LiquiditySweep is a wick that pierced a known swing level but closed back on
// the original side, suggesting a stop hunt. Sweeps are point-in-time events
// with no mitigation or expiry.
type LiquiditySweep struct {
	ID              string
	Side            SweepSide
	SweptLevel      float64
	SweepTime       time.Time
	WickSize        float64
	ClosedBackAbove bool
	Valid           bool
}

// PriceBand is an inclusive price range with Top >= Bottom.
type PriceBand struct {
	Top    float64
	Bottom float64
}

// PremiumDiscountZone splits the recent swing range at its equilibrium.
// PremiumBand.Top equals SwingHigh and DiscountBand.Bottom equals SwingLow.
type PremiumDiscountZone struct {
	Equilibrium  float64
	PremiumBand  PriceBand
	DiscountBand PriceBand
	SwingHigh    float64
	SwingLow     float64
}

// KeyLevel is a ranked price level contributed by one of the detectors.
type KeyLevel struct {
	Price  float64
	Weight float64
	Source KeyLevelSource
	Time   time.Time
}

// AnalysisResult is the engine's sole output. It is built fresh on every call,
// holds only value copies of the input, and has no lifecycle beyond the call
// that produced it.
type AnalysisResult struct {
	SwingPoints     []SwingPoint
	OrderBlocks     []OrderBlock
	FairValueGaps   []FairValueGap
	StructureBreaks []StructureBreak
	LiquiditySweeps []LiquiditySweep
	PremiumDiscount *PremiumDiscountZone // nil when no swings are available
	Trend           Trend
	Bias            Bias
	KeyLevels       []KeyLevel // ranked descending by weight, at most 10
}

// ActiveOrderBlocks returns the unmitigated order blocks, most recent first.
func (r *AnalysisResult) ActiveOrderBlocks() []OrderBlock {
	out := make([]OrderBlock, 0, len(r.OrderBlocks))
	for i := len(r.OrderBlocks) - 1; i >= 0; i-- {
		if !r.OrderBlocks[i].Mitigated {
			out = append(out, r.OrderBlocks[i])
		}
	}
	return out
}

// OpenFairValueGaps returns the unfilled gaps, most recent first.
func (r *AnalysisResult) OpenFairValueGaps() []FairValueGap {
	out := make([]FairValueGap, 0, len(r.FairValueGaps))
	for i := len(r.FairValueGaps) - 1; i >= 0; i-- {
		if !r.FairValueGaps[i].Filled {
			out = append(out, r.FairValueGaps[i])
		}
	}
	return out
}
