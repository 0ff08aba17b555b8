package smc

import (
	"context"
	"fmt"
	"sort"

	"smcScanBot/internal/domain"
	"smcScanBot/internal/ports"
)

const (
	// DefaultMinCandles is the shortest series a full analysis runs on; below
	// it the analyzer returns a neutral result.
	DefaultMinCandles = 50

	// trendBreakSample is how many of the most recent structure breaks vote on
	// the trend.
	trendBreakSample = 3
	// keySwingSample is how many of the most recent swing points contribute
	// key levels.
	keySwingSample = 6
	// maxKeyLevels caps the ranked key level list.
	maxKeyLevels = 10
)

// Config holds parameters for the market-structure analyzer.
type Config struct {
	SwingLookback int // symmetric swing confirmation window, e.g. 5
	ATRPeriod     int // volatility lookback, e.g. 14
	MinCandles    int // series length gate, e.g. 50
}

// Analyzer runs all structure detectors over a kline series and packages the
// result. It is a pure function of its input: no state is shared across
// invocations, so a single Analyzer is safe for concurrent use.
type Analyzer struct {
	cfg    Config
	logger ports.Logger
}

// New creates a new Analyzer instance. Zero config fields fall back to the
// package defaults.
func New(cfg Config, logger ports.Logger) (*Analyzer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for analyzer")
	}
	if cfg.SwingLookback == 0 {
		cfg.SwingLookback = DefaultSwingLookback
	}
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = DefaultATRPeriod
	}
	if cfg.MinCandles == 0 {
		cfg.MinCandles = DefaultMinCandles
	}
	if cfg.SwingLookback < 0 || cfg.ATRPeriod < 0 || cfg.MinCandles < 0 {
		return nil, fmt.Errorf("analyzer periods must not be negative")
	}
	return &Analyzer{cfg: cfg, logger: logger}, nil
}

// MinCandles returns the minimum series length for a full analysis.
func (a *Analyzer) MinCandles() int {
	return a.cfg.MinCandles
}

// Analyze derives swing points, order blocks, fair value gaps, structure
// breaks, liquidity sweeps and the premium/discount zone from a time-sorted
// kline series, then infers trend and bias and ranks key levels. Series
// shorter than MinCandles yield a deterministic neutral result, never an
// error. The input is only borrowed: the result holds value copies exclusively.
func (a *Analyzer) Analyze(ctx context.Context, klines []*domain.Kline) *domain.AnalysisResult {
	klines = sanitize(klines)
	if len(klines) < a.cfg.MinCandles {
		a.logger.Debug(ctx, "Not enough candles for structure analysis, returning neutral result",
			map[string]interface{}{"have": len(klines), "need": a.cfg.MinCandles})
		return neutralResult()
	}

	atr := ATR(klines, a.cfg.ATRPeriod)
	swings := DetectSwingPoints(klines, a.cfg.SwingLookback)

	result := &domain.AnalysisResult{
		SwingPoints:     swings,
		OrderBlocks:     DetectOrderBlocks(klines, atr, a.cfg.ATRPeriod),
		FairValueGaps:   DetectFairValueGaps(klines),
		StructureBreaks: DetectStructureBreaks(klines, swings),
		LiquiditySweeps: DetectLiquiditySweeps(klines, swings),
		PremiumDiscount: CalcPremiumDiscount(swings),
	}
	if result.SwingPoints == nil {
		result.SwingPoints = []domain.SwingPoint{}
	}
	if result.OrderBlocks == nil {
		result.OrderBlocks = []domain.OrderBlock{}
	}
	if result.FairValueGaps == nil {
		result.FairValueGaps = []domain.FairValueGap{}
	}
	if result.StructureBreaks == nil {
		result.StructureBreaks = []domain.StructureBreak{}
	}
	if result.LiquiditySweeps == nil {
		result.LiquiditySweeps = []domain.LiquiditySweep{}
	}

	result.Trend = deriveTrend(result.StructureBreaks)
	result.Bias = deriveBias(result, klines[len(klines)-1].Close)
	result.KeyLevels = rankKeyLevels(result)

	a.logger.Debug(ctx, "Structure analysis complete", map[string]interface{}{
		"candles":     len(klines),
		"atr":         atr,
		"swings":      len(result.SwingPoints),
		"orderBlocks": len(result.OrderBlocks),
		"fvgs":        len(result.FairValueGaps),
		"breaks":      len(result.StructureBreaks),
		"sweeps":      len(result.LiquiditySweeps),
		"trend":       result.Trend,
		"bias":        result.Bias,
	})
	return result
}

// sanitize drops klines that violate the OHLC invariants or break the strict
// time ordering. Malformed input is a caller contract violation, but skipping
// bad candles keeps NaNs and shuffled timestamps from poisoning the detectors.
func sanitize(klines []*domain.Kline) []*domain.Kline {
	out := make([]*domain.Kline, 0, len(klines))
	for _, k := range klines {
		if k == nil || !k.IsValid() {
			continue
		}
		if len(out) > 0 && !k.OpenTime.After(out[len(out)-1].OpenTime) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// neutralResult is returned for series below the candle gate: structurally
// complete, with empty feature lists and no directional read.
func neutralResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		SwingPoints:     []domain.SwingPoint{},
		OrderBlocks:     []domain.OrderBlock{},
		FairValueGaps:   []domain.FairValueGap{},
		StructureBreaks: []domain.StructureBreak{},
		LiquiditySweeps: []domain.LiquiditySweep{},
		Trend:           domain.TrendRanging,
		Bias:            domain.BiasNeutral,
		KeyLevels:       []domain.KeyLevel{},
	}
}

// deriveTrend takes a majority vote among the most recent structure breaks.
// A tie, or no breaks at all, reads as ranging.
func deriveTrend(breaks []domain.StructureBreak) domain.Trend {
	start := len(breaks) - trendBreakSample
	if start < 0 {
		start = 0
	}
	bullish, bearish := 0, 0
	for _, b := range breaks[start:] {
		if b.Direction == domain.DirectionBullish {
			bullish++
		} else {
			bearish++
		}
	}
	switch {
	case bullish > bearish:
		return domain.TrendBullish
	case bearish > bullish:
		return domain.TrendBearish
	default:
		return domain.TrendRanging
	}
}

// deriveBias goes long only on a discount in a bullish trend and short only on
// a premium in a bearish trend; everything else is neutral.
func deriveBias(r *domain.AnalysisResult, currentClose float64) domain.Bias {
	if r.PremiumDiscount == nil {
		return domain.BiasNeutral
	}
	eq := r.PremiumDiscount.Equilibrium
	switch {
	case currentClose < eq && r.Trend == domain.TrendBullish:
		return domain.BiasLong
	case currentClose > eq && r.Trend == domain.TrendBearish:
		return domain.BiasShort
	default:
		return domain.BiasNeutral
	}
}

// rankKeyLevels collects midpoints of unmitigated order blocks, midpoints of
// unfilled gaps and the most recent swing points, weights them and keeps the
// top entries.
func rankKeyLevels(r *domain.AnalysisResult) []domain.KeyLevel {
	levels := make([]domain.KeyLevel, 0, len(r.OrderBlocks)+len(r.FairValueGaps)+keySwingSample)

	for _, ob := range r.OrderBlocks {
		if ob.Mitigated {
			continue
		}
		weight := 1.0
		switch ob.Strength {
		case domain.StrengthStrong:
			weight = 3
		case domain.StrengthMedium:
			weight = 2
		}
		levels = append(levels, domain.KeyLevel{
			Price:  ob.Midpoint(),
			Weight: weight,
			Source: domain.LevelFromOrderBlock,
			Time:   ob.StartTime,
		})
	}

	for _, g := range r.FairValueGaps {
		if g.Filled {
			continue
		}
		weight := 1.0
		switch {
		case g.SizePercent > 0.5:
			weight = 3
		case g.SizePercent > 0.2:
			weight = 2
		}
		levels = append(levels, domain.KeyLevel{
			Price:  g.Midpoint(),
			Weight: weight,
			Source: domain.LevelFromFVG,
			Time:   g.StartTime,
		})
	}

	start := len(r.SwingPoints) - keySwingSample
	if start < 0 {
		start = 0
	}
	for _, s := range r.SwingPoints[start:] {
		levels = append(levels, domain.KeyLevel{
			Price:  s.Price,
			Weight: float64(s.Strength) / 2,
			Source: domain.LevelFromSwing,
			Time:   s.Time,
		})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Weight > levels[j].Weight
	})
	if len(levels) > maxKeyLevels {
		levels = levels[:maxKeyLevels]
	}
	return levels
}
