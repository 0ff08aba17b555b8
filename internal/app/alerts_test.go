package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcScanBot/internal/domain"
)

func alertResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Trend: domain.TrendBullish,
		Bias:  domain.BiasNeutral,
	}
}

func firedRules(t *testing.T, symbol string, prev, curr *domain.AnalysisResult, price float64) []string {
	t.Helper()
	events := evaluateAlerts(symbol, prev, curr, price)
	rules := make([]string, 0, len(events))
	for _, e := range events {
		assert.Equal(t, symbol, e.Symbol)
		assert.Equal(t, price, e.Price)
		rules = append(rules, e.Rule)
	}
	return rules
}

func TestEvaluateAlerts_PriceInsideOrderBlock(t *testing.T) {
	curr := alertResult()
	curr.OrderBlocks = []domain.OrderBlock{
		{
			ID:         "ob-1",
			Kind:       domain.DirectionBullish,
			ZoneTop:    101,
			ZoneBottom: 99,
			Strength:   domain.StrengthStrong,
		},
		{
			ID:         "ob-2",
			Kind:       domain.DirectionBullish,
			ZoneTop:    95,
			ZoneBottom: 94,
			Mitigated:  true,
		},
	}

	rules := firedRules(t, "ETHUSDT", nil, curr, 100)
	assert.Equal(t, []string{RulePriceInOrderBlock}, rules)

	rules = firedRules(t, "ETHUSDT", nil, curr, 94.5)
	assert.Empty(t, rules, "mitigated blocks never alert")
}

func TestEvaluateAlerts_PriceInsideOpenFVG(t *testing.T) {
	curr := alertResult()
	curr.FairValueGaps = []domain.FairValueGap{
		{ID: "fvg-1", Kind: domain.DirectionBullish, ZoneTop: 104, ZoneBottom: 101},
		{ID: "fvg-2", Kind: domain.DirectionBearish, ZoneTop: 98, ZoneBottom: 96, Filled: true},
	}

	rules := firedRules(t, "ETHUSDT", nil, curr, 102)
	assert.Equal(t, []string{RulePriceInFVG}, rules)

	rules = firedRules(t, "ETHUSDT", nil, curr, 97)
	assert.Empty(t, rules, "filled gaps never alert")
}

func TestEvaluateAlerts_FreshChangeOfCharacter(t *testing.T) {
	breakTime := time.Date(2025, 6, 1, 0, 30, 0, 0, time.UTC)
	choch := domain.StructureBreak{
		ID:          "brk-2",
		Kind:        domain.BreakCHoCH,
		Direction:   domain.DirectionBearish,
		BrokenLevel: 95,
		BreakTime:   breakTime,
	}

	prev := alertResult()
	prev.StructureBreaks = []domain.StructureBreak{{ID: "brk-1", Kind: domain.BreakBOS}}
	curr := alertResult()
	curr.StructureBreaks = append(prev.StructureBreaks, choch)

	rules := firedRules(t, "ETHUSDT", prev, curr, 100)
	require.Equal(t, []string{RuleTrendShift}, rules)

	// Same break on the next candle is no longer fresh
	rules = firedRules(t, "ETHUSDT", curr, curr, 100)
	assert.Empty(t, rules)

	// A fresh BOS does not count as a trend shift
	bos := choch
	bos.ID = "brk-3"
	bos.Kind = domain.BreakBOS
	curr2 := alertResult()
	curr2.StructureBreaks = append(curr.StructureBreaks, bos)
	rules = firedRules(t, "ETHUSDT", curr, curr2, 100)
	assert.Empty(t, rules)
}

func TestEvaluateAlerts_FreshLiquiditySweep(t *testing.T) {
	sweep := domain.LiquiditySweep{
		ID:         "swp-1",
		Side:       domain.SweepBuySide,
		SweptLevel: 110,
		WickSize:   2,
		Valid:      true,
	}

	prev := alertResult()
	curr := alertResult()
	curr.LiquiditySweeps = []domain.LiquiditySweep{sweep}

	rules := firedRules(t, "ETHUSDT", prev, curr, 108)
	assert.Equal(t, []string{RuleLiquiditySweep}, rules)

	rules = firedRules(t, "ETHUSDT", curr, curr, 108)
	assert.Empty(t, rules)
}

func TestEvaluateAlerts_FirstAnalysisSkipsHistoryAlerts(t *testing.T) {
	curr := alertResult()
	curr.StructureBreaks = []domain.StructureBreak{{ID: "brk-1", Kind: domain.BreakCHoCH}}
	curr.LiquiditySweeps = []domain.LiquiditySweep{{ID: "swp-1", Side: domain.SweepSellSide}}

	rules := firedRules(t, "ETHUSDT", nil, curr, 100)
	assert.Empty(t, rules, "historical breaks and sweeps must not alert on startup")
}
