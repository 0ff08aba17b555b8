package smc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcScanBot/internal/domain"
)

func newTestAnalyzer(t *testing.T, cfg Config) *Analyzer {
	t.Helper()
	a, err := New(cfg, noopLogger{})
	require.NoError(t, err)
	return a
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err, "nil logger must be rejected")

	_, err = New(Config{ATRPeriod: -1}, noopLogger{})
	assert.Error(t, err, "negative periods must be rejected")

	a, err := New(Config{}, noopLogger{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMinCandles, a.MinCandles(), "zero config falls back to defaults")
}

func TestAnalyze_ShortSeriesIsNeutral(t *testing.T) {
	a := newTestAnalyzer(t, Config{})
	result := a.Analyze(context.Background(), waveSeries(30))

	require.NotNil(t, result)
	assert.Equal(t, domain.TrendRanging, result.Trend)
	assert.Equal(t, domain.BiasNeutral, result.Bias)
	assert.Empty(t, result.SwingPoints)
	assert.Empty(t, result.OrderBlocks)
	assert.Empty(t, result.FairValueGaps)
	assert.Empty(t, result.StructureBreaks)
	assert.Empty(t, result.LiquiditySweeps)
	assert.Empty(t, result.KeyLevels)
	assert.Nil(t, result.PremiumDiscount)
}

func TestAnalyze_FlatSeries(t *testing.T) {
	a := newTestAnalyzer(t, Config{})
	result := a.Analyze(context.Background(), flatSeries(60, 100, 101, 99, 100))

	require.NotNil(t, result)
	assert.Empty(t, result.SwingPoints, "tied extremes never confirm a swing")
	assert.Empty(t, result.OrderBlocks)
	assert.Empty(t, result.FairValueGaps)
	assert.Empty(t, result.StructureBreaks)
	assert.Empty(t, result.LiquiditySweeps)
	assert.Nil(t, result.PremiumDiscount)
	assert.Equal(t, domain.TrendRanging, result.Trend)
	assert.Equal(t, domain.BiasNeutral, result.Bias)
	assert.Empty(t, result.KeyLevels)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer(t, Config{})
	klines := waveSeries(120)

	first := a.Analyze(context.Background(), klines)
	second := a.Analyze(context.Background(), klines)

	require.Equal(t, first, second, "same input must produce an identical result")
}

func TestAnalyze_SkipsMalformedCandles(t *testing.T) {
	a := newTestAnalyzer(t, Config{})
	clean := waveSeries(60)

	dirty := make([]*domain.Kline, 0, len(clean)+2)
	dirty = append(dirty, clean...)
	nan := kline(60, 100, math.NaN(), 99, 100, 1000)
	dirty = append(dirty, nan)
	stale := *clean[len(clean)-1] // duplicate open time, must be dropped
	dirty = append(dirty, &stale)

	assert.Equal(t, a.Analyze(context.Background(), clean), a.Analyze(context.Background(), dirty))
}

func TestAnalyze_KeyLevels(t *testing.T) {
	a := newTestAnalyzer(t, Config{})
	result := a.Analyze(context.Background(), waveSeries(200))

	require.NotEmpty(t, result.KeyLevels)
	assert.LessOrEqual(t, len(result.KeyLevels), 10)
	for i := 1; i < len(result.KeyLevels); i++ {
		assert.GreaterOrEqual(t, result.KeyLevels[i-1].Weight, result.KeyLevels[i].Weight,
			"key levels must be sorted by descending weight")
	}
}

func TestAnalyze_WaveSeriesFindsStructure(t *testing.T) {
	a := newTestAnalyzer(t, Config{})
	result := a.Analyze(context.Background(), waveSeries(200))

	assert.NotEmpty(t, result.SwingPoints, "an oscillating series has swings on both sides")
	require.NotNil(t, result.PremiumDiscount)
	pd := result.PremiumDiscount
	assert.Greater(t, pd.SwingHigh, pd.Equilibrium)
	assert.Greater(t, pd.Equilibrium, pd.SwingLow)
	assert.Equal(t, pd.Equilibrium, pd.PremiumBand.Bottom)
	assert.Equal(t, pd.Equilibrium, pd.DiscountBand.Top)
}
