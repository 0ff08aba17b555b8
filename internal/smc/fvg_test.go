package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcScanBot/internal/domain"
)

// gapUpSeries builds ten ordinary candles followed by two candles leaving a
// bullish imbalance above the 101 highs.
func gapUpSeries() []*domain.Kline {
	klines := make([]*domain.Kline, 0, 12)
	for i := 0; i < 10; i++ {
		klines = append(klines, kline(i, 100, 101, 99, 100.5, 1000))
	}
	klines = append(klines,
		kline(10, 103.5, 105, 103, 104.5, 1000),
		kline(11, 104.5, 106, 104, 105.5, 1000),
	)
	return klines
}

func TestDetectFairValueGaps_BullishGap(t *testing.T) {
	gaps := DetectFairValueGaps(gapUpSeries())
	require.Len(t, gaps, 1, "consecutive overlapping imbalances widen into one gap")

	g := gaps[0]
	assert.Equal(t, domain.DirectionBullish, g.Kind)
	assert.Equal(t, 104.0, g.ZoneTop)
	assert.Equal(t, 101.0, g.ZoneBottom)
	assert.False(t, g.Filled)
	assert.Zero(t, g.FillPercentage)
	assert.False(t, g.IsInversion)
	assert.Greater(t, g.SizePercent, fvgMinSizePercent)
	assert.NotEmpty(t, g.ID)
}

func TestDetectFairValueGaps_PartialFill(t *testing.T) {
	klines := append(gapUpSeries(),
		kline(12, 105, 105.2, 102, 104.8, 1000)) // dips into the zone but holds
	gaps := DetectFairValueGaps(klines)
	require.Len(t, gaps, 1)

	g := gaps[0]
	assert.False(t, g.Filled)
	assert.InDelta(t, (104.0-102.0)/(104.0-101.0)*100, g.FillPercentage, 1e-9)
}

func TestDetectFairValueGaps_FillAndInversion(t *testing.T) {
	klines := append(gapUpSeries(),
		kline(12, 105, 105.5, 100.5, 100.6, 1000)) // trades through and closes below
	gaps := DetectFairValueGaps(klines)
	require.Len(t, gaps, 1)

	g := gaps[0]
	assert.True(t, g.Filled)
	assert.Equal(t, 100.0, g.FillPercentage)
	assert.True(t, g.IsInversion, "close below the gap bottom reclaims it as resistance")
}

func TestDetectFairValueGaps_FillWithoutInversion(t *testing.T) {
	klines := append(gapUpSeries(),
		kline(12, 105, 105.5, 100.8, 103, 1000)) // fills the gap, closes back inside
	gaps := DetectFairValueGaps(klines)
	require.Len(t, gaps, 1)

	g := gaps[0]
	assert.True(t, g.Filled)
	assert.Equal(t, 100.0, g.FillPercentage)
	assert.False(t, g.IsInversion)
}

func TestDetectFairValueGaps_BearishGap(t *testing.T) {
	klines := make([]*domain.Kline, 0, 12)
	for i := 0; i < 10; i++ {
		klines = append(klines, kline(i, 100, 101, 99, 100.5, 1000))
	}
	klines = append(klines,
		kline(10, 96.5, 97.5, 96, 96.2, 1000),
		kline(11, 96.2, 96.8, 95, 95.5, 1000),
	)
	gaps := DetectFairValueGaps(klines)
	require.Len(t, gaps, 1)

	g := gaps[0]
	assert.Equal(t, domain.DirectionBearish, g.Kind)
	assert.Equal(t, 99.0, g.ZoneTop)
	assert.Equal(t, 96.8, g.ZoneBottom)
	assert.False(t, g.Filled)
}

func TestDetectFairValueGaps_TinyGapIgnored(t *testing.T) {
	// Gap of 0.05 on a close near 100 is ~0.05%, below the reporting floor.
	klines := make([]*domain.Kline, 0, 12)
	for i := 0; i < 10; i++ {
		klines = append(klines, kline(i, 100, 100.5, 99.5, 100, 1000))
	}
	klines = append(klines,
		kline(10, 100.6, 100.9, 100.55, 100.8, 1000),
		kline(11, 100.8, 101, 100.58, 100.9, 1000),
	)
	gaps := DetectFairValueGaps(klines)
	assert.Empty(t, gaps)
}

func TestDetectFairValueGaps_FillBounds(t *testing.T) {
	klines := append(gapUpSeries(),
		kline(12, 105, 105.2, 101.5, 104.8, 1000), // deep partial
		kline(13, 104.8, 105.5, 103.8, 105, 1000), // shallow retest must not lower it
	)
	gaps := DetectFairValueGaps(klines)
	require.Len(t, gaps, 1)

	g := gaps[0]
	assert.False(t, g.Filled)
	assert.GreaterOrEqual(t, g.FillPercentage, 0.0)
	assert.LessOrEqual(t, g.FillPercentage, 100.0)
	assert.InDelta(t, (104.0-101.5)/3.0*100, g.FillPercentage, 1e-9,
		"fill percentage only ratchets upward")
}
