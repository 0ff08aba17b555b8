package domain

// Trend represents the prevailing market direction derived from structure breaks.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendRanging Trend = "RANGING"
)

// Bias represents the directional trade bias derived from trend and equilibrium.
type Bias string

const (
	BiasLong    Bias = "LONG"
	BiasShort   Bias = "SHORT"
	BiasNeutral Bias = "NEUTRAL"
)

// Direction represents the direction of a detected zone or structural event.
type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
)

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "HIGH"
	SwingLow  SwingKind = "LOW"
)

// BreakKind distinguishes continuation breaks from reversals.
type BreakKind string

const (
	BreakBOS   BreakKind = "BOS"   // Break of Structure: continues the prevailing trend
	BreakCHoCH BreakKind = "CHOCH" // Change of Character: reverses the prevailing trend
)

// SweepSide indicates which liquidity pool a sweep took out.
type SweepSide string

const (
	SweepBuySide  SweepSide = "BUY_SIDE"  // stops above a swing high
	SweepSellSide SweepSide = "SELL_SIDE" // stops below a swing low
)

// OrderBlockStrength classifies an order block by volume and displacement.
type OrderBlockStrength string

const (
	StrengthStrong OrderBlockStrength = "STRONG"
	StrengthMedium OrderBlockStrength = "MEDIUM"
	StrengthWeak   OrderBlockStrength = "WEAK"
)

// KeyLevelSource identifies which detector contributed a key level.
type KeyLevelSource string

const (
	LevelFromOrderBlock KeyLevelSource = "ORDER_BLOCK"
	LevelFromFVG        KeyLevelSource = "FVG"
	LevelFromSwing      KeyLevelSource = "SWING"
)
