package domain

import (
	"math"
	"time"
)

// Kline represents a single candlestick data point.
type Kline struct {
	OpenTime  time.Time // Start time of the interval
	CloseTime time.Time // End time of the interval
	Symbol    string    // Trading symbol
	Interval  string    // Kline interval (e.g., "1m", "1h")
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Trading volume
	IsFinal   bool      // Whether this kline is the final one for the interval
}

// IsBullish reports whether the kline closed above its open.
func (k *Kline) IsBullish() bool {
	return k.Close > k.Open
}

// IsBearish reports whether the kline closed below its open.
func (k *Kline) IsBearish() bool {
	return k.Close < k.Open
}

// Body returns the absolute size of the kline body.
func (k *Kline) Body() float64 {
	return math.Abs(k.Close - k.Open)
}

// BodyTop returns the higher of open and close.
func (k *Kline) BodyTop() float64 {
	return math.Max(k.Open, k.Close)
}

// BodyBottom returns the lower of open and close.
func (k *Kline) BodyBottom() float64 {
	return math.Min(k.Open, k.Close)
}

// UpperWick returns the distance between the high and the body top.
func (k *Kline) UpperWick() float64 {
	return k.High - k.BodyTop()
}

// LowerWick returns the distance between the body bottom and the low.
func (k *Kline) LowerWick() float64 {
	return k.BodyBottom() - k.Low
}

// IsValid reports whether the kline satisfies the OHLC invariants and carries
// no NaN or infinite prices. Klines failing this check are skipped by the
// analyzer rather than propagated through later computations.
func (k *Kline) IsValid() bool {
	for _, v := range []float64{k.Open, k.High, k.Low, k.Close, k.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if k.Volume < 0 {
		return false
	}
	return k.Low <= k.BodyBottom() && k.High >= k.BodyTop()
}
