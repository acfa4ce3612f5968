// Package domain defines the core data model shared across the chartdeck
// platform: candle, band, and oscillator series, detected pattern events,
// and the Dataset that bundles one render cycle's worth of data.
package domain

import "fmt"

// CandlePoint is a single OHLCV bar. Time is unix seconds, unique and
// strictly increasing within a series.
type CandlePoint struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume,omitempty"`
}

// ScalarPoint is a single value of a scalar indicator series.
type ScalarPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// BandPoint is a single value of a three-line envelope series
// (lower ≤ middle ≤ upper).
type BandPoint struct {
	Time   int64   `json:"time"`
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Classification is the directional read of a detected pattern.
type Classification string

const (
	Bullish Classification = "bullish"
	Bearish Classification = "bearish"
	Neutral Classification = "neutral"
)

// Strength grades how pronounced a detected pattern is.
type Strength string

const (
	Weak     Strength = "weak"
	Moderate Strength = "moderate"
	Strong   Strength = "strong"
)

// PatternEvent is a pattern detected by the analytics backend. It carries no
// timestamp of its own; markers derived from it are anchored to the dataset's
// final candle.
type PatternEvent struct {
	Label          string         `json:"label"`
	Classification Classification `json:"classification"`
	Strength       Strength       `json:"strength"`
}

// Dataset holds everything one render cycle consumes. A Dataset is produced
// once per fetch resolution and never mutated afterwards; its pointer
// identity is what the lifecycle layer compares to detect stale results.
type Dataset struct {
	Symbol     string         `json:"symbol"`
	Candles    []CandlePoint  `json:"candles"`
	BandOverlay []BandPoint   `json:"bbSeries,omitempty"`
	Oscillator []ScalarPoint  `json:"rsiSeries,omitempty"`
	Patterns   []PatternEvent `json:"patterns,omitempty"`
}

// Empty reports whether the dataset has nothing to render.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Candles) == 0
}

// AnchorTime returns the time of the last candle. Valid only for non-empty
// datasets.
func (d *Dataset) AnchorTime() int64 {
	return d.Candles[len(d.Candles)-1].Time
}

// Validate checks that the overlay series, when present, share the candle
// series' time index exactly. A mismatch means the backend produced an
// inconsistent payload; callers skip rendering that cycle.
func (d *Dataset) Validate() error {
	if d.BandOverlay != nil {
		if len(d.BandOverlay) != len(d.Candles) {
			return fmt.Errorf("band overlay has %d points, candles have %d", len(d.BandOverlay), len(d.Candles))
		}
		for i := range d.BandOverlay {
			if d.BandOverlay[i].Time != d.Candles[i].Time {
				return fmt.Errorf("band overlay time mismatch at index %d", i)
			}
		}
	}
	if d.Oscillator != nil {
		if len(d.Oscillator) != len(d.Candles) {
			return fmt.Errorf("oscillator has %d points, candles have %d", len(d.Oscillator), len(d.Candles))
		}
		for i := range d.Oscillator {
			if d.Oscillator[i].Time != d.Candles[i].Time {
				return fmt.Errorf("oscillator time mismatch at index %d", i)
			}
		}
	}
	return nil
}
