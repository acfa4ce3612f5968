// Package series converts domain time-series records into the point formats
// rendering surfaces consume. All functions are pure: empty input yields an
// empty layer, never an error, so callers can skip attaching it.
package series

import (
	"chartdeck/internal/domain"
	"chartdeck/internal/render"
)

// Colors for the standard overlay layers.
const (
	ColorBandUpper  = "#2962ff"
	ColorBandMiddle = "#787b86"
	ColorBandLower  = "#2962ff"
	ColorOscillator = "#7e57c2"
)

// CandleLayer converts candle points into a renderable candle layer.
func CandleLayer(candles []domain.CandlePoint) render.Layer {
	bars := make([]render.Bar, len(candles))
	for i, c := range candles {
		bars[i] = render.Bar{
			Time:  c.Time,
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
		}
	}
	return render.CandleLayer(bars)
}

// LineLayer converts a scalar series into a renderable line layer.
func LineLayer(title, color string, points []domain.ScalarPoint) render.Layer {
	out := make([]render.Point, len(points))
	for i, p := range points {
		out[i] = render.Point{Time: p.Time, Value: p.Value}
	}
	return render.LineLayer(title, color, out)
}

// BandLayers splits a band series into its upper, middle, and lower line
// layers, in that order.
func BandLayers(band []domain.BandPoint) (upper, middle, lower render.Layer) {
	up := make([]render.Point, len(band))
	mid := make([]render.Point, len(band))
	low := make([]render.Point, len(band))
	for i, b := range band {
		up[i] = render.Point{Time: b.Time, Value: b.Upper}
		mid[i] = render.Point{Time: b.Time, Value: b.Middle}
		low[i] = render.Point{Time: b.Time, Value: b.Lower}
	}
	upper = render.LineLayer("BB Upper", ColorBandUpper, up)
	middle = render.LineLayer("BB Middle", ColorBandMiddle, mid)
	lower = render.LineLayer("BB Lower", ColorBandLower, low)
	return upper, middle, lower
}
