package chartimg

import (
	"errors"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"chartdeck/internal/render"
)

var (
	colorUp   = drawing.Color{R: 0x26, G: 0xa6, B: 0x9a, A: 255}
	colorDown = drawing.Color{R: 0xef, G: 0x53, B: 0x50, A: 255}
)

// candleSeries draws OHLC candlesticks with the renderer primitives.
// It implements chart.ValuesProvider by exposing each bar's low and high so
// the chart's y-range spans the full wick extent.
type candleSeries struct {
	bars []render.Bar
}

func (cs *candleSeries) GetName() string          { return "Price" }
func (cs *candleSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (cs *candleSeries) GetStyle() chart.Style     { return chart.Style{} }

func (cs *candleSeries) Validate() error {
	if len(cs.bars) == 0 {
		return errors.New("chartimg: candle series has no bars")
	}
	return nil
}

// Len and GetValues feed the axis range computation: two values per bar,
// (time, low) then (time, high).
func (cs *candleSeries) Len() int { return 2 * len(cs.bars) }

func (cs *candleSeries) GetValues(index int) (float64, float64) {
	b := cs.bars[index/2]
	if index%2 == 0 {
		return float64(b.Time), b.Low
	}
	return float64(b.Time), b.High
}

func (cs *candleSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	if len(cs.bars) == 0 {
		return
	}

	// Body half-width from the horizontal room per bar, floored at 1px.
	half := canvasBox.Width() / (len(cs.bars) * 3)
	if half < 1 {
		half = 1
	}

	for _, b := range cs.bars {
		x := canvasBox.Left + xrange.Translate(float64(b.Time))
		if x < canvasBox.Left || x > canvasBox.Right {
			continue
		}

		col := colorUp
		if b.Close < b.Open {
			col = colorDown
		}

		yHigh := canvasBox.Bottom - yrange.Translate(b.High)
		yLow := canvasBox.Bottom - yrange.Translate(b.Low)
		yOpen := canvasBox.Bottom - yrange.Translate(b.Open)
		yClose := canvasBox.Bottom - yrange.Translate(b.Close)

		// Wick.
		r.SetStrokeColor(col)
		r.SetStrokeWidth(1.0)
		r.MoveTo(x, yHigh)
		r.LineTo(x, yLow)
		r.Stroke()

		// Body.
		top, bottom := yOpen, yClose
		if top > bottom {
			top, bottom = bottom, top
		}
		if top == bottom {
			// Doji: keep a visible 1px body.
			bottom++
		}

		r.SetFillColor(col)
		r.SetStrokeColor(col)
		r.MoveTo(x-half, top)
		r.LineTo(x+half, top)
		r.LineTo(x+half, bottom)
		r.LineTo(x-half, bottom)
		r.Close()
		r.FillStroke()
	}
}

// parseColor converts a "#rrggbb" string into a drawing color, falling back
// to def on malformed input.
func parseColor(s string, def drawing.Color) drawing.Color {
	if len(s) != 7 || s[0] != '#' {
		return def
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return def
	}
	return drawing.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
