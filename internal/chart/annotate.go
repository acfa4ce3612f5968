package chart

import (
	"chartdeck/internal/domain"
	"chartdeck/internal/render"
)

// Marker colors by classification.
const (
	ColorBullish = "#26a69a"
	ColorBearish = "#ef5350"
	ColorNeutral = "#9e9e9e"
)

// MapPatterns maps detected pattern events onto marker specs, all anchored
// at anchorTime (the dataset's final candle; the analytics backend does not
// report per-pattern timestamps). The mapping is one marker per event, in
// input order, so later entries draw on top.
func MapPatterns(patterns []domain.PatternEvent, anchorTime int64) []render.Marker {
	markers := make([]render.Marker, 0, len(patterns))
	for _, p := range patterns {
		m := render.Marker{Time: anchorTime, Label: p.Label}
		switch p.Classification {
		case domain.Bullish:
			m.Shape = render.ShapeArrowUp
			m.Position = render.PositionBelow
			m.Color = ColorBullish
		case domain.Bearish:
			m.Shape = render.ShapeArrowDown
			m.Position = render.PositionAbove
			m.Color = ColorBearish
		default:
			m.Shape = render.ShapeCircle
			m.Position = render.PositionAbove
			m.Color = ColorNeutral
		}
		markers = append(markers, m)
	}
	return markers
}
