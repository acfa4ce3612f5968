package render

// LayerKind identifies what a layer draws on a surface.
type LayerKind string

const (
	// LayerCandles draws OHLC candlesticks from Bars.
	LayerCandles LayerKind = "candles"
	// LayerLine draws a polyline through Points.
	LayerLine LayerKind = "line"
	// LayerRefLine draws a static horizontal line at Level.
	LayerRefLine LayerKind = "refline"
	// LayerMarkers draws discrete annotation glyphs from Markers.
	LayerMarkers LayerKind = "markers"
)

// Point is a single (time, value) pair consumed by line layers.
type Point struct {
	Time  int64
	Value float64
}

// Bar is a single OHLC entry consumed by candle layers.
type Bar struct {
	Time                   int64
	Open, High, Low, Close float64
}

// MarkerShape selects the glyph drawn for a marker.
type MarkerShape string

const (
	ShapeArrowUp   MarkerShape = "arrowUp"
	ShapeArrowDown MarkerShape = "arrowDown"
	ShapeCircle    MarkerShape = "circle"
)

// MarkerPosition selects which side of the anchored bar a marker sits on.
type MarkerPosition string

const (
	PositionAbove MarkerPosition = "aboveBar"
	PositionBelow MarkerPosition = "belowBar"
)

// Marker is one annotation glyph anchored to a time point.
type Marker struct {
	Time     int64
	Shape    MarkerShape
	Position MarkerPosition
	Color    string
	Label    string
}

// Layer is one renderable element of a pane. Exactly one of Bars, Points,
// Level, or Markers is meaningful, selected by Kind.
type Layer struct {
	Kind    LayerKind
	Title   string
	Color   string
	Bars    []Bar
	Points  []Point
	Level   float64
	Markers []Marker
}

// CandleLayer builds a candle layer over bars.
func CandleLayer(bars []Bar) Layer {
	return Layer{Kind: LayerCandles, Bars: bars}
}

// LineLayer builds a line layer with the given title and color.
func LineLayer(title, color string, points []Point) Layer {
	return Layer{Kind: LayerLine, Title: title, Color: color, Points: points}
}

// RefLineLayer builds a static horizontal reference line at level.
func RefLineLayer(title, color string, level float64) Layer {
	return Layer{Kind: LayerRefLine, Title: title, Color: color, Level: level}
}

// MarkerLayer builds a marker layer over markers.
func MarkerLayer(markers []Marker) Layer {
	return Layer{Kind: LayerMarkers, Markers: markers}
}
