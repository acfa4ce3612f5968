package chartimg

import (
	"bytes"
	"errors"
	"testing"

	"chartdeck/internal/render"
)

func testBars(n int) []render.Bar {
	bars := make([]render.Bar, n)
	for i := range bars {
		base := 100.0 + float64(i)
		bars[i] = render.Bar{
			Time:  int64((i + 1) * 86400),
			Open:  base,
			High:  base + 2,
			Low:   base - 2,
			Close: base + 1,
		}
	}
	return bars
}

func TestCreateSurface(t *testing.T) {
	e := New()

	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 400, Kind: render.PanePrice})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}
	if s.Width() != 800 {
		t.Errorf("surface width = %d, want 800", s.Width())
	}
}

func TestCreateSurfaceZeroWidth(t *testing.T) {
	e := New()
	if _, err := e.CreateSurface(render.SurfaceOptions{Width: 0, Height: 400, Kind: render.PanePrice}); !errors.Is(err, render.ErrZeroWidth) {
		t.Fatalf("CreateSurface returned %v, want ErrZeroWidth", err)
	}
}

func TestSurfacePNG(t *testing.T) {
	e := New()
	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 400, Kind: render.PanePrice})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}

	s.SetLayers([]render.Layer{
		render.CandleLayer(testBars(30)),
		render.LineLayer("BB Upper", "#2962ff", []render.Point{
			{Time: 86400, Value: 104}, {Time: 30 * 86400, Value: 134},
		}),
		render.MarkerLayer([]render.Marker{
			{Time: 30 * 86400, Shape: render.ShapeArrowUp, Position: render.PositionBelow, Label: "Bull Flag"},
		}),
	})
	s.FitContent()

	png, err := s.(*Surface).PNG()
	if err != nil {
		t.Fatalf("PNG returned error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("PNG output missing PNG signature")
	}
}

func TestSurfacePNGOscillator(t *testing.T) {
	e := New()
	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 160, Kind: render.PaneOscillator})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}

	points := make([]render.Point, 30)
	for i := range points {
		points[i] = render.Point{Time: int64((i + 1) * 86400), Value: 30 + float64(i)}
	}
	s.SetLayers([]render.Layer{
		render.LineLayer("RSI", "#7e57c2", points),
		render.RefLineLayer("Overbought", "#787b86", 70),
		render.RefLineLayer("Oversold", "#787b86", 30),
	})

	if _, err := s.(*Surface).PNG(); err != nil {
		t.Fatalf("PNG returned error: %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	e := New()
	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 400, Kind: render.PanePrice})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}
	s.SetLayers([]render.Layer{render.CandleLayer(testBars(10))})

	png, err := e.Snapshot(render.PanePrice)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(png) == 0 {
		t.Error("Snapshot returned empty bytes")
	}

	if _, err := e.Snapshot(render.PaneOscillator); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Snapshot of unmounted pane returned %v, want ErrNoSurface", err)
	}
}

func TestSnapshotAfterDestroy(t *testing.T) {
	e := New()
	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 400, Kind: render.PanePrice})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}
	s.Destroy()
	s.Destroy() // idempotent

	if _, err := e.Snapshot(render.PanePrice); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Snapshot after destroy returned %v, want ErrNoSurface", err)
	}
}

func TestSurfaceRangeSubscription(t *testing.T) {
	e := New()
	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 400, Kind: render.PanePrice})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}

	var got []render.TimeRange
	cancel := s.SubscribeVisibleRange(func(r render.TimeRange) { got = append(got, r) })

	s.SetVisibleRange(render.TimeRange{From: 1, To: 2})
	if len(got) != 1 || got[0] != (render.TimeRange{From: 1, To: 2}) {
		t.Fatalf("subscriber saw %v, want [{1 2}]", got)
	}

	cancel()
	s.SetVisibleRange(render.TimeRange{From: 3, To: 4})
	if len(got) != 1 {
		t.Errorf("subscriber saw %v after cancel, want no new ranges", got)
	}
}

func TestSurfaceResizePreservesRange(t *testing.T) {
	e := New()
	s, err := e.CreateSurface(render.SurfaceOptions{Width: 800, Height: 400, Kind: render.PanePrice})
	if err != nil {
		t.Fatalf("CreateSurface returned error: %v", err)
	}

	s.SetLayers([]render.Layer{render.CandleLayer(testBars(10))})
	s.FitContent()
	before, ok := s.VisibleRange()
	if !ok {
		t.Fatal("FitContent should establish a visible range")
	}

	s.Resize(1200)

	if s.Width() != 1200 {
		t.Errorf("width = %d after resize, want 1200", s.Width())
	}
	after, _ := s.VisibleRange()
	if after != before {
		t.Errorf("visible range changed across resize: %+v -> %+v", before, after)
	}
}

func TestParseColor(t *testing.T) {
	c := parseColor("#26a69a", colorDown)
	if c.R != 0x26 || c.G != 0xa6 || c.B != 0x9a {
		t.Errorf("parseColor returned %+v, want 26/a6/9a", c)
	}
	if parseColor("bogus", colorDown) != colorDown {
		t.Error("malformed color should fall back to default")
	}
}
