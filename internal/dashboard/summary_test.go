package dashboard

import (
	"math"
	"testing"

	"chartdeck/internal/domain"
)

func TestSummarize(t *testing.T) {
	ds := &domain.Dataset{
		Symbol: "AAPL",
		Candles: []domain.CandlePoint{
			{Time: 100, Open: 10, High: 12, Low: 9, Close: 10, Volume: 100},
			{Time: 200, Open: 10, High: 15, Low: 8, Close: 12, Volume: 200},
			{Time: 300, Open: 12, High: 13, Low: 11, Close: 11.4, Volume: 50},
		},
		Oscillator: []domain.ScalarPoint{
			{Time: 100, Value: 50}, {Time: 200, Value: 65}, {Time: 300, Value: 72},
		},
		Patterns: []domain.PatternEvent{
			{Label: "Bull Flag", Classification: domain.Bullish, Strength: domain.Strong},
		},
	}

	s := Summarize(ds)

	if s.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", s.Symbol)
	}
	if s.Last != 11.4 {
		t.Errorf("Last = %v, want 11.4", s.Last)
	}
	if math.Abs(s.Change-(-0.6)) > 1e-9 {
		t.Errorf("Change = %v, want -0.6", s.Change)
	}
	if math.Abs(s.ChangePct-(-5)) > 1e-9 {
		t.Errorf("ChangePct = %v, want -5", s.ChangePct)
	}
	if s.High != 15 || s.Low != 8 {
		t.Errorf("High/Low = %v/%v, want 15/8", s.High, s.Low)
	}
	if s.Volume != 350 {
		t.Errorf("Volume = %v, want 350", s.Volume)
	}
	if s.RSI != 72 || s.Signal != "overbought" {
		t.Errorf("RSI/Signal = %v/%q, want 72/overbought", s.RSI, s.Signal)
	}
	if len(s.Patterns) != 1 || s.Patterns[0] != "Bull Flag" {
		t.Errorf("Patterns = %v, want [Bull Flag]", s.Patterns)
	}
}

func TestSummarizeSingleCandle(t *testing.T) {
	ds := &domain.Dataset{
		Symbol:  "TSLA",
		Candles: []domain.CandlePoint{{Time: 100, Open: 10, High: 12, Low: 9, Close: 11}},
	}

	s := Summarize(ds)
	if s.Change != 0 || s.ChangePct != 0 {
		t.Errorf("single candle should have zero change, got %v/%v", s.Change, s.ChangePct)
	}
	if s.Signal != "" {
		t.Errorf("Signal = %q without oscillator, want empty", s.Signal)
	}
}

func TestSummarizeOversold(t *testing.T) {
	ds := &domain.Dataset{
		Symbol:     "XYZ",
		Candles:    []domain.CandlePoint{{Time: 100, Open: 1, High: 2, Low: 0.5, Close: 1}},
		Oscillator: []domain.ScalarPoint{{Time: 100, Value: 25}},
	}
	if s := Summarize(ds); s.Signal != "oversold" {
		t.Errorf("Signal = %q, want oversold", s.Signal)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(&domain.Dataset{Symbol: "AAPL"}); s.Symbol != "" {
		t.Errorf("empty dataset should yield zero summary, got %+v", s)
	}
}
