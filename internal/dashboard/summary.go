// Package dashboard computes the per-symbol display summaries the landing
// and trade-ideas pages show next to the chart. Pure aggregation over
// already-fetched datasets; nothing here touches the network.
package dashboard

import (
	"math"

	"chartdeck/internal/domain"
)

// SymbolSummary holds the headline numbers for one symbol.
type SymbolSummary struct {
	Symbol    string  `json:"symbol"`
	Last      float64 `json:"last"`
	Change    float64 `json:"change"`    // vs previous close
	ChangePct float64 `json:"changePct"` // percent, e.g. 1.25
	High      float64 `json:"high"`      // over the whole series
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"` // summed
	RSI       float64 `json:"rsi,omitempty"`
	Signal    string  `json:"signal,omitempty"` // overbought / oversold
	Patterns  []string `json:"patterns,omitempty"`
}

// Summarize aggregates a dataset into its display summary. Returns the zero
// summary for an empty dataset.
func Summarize(ds *domain.Dataset) SymbolSummary {
	if ds.Empty() {
		return SymbolSummary{}
	}

	s := SymbolSummary{
		Symbol: ds.Symbol,
		Low:    math.MaxFloat64,
	}

	for _, c := range ds.Candles {
		if c.High > s.High {
			s.High = c.High
		}
		if c.Low < s.Low {
			s.Low = c.Low
		}
		s.Volume += c.Volume
	}

	last := ds.Candles[len(ds.Candles)-1]
	s.Last = last.Close
	if n := len(ds.Candles); n > 1 {
		prev := ds.Candles[n-2].Close
		s.Change = last.Close - prev
		if prev != 0 {
			s.ChangePct = s.Change / prev * 100
		}
	}

	if n := len(ds.Oscillator); n > 0 {
		s.RSI = ds.Oscillator[n-1].Value
		switch {
		case s.RSI >= 70:
			s.Signal = "overbought"
		case s.RSI <= 30:
			s.Signal = "oversold"
		}
	}

	for _, p := range ds.Patterns {
		s.Patterns = append(s.Patterns, p.Label)
	}

	return s
}
