package dashboard

import (
	"fmt"
	"math"
	"strings"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatVolume formats a share volume with B/M/K suffixes.
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatPrice formats a price value as X.XX, or "-" for zero/max.
func FormatPrice(p float64) string {
	if p == math.MaxFloat64 || p == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", p)
}

// FormatChangePct formats a signed percent move as "+X.X%" / "-X.X%",
// or "" if zero. Drops the decimal for moves >= 100% to keep width compact.
func FormatChangePct(pct float64) string {
	if pct == 0 {
		return ""
	}
	abs := math.Abs(pct)
	sign := "+"
	if pct < 0 {
		sign = "-"
	}
	if abs >= 100 {
		return fmt.Sprintf("%s%.0f%%", sign, abs)
	}
	return fmt.Sprintf("%s%.1f%%", sign, abs)
}

// Display returns the summary's headline numbers formatted for the
// dashboard's symbol table.
func (s SymbolSummary) Display() map[string]string {
	return map[string]string{
		"last":      FormatPrice(s.Last),
		"changePct": FormatChangePct(s.ChangePct),
		"high":      FormatPrice(s.High),
		"low":       FormatPrice(s.Low),
		"volume":    FormatVolume(s.Volume),
	}
}
