package analytics

import (
	"fmt"
	"math"
	"time"
)

// formatAvgDuration averages a list of per-visit durations and renders it as
// "Xm Ys" with both components floored. An empty list renders as the literal
// "0s", not "0m 0s".
func formatAvgDuration(seconds []float64) string {
	if len(seconds) == 0 {
		return "0s"
	}
	var total float64
	for _, s := range seconds {
		total += s
	}
	avg := total / float64(len(seconds))
	minutes := int(avg) / 60
	remainder := int(avg) % 60
	return fmt.Sprintf("%dm %ds", minutes, remainder)
}

// relativeLabel renders how long ago t happened relative to now. Elapsed
// minutes are rounded to the nearest whole minute; hours and days floor.
// Timestamps at or ahead of now label as "Just now".
func relativeLabel(now, t time.Time) string {
	minutes := int(math.Round(now.Sub(t).Minutes()))
	switch {
	case minutes <= 0:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d mins ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d hrs ago", minutes/60)
	default:
		return fmt.Sprintf("%d days ago", minutes/1440)
	}
}

// roundOneDecimal rounds to one decimal place, the precision every dashboard
// percentage reports.
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// percentage computes part/whole as a one-decimal percentage, 0 when the
// denominator is zero. The zero-denominator clamp is a deliberate choice:
// JSON has no NaN, so a device class with no page views reports a 0 bounce
// rate rather than an unmarshalable value.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return roundOneDecimal(float64(part) / float64(whole) * 100)
}
