// Package stats holds the derived figures shown on dashboards.
package stats

import "math"

// Average returns the arithmetic mean of xs, or 0 for an empty slice.
func Average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Percentage returns round(100*used/limit), or 0 when limit is not positive.
func Percentage(used, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(used) / float64(limit)))
}

// Round1 rounds x to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
