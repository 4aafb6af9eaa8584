package domain

import "math"

// NormalizeScore maps a raw potential value onto [0,100] using a log
// transform anchored to the dataset range. Zero and negative values (the
// "unscored" sentinel) always normalize to 0; a degenerate range returns the
// midpoint 50 to avoid dividing by zero.
func NormalizeScore(raw float64, r ScoreRange) float64 {
	if raw <= 0 {
		return 0
	}
	logMin := math.Log(r.Min)
	logMax := math.Log(r.Max)
	if logMax == logMin {
		return 50
	}
	return 100 * (math.Log(raw) - logMin) / (logMax - logMin)
}
