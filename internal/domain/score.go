package domain

import "strings"

// Sub-score weights. Habitat dominates so that strong live conditions alone
// cannot push a poor location to the top.
const (
	habitatWeight = 0.50
	weatherWeight = 0.30
	timeWeight    = 0.20
)

// CalculateBiteScore combines a candidate's normalized habitat score, its
// species-habitat match tier, a weather reading, and the local hour into a
// single 0–100 score with a status label and human-readable reasoning.
// The function is pure: same inputs, same output.
func CalculateBiteScore(species string, baseScore float64, habitatMultiplier float64, weather WeatherReading, hour int) BiteScore {
	var reasons []string

	habitatScore := habitatSubScore(species, baseScore, habitatMultiplier, &reasons)
	weatherScore := weatherSubScore(species, weather, &reasons)
	timeScore := timeSubScore(species, hour, &reasons)

	final := habitatScore*habitatWeight + weatherScore*weatherWeight + timeScore*timeWeight
	final = clamp(final, 0, 100)

	reasoning := "Standard conditions"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return BiteScore{
		Score:     int(final),
		Status:    statusFor(int(final)),
		Reasoning: reasoning,
	}
}

// statusFor maps a final score to its qualitative label via fixed thresholds.
func statusFor(score int) string {
	switch {
	case score >= 75:
		return StatusGreat
	case score >= 55:
		return StatusGood
	case score >= 35:
		return StatusFair
	default:
		return StatusPoor
	}
}

// habitatSubScore discounts the normalized base score by match tier: full
// credit for species-specific habitat, 70% for generically favorable, 40%
// otherwise. Species-specific data always beats generic signal.
func habitatSubScore(species string, baseScore, multiplier float64, reasons *[]string) float64 {
	switch {
	case multiplier >= 1.5:
		*reasons = append(*reasons, "Prime "+species+" habitat")
		return baseScore
	case multiplier >= 1.0:
		*reasons = append(*reasons, "Favorable habitat")
		return baseScore * 0.7
	default:
		*reasons = append(*reasons, "Unknown habitat")
		return baseScore * 0.4
	}
}

// weatherSubScore starts from a neutral 50 and applies per-species
// temperature, pressure, and wind rules. Species without a rule table keep
// the baseline.
func weatherSubScore(species string, w WeatherReading, reasons *[]string) float64 {
	score := 50.0
	temp, pressure, wind := w.Temperature, w.Pressure, w.WindSpeed

	switch species {
	case "walleye":
		if pressure < 1010 {
			score += 20
			*reasons = append(*reasons, "Falling pressure")
		} else if pressure < 1015 {
			score += 10
		}
		if temp >= 10 && temp <= 18 {
			score += 20
			*reasons = append(*reasons, "Optimal temp")
		} else if temp < 5 || temp > 22 {
			score -= 20
			*reasons = append(*reasons, "Poor temp")
		}
	case "trout":
		if temp >= 8 && temp <= 16 {
			score += 30
			*reasons = append(*reasons, "Ideal cool water")
		} else if temp > 20 {
			score -= 30
			*reasons = append(*reasons, "Too warm")
		}
		if wind < 10 {
			score += 10
		}
	case "bass":
		if temp > 20 {
			score += 30
			*reasons = append(*reasons, "Prime warm water")
		} else if temp > 15 {
			score += 15
		} else if temp < 12 {
			score -= 20
			*reasons = append(*reasons, "Too cold")
		}
	case "pike":
		if temp >= 15 && temp <= 22 {
			score += 25
			*reasons = append(*reasons, "Optimal pike temp")
		}
		if pressure < 1012 {
			score += 10
		}
	case "perch":
		if temp >= 12 && temp <= 20 {
			score += 20
			*reasons = append(*reasons, "Good perch temp")
		}
		if pressure > 1015 {
			score += 15
			*reasons = append(*reasons, "Stable pressure")
		}
	}

	return clamp(score, 0, 100)
}

// timeSubScore applies per-species hour-of-day bands. "Low light" is local
// hour < 7 or > 19.
func timeSubScore(species string, hour int, reasons *[]string) float64 {
	lowLight := hour < 7 || hour > 19

	switch species {
	case "walleye", "pike":
		// Low-light ambush predators.
		switch {
		case lowLight:
			*reasons = append(*reasons, "Prime feeding time")
			return 90
		case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
			return 75
		default:
			return 40
		}
	case "bass":
		switch {
		case lowLight:
			*reasons = append(*reasons, "Dawn/dusk activity")
			return 80
		case hour >= 10 && hour <= 14:
			return 50
		default:
			return 60
		}
	case "trout":
		switch {
		case hour >= 6 && hour <= 10:
			*reasons = append(*reasons, "Morning feed")
			return 85
		case hour >= 16 && hour <= 20:
			return 80
		case hour >= 11 && hour <= 15:
			return 40
		default:
			return 60
		}
	default:
		return 60
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
