package core

import "math"

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CountPercent is the share of part in total as a percentage rounded to 1
// decimal; 0 when total is 0, never a divide-by-zero fault.
func CountPercent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// ScorePercent is the raw obtained/max percentage; 0 when max is not positive.
// Shared by grades and task submissions.
func ScorePercent(obtained, max float64) float64 {
	if max > 0 {
		return obtained / max * 100
	}
	return 0.0
}
