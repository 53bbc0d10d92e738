package usecase

import (
	"math"

	"github.com/montanaflynn/stats"
)

// percent returns round(part/total*100), or 0 for an empty population.
func percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// roundedMean returns the mean of samples rounded to the nearest integer, nil when there are none.
func roundedMean(samples []float64) *int {
	if len(samples) == 0 {
		return nil
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return nil
	}
	v := int(math.Round(mean))
	return &v
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
