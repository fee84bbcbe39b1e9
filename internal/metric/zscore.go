// Package metric derives revenue and price z-scores over the reconciled set.
package metric

import (
	"math"

	"github.com/rotisserie/eris"
)

// StdDevMode selects the standard deviation denominator.
type StdDevMode string

const (
	// Sample divides by N-1.
	Sample StdDevMode = "sample"
	// Population divides by N.
	Population StdDevMode = "population"
)

// ParseStdDevMode validates a configured mode.
func ParseStdDevMode(s string) (StdDevMode, error) {
	switch StdDevMode(s) {
	case Sample, Population:
		return StdDevMode(s), nil
	default:
		return "", eris.Errorf("metric: unknown stddev mode %q (valid: sample, population)", s)
	}
}

// Stats describes a price population.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Describe computes count, mean and standard deviation of values. StdDev is
// 0 when fewer than two values exist for Sample, or none for Population.
func Describe(values []float64, mode StdDevMode) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	s.Mean = sum / float64(s.N)

	denom := float64(s.N)
	if mode != Population {
		denom--
	}
	if denom <= 0 {
		return s
	}

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / denom)
	return s
}

// ZScores returns (v - mean) / stddev for every value. A zero standard
// deviation yields all zeros.
func ZScores(values []float64, mode StdDevMode) ([]float64, Stats) {
	s := Describe(values, mode)
	z := make([]float64, len(values))
	if s.StdDev == 0 {
		return z, s
	}
	for i, v := range values {
		z[i] = (v - s.Mean) / s.StdDev
	}
	return z, s
}
