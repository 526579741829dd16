// Package stats provides the numeric helpers shared by the analytics
// engines: descriptive statistics, z-scores, percentiles and generic
// grouping/summation over record slices.
//
// All functions are pure and total: empty inputs yield zero-valued results
// rather than errors, and a zero standard deviation yields a zero z-score.
// A degraded number is preferable to a hard failure in an analytics path.
package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Summary holds descriptive statistics for a series of values
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes descriptive statistics over values. An empty input
// returns the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var median float64
	n := len(sorted)
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return Summary{
		Mean:   mean,
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Sum:    sum,
		StdDev: math.Sqrt(variance),
	}
}

// ZScore returns how many standard deviations value lies from mean. A zero
// standard deviation returns 0: a constant series has no outliers.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

// Percentile returns the p-th percentile of values using linear
// interpolation between order statistics. p is expressed in [0, 100];
// an empty input returns 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	weight := index - float64(lower)

	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// GroupBy partitions items by the key selector. Insertion order within each
// group follows the input order.
func GroupBy[K comparable, T any](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// SumBy sums the decimal amounts selected from items
func SumBy[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(amount(item))
	}
	return total
}

// Decimals converts a decimal series to float64 for statistical use. The
// conversion is lossy and must never feed back into monetary arithmetic.
func Decimals(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
