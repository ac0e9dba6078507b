// Package stats holds the numeric primitives behind the derived
// stores: descriptive summaries, a two-component projection, counted
// and normalized histograms, and calendar bucketing.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the eight-number description of one metric column.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes the summary of values, rounded to three decimals.
// The second return is false when values is empty; a single value
// yields a zero Std.
func Describe(values []float64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	std := 0.0
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	return Summary{
		Count:  len(sorted),
		Mean:   Round(stat.Mean(sorted, nil), 3),
		Std:    Round(std, 3),
		Min:    Round(sorted[0], 3),
		Q1:     Round(quantile(sorted, 0.25), 3),
		Median: Round(quantile(sorted, 0.5), 3),
		Q3:     Round(quantile(sorted, 0.75), 3),
		Max:    Round(sorted[len(sorted)-1], 3),
	}, true
}

// Values returns the summary's stats in storage order: count, mean,
// std, min, q1, median, q3, max.
func (s Summary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max}
}

// quantile interpolates linearly on the sorted sample: the p-quantile
// sits at fractional index p*(n-1).
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
