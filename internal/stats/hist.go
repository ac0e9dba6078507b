package stats

import (
	"math"
	"sort"
)

// Histogram counts values into the bins described by edges. Each bin
// is half-open [edges[i], edges[i+1]) except the last, which also
// takes values equal to the upper edge. Values outside the edges are
// dropped.
func Histogram(values []float64, edges []float64) []int {
	bins := len(edges) - 1
	counts := make([]int, bins)
	if bins < 1 {
		return counts
	}
	for _, v := range values {
		if v < edges[0] || v > edges[bins] {
			continue
		}
		i := sort.SearchFloat64s(edges, v)
		if i > 0 && edges[i] != v {
			i--
		}
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return counts
}

// Density converts counts to fractions of the total, rounded to four
// decimals. A zero total yields all zeros.
func Density(counts []int) []float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = Round(float64(c)/float64(total), 4)
	}
	return out
}

// EvenEdges splits [lo, hi] into the given number of equal bins.
func EvenEdges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := 0; i <= bins; i++ {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

// AutoEdges builds equal-width edges spanning the sample. A zero bin
// count picks the count by Sturges' rule.
func AutoEdges(values []float64, bins int) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if bins <= 0 {
		bins = int(math.Ceil(math.Log2(float64(len(values))))) + 1
	}
	if bins < 1 || lo == hi {
		bins = 1
	}
	return EvenEdges(lo, hi, bins)
}

// LogEdges builds log-scale edges sampling the given number of steps
// per decade, from zero up to ten to the decades power. Edges that
// round to the same integer are collapsed.
func LogEdges(perDecade int, decades float64) []float64 {
	seen := map[float64]bool{0: true}
	edges := []float64{0}
	steps := int(math.Round(decades * float64(perDecade)))
	for i := 0; i <= steps; i++ {
		e := math.Round(math.Pow(10, float64(i)/float64(perDecade)))
		if !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}
	return edges
}
