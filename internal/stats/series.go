package stats

import "time"

// Grouping selects the calendar resolution of a date series.
type Grouping int

const (
	Monthly Grouping = iota
	Yearly
)

// Buckets returns the period-end dates of every whole period between
// start and end: for Monthly over 2020-01-01..2020-04-01 that is the
// last day of January, February and March.
func Buckets(start, end time.Time, g Grouping) []time.Time {
	var buckets []time.Time
	for cur := periodEnd(start, g); !cur.After(end); cur = periodEnd(cur.AddDate(0, 0, 1), g) {
		buckets = append(buckets, cur)
	}
	return buckets
}

func periodEnd(t time.Time, g Grouping) time.Time {
	switch g {
	case Yearly:
		return time.Date(t.Year(), 12, 31, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
			AddDate(0, 1, -1)
	}
}

// Labels renders one label per bucket, 2006-01 for Monthly and 2006
// for Yearly.
func Labels(buckets []time.Time, g Grouping) []string {
	layout := "2006-01"
	if g == Yearly {
		layout = "2006"
	}
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Format(layout)
	}
	return labels
}

// CountSeries counts the dates falling in each bucket's period. Empty
// buckets count zero; dates past the last bucket are dropped.
func CountSeries(dates []time.Time, buckets []time.Time, g Grouping) []int {
	counts := make([]int, len(buckets))
	for _, d := range dates {
		if i, ok := bucketIndex(d, buckets, g); ok {
			counts[i]++
		}
	}
	return counts
}

// RatioSeries computes, per bucket, the fraction of that bucket's
// dates matching the predicate, rounded to two decimals. An empty
// bucket yields zero.
func RatioSeries(dates []time.Time, buckets []time.Time, g Grouping, match func(time.Time) bool) []float64 {
	totals := make([]int, len(buckets))
	hits := make([]int, len(buckets))
	for _, d := range dates {
		if i, ok := bucketIndex(d, buckets, g); ok {
			totals[i]++
			if match(d) {
				hits[i]++
			}
		}
	}
	out := make([]float64, len(buckets))
	for i := range buckets {
		if totals[i] > 0 {
			out[i] = Round(float64(hits[i])/float64(totals[i]), 2)
		}
	}
	return out
}

func bucketIndex(d time.Time, buckets []time.Time, g Grouping) (int, bool) {
	end := periodEnd(d, g)
	for i, b := range buckets {
		if b.Equal(end) {
			return i, true
		}
	}
	return 0, false
}
