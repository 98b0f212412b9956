package frequency

import "strconv"

// Stats is the DistributionStats type from §3: {min, max, median, p95,
// total, unique}, all derived from a Distribution in O(unique · log
// unique) by walking numerically sorted keys.
type Stats struct {
	Min    float64
	Max    float64
	Median float64
	P95    float64
	Total  int64
	Unique int
}

// StatsOf computes Stats for d. An empty distribution returns the zero
// value with Unique=0, Total=0.
func StatsOf(d Distribution) Stats {
	if len(d) == 0 {
		return Stats{}
	}

	keys := SortedNumericKeys(d)
	total := d.Total()

	s := Stats{
		Total:  total,
		Unique: len(keys),
	}

	if v, ok := parseFloat(keys[0]); ok {
		s.Min = v
	}
	if v, ok := parseFloat(keys[len(keys)-1]); ok {
		s.Max = v
	}

	medianTarget := ceilDiv(total, 2)
	p95Target := ceilDiv(total*95, 100)

	var running int64
	medianSet, p95Set := false, false
	for _, k := range keys {
		running += d[k]
		v, _ := parseFloat(k)
		if !medianSet && running >= medianTarget {
			s.Median = v
			medianSet = true
		}
		if !p95Set && running >= p95Target {
			s.P95 = v
			p95Set = true
		}
		if medianSet && p95Set {
			break
		}
	}

	return s
}

// Percentile returns the p-th percentile (0 < p <= 100) of d, using the
// same cumulative-count walk as StatsOf's median/p95 computation. Returns
// 0 for an empty distribution.
func Percentile(d Distribution, p float64) float64 {
	if len(d) == 0 {
		return 0
	}
	keys := SortedNumericKeys(d)
	total := d.Total()
	target := ceilDiv(int64(float64(total)*p), 100)

	var running int64
	for _, k := range keys {
		running += d[k]
		if running >= target {
			v, _ := parseFloat(k)
			return v
		}
	}
	v, _ := parseFloat(keys[len(keys)-1])
	return v
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// ceilDiv computes ceil(a/b) for positive integers.
func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
