package profiling

import "sort"

// sizeBucketAccumulator computes a size proxy per document and bins it
// into buckets, either caller-supplied or auto-derived from the observed
// proxy distribution once accumulation finishes (§4.D: "buckets are
// supplied by config or auto-derived from a first pass (percentiles of
// the proxy)").
type sizeBucketAccumulator struct {
	proxy      SizeProxy
	explicit   []BucketRange
	autoDeciles int
	samples    []int64
}

func newSizeBucketAccumulator(proxy SizeProxy, explicit []BucketRange, autoDeciles int) *sizeBucketAccumulator {
	if autoDeciles <= 0 {
		autoDeciles = 10
	}
	return &sizeBucketAccumulator{proxy: proxy, explicit: explicit, autoDeciles: autoDeciles}
}

func (s *sizeBucketAccumulator) add(proxyValue int64) {
	s.samples = append(s.samples, proxyValue)
}

func (s *sizeBucketAccumulator) merge(other *sizeBucketAccumulator) {
	s.samples = append(s.samples, other.samples...)
}

func (s *sizeBucketAccumulator) finalize() []DocumentSizeBucket {
	if len(s.samples) == 0 {
		return nil
	}
	ranges := s.explicit
	if len(ranges) == 0 {
		ranges = derivePercentileBuckets(s.samples, s.autoDeciles)
	}

	buckets := make([]DocumentSizeBucket, len(ranges))
	for i, r := range ranges {
		buckets[i] = DocumentSizeBucket{BucketID: i, Min: r.Min, Max: r.Max}
	}
	for _, v := range s.samples {
		idx := bucketIndexFor(buckets, v)
		if idx >= 0 {
			buckets[idx].Count++
		}
	}
	total := len(s.samples)
	for i := range buckets {
		buckets[i].Probability = float64(buckets[i].Count) / float64(total)
	}
	return buckets
}

func bucketIndexFor(buckets []DocumentSizeBucket, v int64) int {
	for i, b := range buckets {
		if v >= b.Min && (b.Max < 0 || v < b.Max) {
			return i
		}
	}
	if len(buckets) > 0 {
		last := len(buckets) - 1
		if v >= buckets[last].Min {
			return last
		}
		return 0
	}
	return -1
}

// derivePercentileBuckets builds n half-open ranges from percentile cut
// points of sorted sample values, so each bucket holds roughly an equal
// share of the observed mass. The final bucket is left unbounded above.
func derivePercentileBuckets(samples []int64, n int) []BucketRange {
	sorted := make([]int64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	cuts := make([]int64, 0, n-1)
	for i := 1; i < n; i++ {
		idx := (len(sorted) * i) / n
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		cuts = append(cuts, sorted[idx])
	}

	ranges := make([]BucketRange, 0, n)
	prev := int64(0)
	for _, c := range cuts {
		if c <= prev && len(ranges) > 0 {
			continue // collapse empty/degenerate buckets from duplicate cut points
		}
		ranges = append(ranges, BucketRange{Min: prev, Max: c})
		prev = c
	}
	ranges = append(ranges, BucketRange{Min: prev, Max: -1})
	return ranges
}
