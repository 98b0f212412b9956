// Package frequency implements the value→count frequency-map primitives
// (§4.A): building a distribution from samples, merging distributions,
// deriving summary statistics, and weighted sampling back out of a
// distribution.
package frequency

import (
	"sort"
	"strconv"
)

// Distribution maps a stringified value to a positive observation count.
// Keys are lexicographic strings but are semantically numeric whenever the
// distribution tracks counts (array lengths, key counts): callers sort
// keys numerically via SortedNumericKeys rather than relying on string
// ordering.
type Distribution map[string]int64

// New returns an empty Distribution.
func New() Distribution {
	return make(Distribution)
}

// AddSample records one observation of key. It panics if called with a
// pre-existing negative count for key, which can only happen if a caller
// mutated the map directly — frequency counts are a closed invariant
// (counts > 0) and a negative count indicates a programming error, not a
// recoverable runtime condition.
func (d Distribution) AddSample(key string) {
	if c, ok := d[key]; ok && c < 0 {
		panic("frequency: distribution has negative count for key " + key)
	}
	d[key]++
}

// AddSampleN records n observations of key at once.
func (d Distribution) AddSampleN(key string, n int64) {
	if n <= 0 {
		return
	}
	d[key] += n
}

// AddIntSample records one observation of an integer key, a common case
// for array-length and dynamic-key-count distributions.
func (d Distribution) AddIntSample(key int) {
	d.AddSample(strconv.Itoa(key))
}

// Merge folds other's counts into d, for accumulators that later need to
// combine partial results computed independently (§5: "if parallelized
// later, they expose a merge operation").
func (d Distribution) Merge(other Distribution) {
	for k, v := range other {
		d[k] += v
	}
}

// Total returns the sum of all counts.
func (d Distribution) Total() int64 {
	var total int64
	for _, v := range d {
		total += v
	}
	return total
}

// Unique returns the number of distinct keys.
func (d Distribution) Unique() int {
	return len(d)
}

// SortedNumericKeys returns d's keys, in their original string form,
// sorted ascending by numeric value. Non-numeric keys sort after all
// numeric keys, in lexicographic order among themselves.
func SortedNumericKeys(d Distribution) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		fi, oki := strconv.ParseFloat(keys[i], 64)
		fj, okj := strconv.ParseFloat(keys[j], 64)
		switch {
		case oki && okj:
			if fi != fj {
				return fi < fj
			}
			return keys[i] < keys[j]
		case oki && !okj:
			return true
		case !oki && okj:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
