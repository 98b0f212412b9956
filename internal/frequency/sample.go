package frequency

import "strconv"

// Sample performs the weighted reservoir lookup described in §4.A: walk
// keys in numeric order, accumulate a running fraction of Total, and
// return the first key whose running fraction exceeds u. Ties (two keys
// landing exactly on u) favor the smaller numeric key, which falls out
// naturally from walking in ascending order and returning the first key
// that crosses the threshold.
//
// u must be in [0, 1). Sample returns ("", false) for an empty
// distribution.
func Sample(d Distribution, u float64) (string, bool) {
	total := d.Total()
	if total == 0 {
		return "", false
	}
	if u < 0 {
		u = 0
	}
	if u >= 1 {
		u = 0.9999999999
	}

	keys := SortedNumericKeys(d)
	var running int64
	for _, k := range keys {
		running += d[k]
		if float64(running)/float64(total) > u {
			return k, true
		}
	}
	// Floating point edge case: return the last key if none crossed.
	return keys[len(keys)-1], true
}

// SampleInt is a convenience wrapper around Sample for distributions whose
// keys are stringified integers (array lengths, dynamic key counts).
func SampleInt(d Distribution, u float64) (int, bool) {
	k, ok := Sample(d, u)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(k)
	if err != nil {
		return 0, false
	}
	return n, true
}
