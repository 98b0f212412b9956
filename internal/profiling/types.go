// Package profiling implements the Profiler (§4.D): three independent,
// bounded-memory accumulators — array length, numeric range, and
// document-size bucket — consuming the same normalized documents the
// Inferencer sees, adapted from the teacher's per-column statistics
// accumulation in services/unifiedmodel/internal/classifier/scoring.
package profiling

import "github.com/redbco/docsynth/internal/frequency"

// ValueType classifies a numeric accumulator's observed values.
type ValueType string

const (
	ValueTypeInteger ValueType = "integer"
	ValueTypeFloat   ValueType = "float"
)

// ArrayLengthStats is §3's ArrayLengthStats.
type ArrayLengthStats struct {
	FieldPath      string
	Distribution   frequency.Distribution
	Stats          frequency.Stats
	ArraysAnalyzed int
}

// NumericRangeStats is §3's NumericRangeStats.
type NumericRangeStats struct {
	FieldPath      string
	Distribution   frequency.Distribution
	Stats          frequency.Stats
	ValuesAnalyzed int
	ValueType      ValueType
	AllPositive    bool
	Mean           float64
	StdDev         float64

	// DistributionCapped is true once the accumulator stopped recording
	// new distinct values for this path (§4.D: "cap distribution
	// cardinality at 1000 distinct values per path ... stats remain
	// approximate"); ValuesAnalyzed, Mean and StdDev stay exact, Stats
	// derived from Distribution does not.
	DistributionCapped bool
}

// SizeProxy names the metric used to bucket documents by size.
type SizeProxy string

const (
	SizeProxyLeafFieldCount SizeProxy = "leafFieldCount"
	SizeProxyArrayLengthSum SizeProxy = "arrayLengthSum"
	SizeProxyByteSize       SizeProxy = "byteSize"
)

// DocumentSizeBucket is §3's DocumentSizeBucket; buckets partition the
// non-negative integers as half-open ranges [Min, Max).
type DocumentSizeBucket struct {
	BucketID    int
	Min         int64
	Max         int64 // exclusive; <0 means unbounded
	Count       int
	Probability float64
}

// BucketRange is a caller-supplied explicit bucket boundary.
type BucketRange struct {
	Min int64
	Max int64 // exclusive; <0 means unbounded
}
