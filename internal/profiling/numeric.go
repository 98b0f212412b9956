package profiling

import (
	"math"
	"strconv"

	"github.com/redbco/docsynth/internal/frequency"
)

// MaxNumericCardinality is §4.D's cap: once a numeric accumulator has seen
// this many distinct values, further distinct values stop being recorded
// into the distribution (stats derived from it become approximate), but
// valuesAnalyzed/sum/sumSq keep accumulating exactly.
const MaxNumericCardinality = 1000

// numericAccumulator records the value distribution, running moments, and
// sign/integrality of one numeric field path.
type numericAccumulator struct {
	dist        frequency.Distribution
	analyzed    int
	sum         float64
	sumSq       float64
	allPositive bool
	allInteger  bool
	capped      bool
}

func newNumericAccumulator() *numericAccumulator {
	return &numericAccumulator{
		dist:        frequency.New(),
		allPositive: true,
		allInteger:  true,
	}
}

func (n *numericAccumulator) add(v float64, isInteger bool) {
	n.analyzed++
	n.sum += v
	n.sumSq += v * v
	if v <= 0 {
		n.allPositive = false
	}
	if !isInteger {
		n.allInteger = false
	}

	key := numericKey(v)
	if _, seen := n.dist[key]; !seen && n.dist.Unique() >= MaxNumericCardinality {
		n.capped = true
		return
	}
	n.dist.AddSample(key)
}

func numericKey(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (n *numericAccumulator) merge(other *numericAccumulator) {
	n.dist.Merge(other.dist)
	n.analyzed += other.analyzed
	n.sum += other.sum
	n.sumSq += other.sumSq
	n.allPositive = n.allPositive && other.allPositive
	n.allInteger = n.allInteger && other.allInteger
	n.capped = n.capped || other.capped || n.dist.Unique() >= MaxNumericCardinality
}

func (n *numericAccumulator) finalize(path string) NumericRangeStats {
	mean := 0.0
	stdDev := 0.0
	if n.analyzed > 0 {
		mean = n.sum / float64(n.analyzed)
		variance := n.sumSq/float64(n.analyzed) - mean*mean
		if variance > 0 {
			stdDev = math.Sqrt(variance)
		}
	}
	vt := ValueTypeFloat
	if n.allInteger {
		vt = ValueTypeInteger
	}
	return NumericRangeStats{
		FieldPath:          path,
		Distribution:       n.dist,
		Stats:              frequency.StatsOf(n.dist),
		ValuesAnalyzed:     n.analyzed,
		ValueType:          vt,
		AllPositive:        n.allPositive,
		Mean:               mean,
		StdDev:             stdDev,
		DistributionCapped: n.capped,
	}
}
