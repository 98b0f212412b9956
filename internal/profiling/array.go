package profiling

import "github.com/redbco/docsynth/internal/frequency"

// arrayAccumulator records the length distribution of one array-typed
// field path.
type arrayAccumulator struct {
	dist     frequency.Distribution
	analyzed int
}

func newArrayAccumulator() *arrayAccumulator {
	return &arrayAccumulator{dist: frequency.New()}
}

func (a *arrayAccumulator) add(length int) {
	a.dist.AddIntSample(length)
	a.analyzed++
}

func (a *arrayAccumulator) merge(other *arrayAccumulator) {
	a.dist.Merge(other.dist)
	a.analyzed += other.analyzed
}

func (a *arrayAccumulator) finalize(path string) ArrayLengthStats {
	return ArrayLengthStats{
		FieldPath:      path,
		Distribution:   a.dist,
		Stats:          frequency.StatsOf(a.dist),
		ArraysAnalyzed: a.analyzed,
	}
}
