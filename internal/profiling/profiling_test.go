package profiling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/docsynth/internal/sampledoc"
)

func doc(raw map[string]interface{}) sampledoc.NormalizedDocument {
	return sampledoc.Normalize(sampledoc.SampleDocument{Raw: raw})
}

// TestArrayLengthDistributionS5 mirrors spec scenario S5's input shape:
// tags lengths distributed {2:10, 3:20, 5:5}.
func TestArrayLengthDistributionS5(t *testing.T) {
	p := New(DefaultConfig())
	lengths := map[int]int{2: 10, 3: 20, 5: 5}
	for length, n := range lengths {
		for i := 0; i < n; i++ {
			tags := make([]interface{}, length)
			for j := range tags {
				tags[j] = fmt.Sprintf("tag%d", j)
			}
			p.AddDocument(doc(map[string]interface{}{"tags": tags}))
		}
	}

	profile := p.Finalize(nil)
	stats, ok := profile.ArrayStats["tags"]
	require.True(t, ok)
	assert.Equal(t, 35, stats.ArraysAnalyzed)
	assert.Equal(t, int64(10), stats.Distribution["2"])
	assert.Equal(t, int64(20), stats.Distribution["3"])
	assert.Equal(t, int64(5), stats.Distribution["5"])
	assert.Equal(t, 2.0, stats.Stats.Min)
	assert.Equal(t, 5.0, stats.Stats.Max)
}

func TestNumericRangeAccumulator(t *testing.T) {
	p := New(DefaultConfig())
	for i := 1; i <= 10; i++ {
		p.AddDocument(doc(map[string]interface{}{"price": int64(i)}))
	}
	profile := p.Finalize(nil)
	stats, ok := profile.NumericRanges["price"]
	require.True(t, ok)
	assert.Equal(t, 10, stats.ValuesAnalyzed)
	assert.True(t, stats.AllPositive)
	assert.Equal(t, ValueTypeInteger, stats.ValueType)
	assert.InDelta(t, 5.5, stats.Mean, 0.0001)
	assert.False(t, stats.DistributionCapped)
}

func TestNumericRangeCapsCardinalityAt1000(t *testing.T) {
	p := New(DefaultConfig())
	for i := 0; i < 1500; i++ {
		p.AddDocument(doc(map[string]interface{}{"v": int64(i)}))
	}
	profile := p.Finalize(nil)
	stats := profile.NumericRanges["v"]
	assert.Equal(t, 1500, stats.ValuesAnalyzed)
	assert.LessOrEqual(t, stats.Distribution.Unique(), MaxNumericCardinality)
	assert.True(t, stats.DistributionCapped)
	// exact moments survive the cap
	assert.InDelta(t, 749.5, stats.Mean, 0.0001)
}

func TestNumericAllPositiveFalseOnNegativeOrZero(t *testing.T) {
	p := New(DefaultConfig())
	p.AddDocument(doc(map[string]interface{}{"v": int64(5)}))
	p.AddDocument(doc(map[string]interface{}{"v": int64(-1)}))
	profile := p.Finalize(nil)
	assert.False(t, profile.NumericRanges["v"].AllPositive)
}

func TestNumericValueTypeFloatWhenAnyFloatSeen(t *testing.T) {
	p := New(DefaultConfig())
	p.AddDocument(doc(map[string]interface{}{"v": int64(5)}))
	p.AddDocument(doc(map[string]interface{}{"v": 3.5}))
	profile := p.Finalize(nil)
	assert.Equal(t, ValueTypeFloat, profile.NumericRanges["v"].ValueType)
}

func TestArrayStatsNestedUnderDynamicPathAreStripped(t *testing.T) {
	p := New(DefaultConfig())
	p.AddDocument(doc(map[string]interface{}{
		"accounts": map[string]interface{}{
			"acct-1": map[string]interface{}{"tags": []interface{}{"a", "b"}},
		},
	}))
	profile := p.Finalize([]string{"accounts"})
	_, ok := profile.ArrayStats["accounts.acct-1.tags"]
	assert.False(t, ok)
}

func TestArrayStatsNotStrippedWithoutDynamicPathMatch(t *testing.T) {
	p := New(DefaultConfig())
	p.AddDocument(doc(map[string]interface{}{
		"tags": []interface{}{"a", "b"},
	}))
	profile := p.Finalize([]string{"unrelated"})
	_, ok := profile.ArrayStats["tags"]
	assert.True(t, ok)
}

func TestSizeBucketsSumToOne(t *testing.T) {
	p := New(DefaultConfig())
	for i := 0; i < 100; i++ {
		fields := map[string]interface{}{"a": int64(1)}
		if i%2 == 0 {
			fields["b"] = "x"
		}
		if i%5 == 0 {
			fields["c"] = "y"
		}
		p.AddDocument(doc(fields))
	}
	profile := p.Finalize(nil)
	require.NotEmpty(t, profile.SizeBuckets)
	var total float64
	for _, b := range profile.SizeBuckets {
		total += b.Probability
	}
	assert.InDelta(t, 1.0, total, 0.0001)
}

func TestNullValuesSkippedSilently(t *testing.T) {
	p := New(DefaultConfig())
	assert.NotPanics(t, func() {
		p.AddDocument(doc(map[string]interface{}{"v": nil}))
	})
	profile := p.Finalize(nil)
	_, ok := profile.NumericRanges["v"]
	assert.False(t, ok)
}
