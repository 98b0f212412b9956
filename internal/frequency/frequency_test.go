package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSampleAndTotal(t *testing.T) {
	d := New()
	d.AddIntSample(2)
	d.AddIntSample(2)
	d.AddIntSample(3)

	assert.Equal(t, int64(3), d.Total())
	assert.Equal(t, 2, d.Unique())
	assert.Equal(t, int64(2), d["2"])
}

func TestMerge(t *testing.T) {
	a := New()
	a.AddIntSample(1)
	b := New()
	b.AddIntSample(1)
	b.AddIntSample(2)

	a.Merge(b)
	assert.Equal(t, int64(2), a["1"])
	assert.Equal(t, int64(1), a["2"])
}

func TestAddSamplePanicsOnNegativeCount(t *testing.T) {
	d := Distribution{"x": -1}
	assert.Panics(t, func() {
		d.AddSample("x")
	})
}

func TestStatsOfKnownDistribution(t *testing.T) {
	// {2:10, 3:20, 5:5} — total 35
	d := Distribution{"2": 10, "3": 20, "5": 5}
	s := StatsOf(d)

	assert.Equal(t, int64(35), s.Total)
	assert.Equal(t, 3, s.Unique)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	// median at ceil(35/2)=18th item -> running: 2:10(<=10), 3:20(running=30>=18) -> median=3
	assert.Equal(t, 3.0, s.Median)
	// p95 at ceil(0.95*35)=34th item -> running after 2,3 = 30 <34, after 5 -> 35>=34 -> p95=5
	assert.Equal(t, 5.0, s.P95)
}

func TestStatsOfEmpty(t *testing.T) {
	s := StatsOf(New())
	assert.Equal(t, int64(0), s.Total)
	assert.Equal(t, 0, s.Unique)
}

func TestSampleDeterministicByU(t *testing.T) {
	d := Distribution{"2": 10, "3": 20, "5": 5} // total 35
	// u just under 10/35 should land on "2"
	k, ok := Sample(d, 0.01)
	require.True(t, ok)
	assert.Equal(t, "2", k)

	// u just above 30/35 should land on "5"
	k, ok = Sample(d, 0.95)
	require.True(t, ok)
	assert.Equal(t, "5", k)
}

func TestSampleFrequencyRoundTrip(t *testing.T) {
	// Testable property 3: sampling N>=10*|D| values from D and
	// recomputing frequencies should approximate D within tolerance.
	d := Distribution{"2": 10, "3": 20, "5": 5} // total 35, |D|=3
	n := 10 * len(d) * 100 // generously above the 10*|D| floor

	observed := New()
	// Deterministic LCG-style sequence in [0,1) so the test has no
	// external randomness dependency.
	state := uint64(12345)
	for i := 0; i < n; i++ {
		state = state*6364136223846793005 + 1442695040888963407
		u := float64(state>>11) / float64(1<<53)
		k, ok := Sample(d, u)
		require.True(t, ok)
		observed.AddSample(k)
	}

	expectedRatio := map[string]float64{"2": 10.0 / 35, "3": 20.0 / 35, "5": 5.0 / 35}
	for k, want := range expectedRatio {
		got := float64(observed[k]) / float64(n)
		assert.InDelta(t, want, got, 0.02, "key %s frequency drifted beyond tolerance", k)
	}
}

func TestPercentileOfKnownDistribution(t *testing.T) {
	d := Distribution{"2": 10, "3": 20, "5": 5} // total 35
	assert.Equal(t, 3.0, Percentile(d, 50))
	assert.Equal(t, 5.0, Percentile(d, 95))
	assert.Equal(t, 2.0, Percentile(d, 1))
}

func TestPercentileOfEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(New(), 50))
}

func TestSortedNumericKeysOrdersNumerically(t *testing.T) {
	d := Distribution{"10": 1, "2": 1, "1": 1}
	keys := SortedNumericKeys(d)
	assert.Equal(t, []string{"1", "2", "10"}, keys)
}
