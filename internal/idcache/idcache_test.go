package idcache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHasSizeRemove(t *testing.T) {
	c := New(10)
	c.Add("a")
	c.Add("b")
	c.Add("c")

	assert.Equal(t, 3, c.Size())
	assert.True(t, c.Has("b"))

	c.Remove("b")
	assert.False(t, c.Has("b"))
	assert.Equal(t, 2, c.Size())
	assert.True(t, c.Has("a"))
	assert.True(t, c.Has("c"))
}

func TestAddIsIdempotent(t *testing.T) {
	c := New(10)
	c.Add("a")
	c.Add("a")
	assert.Equal(t, 1, c.Size())
}

func TestRemoveAbsentIDIsNoop(t *testing.T) {
	c := New(10)
	c.Add("a")
	c.Remove("missing")
	assert.Equal(t, 1, c.Size())
}

// TestEvictsOldestAtCapacity covers the §4.G contract directly: adding
// beyond capacity evicts index 0 (the oldest surviving entry), not an
// arbitrary one.
func TestEvictsOldestAtCapacity(t *testing.T) {
	c := New(3)
	c.Add("a")
	c.Add("b")
	c.Add("c")
	c.Add("d") // evicts "a"

	assert.Equal(t, 3, c.Size())
	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))
	assert.True(t, c.Has("c"))
	assert.True(t, c.Has("d"))
}

func TestTombstoneDoesNotAffectLiveness(t *testing.T) {
	c := New(10)
	c.Add("a")
	c.Tombstone("a")
	assert.True(t, c.Has("a"))
	assert.True(t, c.IsTombstoned("a"))
	assert.False(t, c.IsTombstoned("b"))
}

func TestGetRandomOnEmptyCache(t *testing.T) {
	c := New(10)
	_, ok := c.GetRandom(0.5)
	assert.False(t, ok)
}

// TestIDCacheInvariantsUnderRandomOps covers part of testable property 5:
// after each step of a random add/remove sequence on a cache of capacity
// C, size<=C and getRandom returns an id that Has reports as live.
func TestIDCacheInvariantsUnderRandomOps(t *testing.T) {
	const capacity = 20
	c := New(capacity)
	live := make(map[string]bool)

	state := uint64(7)
	nextU := func() float64 {
		state = state*6364136223846793005 + 1442695040888963407
		return float64(state>>11) / float64(1<<53)
	}

	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("id-%d", i%37)
		if nextU() < 0.6 {
			c.Add(id)
			live[id] = true
		} else {
			c.Remove(id)
			delete(live, id)
		}

		require.LessOrEqual(t, c.Size(), capacity)
		got, ok := c.GetRandom(nextU())
		if c.Size() == 0 {
			assert.False(t, ok)
		} else {
			require.True(t, ok)
			assert.True(t, c.Has(got))
		}
	}
}
