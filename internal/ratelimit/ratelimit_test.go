package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledLimiterNeverBlocks(t *testing.T) {
	l := New(0)
	assert.False(t, l.Enabled())

	start := time.Now()
	for i := 0; i < 1000; i++ {
		require.NoError(t, l.Throttle(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

// TestRateLimiterElapsedTimeLowerBound covers testable property 6: for
// target r ops/s and any N, total elapsed time for N throttle calls is
// >= (N-1)/r, with tolerance for scheduler jitter.
func TestRateLimiterElapsedTimeLowerBound(t *testing.T) {
	const target = 50.0 // ops/sec
	const n = 20

	l := New(target)
	require.True(t, l.Enabled())

	start := time.Now()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Throttle(context.Background()))
	}
	elapsed := time.Since(start)

	minExpected := time.Duration(float64(n-1) / target * float64(time.Second))
	// Allow one scheduler quantum of slack below the theoretical bound.
	tolerance := 15 * time.Millisecond
	assert.GreaterOrEqual(t, elapsed+tolerance, minExpected)
}

func TestRateLimiterRespectsContextCancellation(t *testing.T) {
	l := New(1) // 1 op/sec, burst 1 - first call succeeds immediately
	require.NoError(t, l.Throttle(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Throttle(ctx)
	assert.Error(t, err)
}
