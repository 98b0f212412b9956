// Package ratelimit implements the §4.G token-bucket rate limiter used by
// the CDC workload engine to cap operations per second. Grounded on
// golang.org/x/time/rate, the same token-bucket package used for
// QPS-capping in internal/ingest/openai_embedder.go from the retrieval
// pack's omarkamali-semango example — the only third-party rate limiter
// that appears anywhere in the pack, and already present in the teacher's
// own dependency graph (golang.org/x/time).
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles at op granularity. A Limiter built with target <= 0
// is disabled: Throttle returns immediately, per §4.G ("Disabled when
// target <= 0").
type Limiter struct {
	rl *rate.Limiter
}

// New builds a Limiter allowing targetOpsPerSec operations per second, on
// average, with a burst of 1 — the spec's contract is "at least
// 1/target_ops_per_sec has elapsed since the last release", which is a
// pure token-bucket-with-burst-1 wait, not a bursty allowance.
func New(targetOpsPerSec float64) *Limiter {
	if targetOpsPerSec <= 0 {
		return &Limiter{rl: nil}
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(targetOpsPerSec), 1)}
}

// Throttle blocks until a token is available, or returns immediately if
// the limiter is disabled. It cooperates with ctx cancellation per §5's
// context-based cancellation contract.
func (l *Limiter) Throttle(ctx context.Context) error {
	if l.rl == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}

// Enabled reports whether this Limiter actually throttles.
func (l *Limiter) Enabled() bool {
	return l.rl != nil
}
