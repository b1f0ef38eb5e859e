// Package random provides the randomness and pacing primitives used to make
// browsing look human. Everything random or slow goes through a Source or a
// Sleeper so tests can run deterministically and instantly.
package random

import (
	"context"
	"math/rand"
	"time"
)

// Source is the subset of *rand.Rand the harvester needs.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// New returns a pseudo-random Source seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// IntBetween returns a uniform integer in [lo, hi].
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Uniform returns a uniform float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// Between returns a uniform duration in [lo, hi).
func Between(src Source, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return time.Duration(Uniform(src, float64(lo), float64(hi)))
}

// Choice returns a uniformly chosen element of items. items must be non-empty.
func Choice[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Sleeper pauses for a duration or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// RealSleeper sleeps on the wall clock.
var RealSleeper Sleeper = SleeperFunc(sleep)

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
