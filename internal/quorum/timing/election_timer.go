// Package timing provides the election timeout primitive and the cluster
// timing configuration it and the heartbeat loop are built from. The
// randomization is pluggable so tests can drive elections deterministically
// instead of racing real wall-clock jitter, the same way the original
// implementation swapped in a cycling stand-in for random.uniform.
package timing

import (
	"context"
	"math/rand/v2"
	"time"
)

// RandomSource yields successive values in [0, 1). ElectionTimer uses it to
// jitter the timeout between Min and Max so followers in a cluster don't
// all give up on a leader at exactly the same instant.
type RandomSource interface {
	Next() float64
}

// UniformSource is the production RandomSource, backed by math/rand/v2.
type UniformSource struct{}

// Next returns a pseudo-random float64 in [0, 1).
func (UniformSource) Next() float64 {
	return rand.Float64()
}

// CyclingSource is a deterministic RandomSource for tests: it replays a
// fixed sequence of values, wrapping around once exhausted. It mirrors the
// original test suite's use of itertools.cycle to make election timeouts
// reproducible.
type CyclingSource struct {
	values []float64
	next   int
}

// NewCyclingSource builds a CyclingSource over the given values. A single
// value (e.g. NewCyclingSource(0)) makes every timeout identical, which is
// the common case for forcing a specific node to win or lose a race.
func NewCyclingSource(values ...float64) *CyclingSource {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &CyclingSource{values: values}
}

// Next returns the next value in the cycle.
func (c *CyclingSource) Next() float64 {
	v := c.values[c.next]
	c.next = (c.next + 1) % len(c.values)
	return v
}

// ElectionTimeout describes the window a follower waits, without hearing
// from a leader, before standing as a candidate.
type ElectionTimeout struct {
	Min, Max time.Duration
	Source   RandomSource
}

func (t ElectionTimeout) randomSource() RandomSource {
	if t.Source != nil {
		return t.Source
	}
	return UniformSource{}
}

// Duration draws one jittered timeout from the window.
func (t ElectionTimeout) Duration() time.Duration {
	span := t.Max - t.Min
	if span <= 0 {
		return t.Min
	}
	r := t.randomSource().Next()
	return t.Min + time.Duration(r*float64(span))
}

// ElectionTimer waits out one election timeout, cancellable by context.
// Each cycle is a fresh call to Wait - the timer itself holds no state
// between calls, and a heartbeat does not interrupt a wait in progress.
type ElectionTimer struct {
	Timeout ElectionTimeout
}

// ErrCancelled is what Wait returns when ctx is cancelled before the
// timeout elapses. Wait returns ctx.Err(), so a ctx whose deadline passes
// first yields context.DeadlineExceeded instead.
var ErrCancelled = context.Canceled

// Wait blocks until either the election timeout elapses (nil) or ctx is
// done (ctx.Err()).
func (t ElectionTimer) Wait(ctx context.Context) error {
	timer := time.NewTimer(t.Timeout.Duration())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
