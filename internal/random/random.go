// Package random isolates every random draw SYNTHIA makes behind one interface,
// so tests can substitute a deterministic sequence.
package random

import (
	"math/rand"
	"time"
)

// Source supplies random numbers. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// New returns a Source seeded with seed. A zero seed uses the current time.
// The returned source is not safe for concurrent use; every caller in this
// module draws from the scheduler's single thread.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Range returns a value in [min, max).
func Range(src Source, min, max float64) float64 {
	return min + src.Float64()*(max-min)
}

// Duration returns a duration in [min, max).
func Duration(src Source, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(src.Float64()*float64(max-min))
}

// Fixed is a Source that replays a scripted sequence of Float64 values,
// cycling when exhausted. Intn derives its result from the next value.
type Fixed struct {
	values []float64
	next   int
}

// NewFixed returns a Fixed source. With no values it always yields 0.
func NewFixed(values ...float64) *Fixed {
	return &Fixed{values: values}
}

// Float64 returns the next scripted value.
func (f *Fixed) Float64() float64 {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

// Intn returns int(next * n), clamped to [0, n).
func (f *Fixed) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	i := int(f.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Draws returns how many values have been consumed.
func (f *Fixed) Draws() int {
	return f.next
}
