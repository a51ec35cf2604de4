package random

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedCycles(t *testing.T) {
	f := NewFixed(0.1, 0.5, 0.9)

	got := []float64{f.Float64(), f.Float64(), f.Float64(), f.Float64()}
	assert.Equal(t, []float64{0.1, 0.5, 0.9, 0.1}, got)
	assert.Equal(t, 4, f.Draws())
}

func TestFixedIntn(t *testing.T) {
	tests := []struct {
		value float64
		n     int
		want  int
	}{
		{0.0, 6, 0},
		{0.5, 6, 3},
		{0.99, 6, 5},
		{1.0, 6, 5},
	}

	for _, tt := range tests {
		f := NewFixed(tt.value)
		assert.Equal(t, tt.want, f.Intn(tt.n), "value=%v n=%d", tt.value, tt.n)
	}
}

func TestFixedEmpty(t *testing.T) {
	f := NewFixed()
	assert.Equal(t, 0.0, f.Float64())
	assert.Equal(t, 0, f.Intn(3))
}

func TestRange(t *testing.T) {
	assert.InDelta(t, 0.2, Range(NewFixed(0), 0.2, 1.0), 1e-9)
	assert.InDelta(t, 0.6, Range(NewFixed(0.5), 0.2, 1.0), 1e-9)
}

func TestDuration(t *testing.T) {
	min, max := 3*time.Second, 5*time.Second

	assert.Equal(t, min, Duration(NewFixed(0), min, max))
	assert.Equal(t, 4*time.Second, Duration(NewFixed(0.5), min, max))
	assert.Equal(t, min, Duration(NewFixed(0.5), min, min))
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
