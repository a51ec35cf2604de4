package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestManualAfterFunc(t *testing.T) {
	m := NewManual(epoch)

	fired := 0
	m.AfterFunc(100*time.Millisecond, func() { fired++ })

	m.Advance(99 * time.Millisecond)
	assert.Equal(t, 0, fired)

	m.Advance(1 * time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, epoch.Add(100*time.Millisecond), m.Now())

	m.Advance(time.Second)
	assert.Equal(t, 1, fired, "one-shot timer must not fire twice")
}

func TestManualOrdering(t *testing.T) {
	m := NewManual(epoch)

	var order []string
	m.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(100*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestManualNowDuringCallback(t *testing.T) {
	m := NewManual(epoch)

	var seen time.Time
	m.AfterFunc(250*time.Millisecond, func() { seen = m.Now() })
	m.Advance(time.Second)

	assert.Equal(t, epoch.Add(250*time.Millisecond), seen)
	assert.Equal(t, epoch.Add(time.Second), m.Now())
}

func TestManualNestedScheduling(t *testing.T) {
	m := NewManual(epoch)

	fired := 0
	m.AfterFunc(100*time.Millisecond, func() {
		m.AfterFunc(100*time.Millisecond, func() { fired++ })
	})

	m.Advance(200 * time.Millisecond)
	assert.Equal(t, 1, fired, "callbacks scheduled during Advance fire within the window")
}

func TestManualStop(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	timer := m.AfterFunc(100*time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop is a no-op")
	assert.Equal(t, 0, m.Pending())

	m.Advance(time.Second)
	assert.False(t, fired)
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual(epoch)

	timer := m.AfterFunc(10*time.Millisecond, func() {})
	m.Advance(10 * time.Millisecond)

	assert.False(t, timer.Stop())
}

func TestEvery(t *testing.T) {
	m := NewManual(epoch)

	ticks := 0
	ticker := Every(m, 100*time.Millisecond, func() { ticks++ })

	m.Advance(1 * time.Second)
	assert.Equal(t, 10, ticks)

	require.True(t, ticker.Stop())
	m.Advance(1 * time.Second)
	assert.Equal(t, 10, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestEveryStopFromCallback(t *testing.T) {
	m := NewManual(epoch)

	ticks := 0
	var ticker Timer
	ticker = Every(m, 100*time.Millisecond, func() {
		ticks++
		if ticks == 3 {
			ticker.Stop()
		}
	})

	m.Advance(time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestSlotReplace(t *testing.T) {
	m := NewManual(epoch)

	var slot Slot
	assert.False(t, slot.Active())
	assert.False(t, slot.Stop(), "stopping an empty slot is a no-op")

	var fired []string
	slot.Replace(m.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "first") }))
	m.Advance(100 * time.Millisecond)
	slot.Replace(m.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "second") }))

	m.Advance(250 * time.Millisecond)
	assert.Empty(t, fired, "the replaced timer must never fire")

	m.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"second"}, fired)
}

func TestLoopAfterFunc(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	done := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for loop timer")
	}
}

func TestLoopStopDropsQueuedCallback(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var fired atomic.Bool
	var stopped bool

	// The timer expires while the loop is busy, so its callback is already
	// queued when Stop runs. It must be dropped.
	l.Do(func() {
		timer := l.AfterFunc(time.Millisecond, func() { fired.Store(true) })
		time.Sleep(20 * time.Millisecond)
		stopped = timer.Stop()
	})
	l.Do(func() {})

	assert.True(t, stopped)
	assert.False(t, fired.Load())
}

func TestLoopDoSerializes(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	counter := 0
	for i := 0; i < 100; i++ {
		l.Do(func() { counter++ })
	}
	assert.Equal(t, 100, counter)
}

func TestLoopCloseIdempotent(t *testing.T) {
	l := NewLoop()
	l.Close()
	l.Close()

	ran := false
	l.Do(func() { ran = true })
	assert.False(t, ran, "Do after Close must not run")
}
