// Package clock provides the timer primitives every SYNTHIA component schedules on.
//
// All callbacks scheduled through a Scheduler run on a single logical thread:
// Loop serializes them onto one goroutine, Manual runs them on the goroutine
// that advances virtual time. Component state is therefore never touched by two
// callbacks at once and needs no locking of its own.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQueueSize is the buffer size of the Loop's callback queue.
const DefaultQueueSize = 256

// Timer is a handle to a scheduled callback.
//
// Stop prevents the callback from running. It reports whether the call
// stopped the timer; stopping a timer that already fired or was already
// stopped returns false and is otherwise a no-op.
type Timer interface {
	Stop() bool
}

// Scheduler schedules delayed callbacks on a single logical thread.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// AfterFunc runs fn once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer

	// Do runs fn serialized with timer callbacks and returns once it has run.
	// It must not be called from inside a callback.
	Do(fn func())
}

// Loop is the real-time Scheduler. Callbacks run in order on one goroutine.
type Loop struct {
	queue   chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewLoop starts a new event loop.
func NewLoop() *Loop {
	l := &Loop{
		queue:   make(chan func(), DefaultQueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return
		}
	}
}

// post enqueues fn. It returns false once the loop is closed.
func (l *Loop) post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Do runs fn on the loop goroutine and waits for it. After Close it returns
// without running fn.
func (l *Loop) Do(fn func()) {
	finished := make(chan struct{})
	if !l.post(func() {
		defer close(finished)
		fn()
	}) {
		return
	}
	select {
	case <-finished:
	case <-l.stopped:
	}
}

// AfterFunc schedules fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.timer = time.AfterFunc(d, func() {
		l.post(func() {
			// A callback queued before Stop was called must not run.
			if lt.done.Swap(true) {
				return
			}
			fn()
		})
	})
	return lt
}

// Close stops the loop. Pending callbacks are dropped. Close is idempotent.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
	})
	<-l.stopped
}

type loopTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.done.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}
