package clock

import "time"

// Every runs fn every d until the returned Timer is stopped. The next tick is
// armed before fn runs, so fn may stop its own ticker.
func Every(s Scheduler, d time.Duration, fn func()) Timer {
	t := &repeater{sched: s, interval: d, fn: fn}
	t.arm()
	return t
}

type repeater struct {
	sched    Scheduler
	interval time.Duration
	fn       func()
	current  Timer
	stopped  bool
}

func (r *repeater) arm() {
	r.current = r.sched.AfterFunc(r.interval, r.fire)
}

func (r *repeater) fire() {
	if r.stopped {
		return
	}
	r.arm()
	r.fn()
}

func (r *repeater) Stop() bool {
	if r.stopped {
		return false
	}
	r.stopped = true
	r.current.Stop()
	return true
}

// Slot holds at most one pending timer. Replace cancels the held timer before
// storing the new one, so only the most recently scheduled callback can fire.
// The zero value is an empty slot.
type Slot struct {
	timer Timer
}

// Replace stops the held timer, if any, and holds t instead.
func (s *Slot) Replace(t Timer) {
	s.Stop()
	s.timer = t
}

// Stop cancels the held timer. It is safe on an empty slot.
func (s *Slot) Stop() bool {
	if s.timer == nil {
		return false
	}
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}

// Release empties the slot without stopping the timer. Callbacks call it
// when the timer they belong to has fired.
func (s *Slot) Release() {
	s.timer = nil
}

// Active reports whether the slot holds a timer.
func (s *Slot) Active() bool {
	return s.timer != nil
}
