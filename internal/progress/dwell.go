package progress

import (
	"sync"
	"time"
)

// Stopper is a pending timer.
type Stopper interface {
	Stop() bool
}

// Clock schedules delayed work. RealClock is used outside tests.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// RealClock is a Clock backed by the time package.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Dweller is a cancellable single-shot dwell timer. Starting a new dwell
// cancels the pending one, so at most one dwell is ever armed.
type Dweller struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	timer   Stopper
	pending chan bool
}

// NewDweller creates a Dweller. A nil clock means RealClock and a
// non-positive delay means DefaultDwell.
func NewDweller(clock Clock, delay time.Duration) *Dweller {
	if clock == nil {
		clock = RealClock{}
	}
	if delay <= 0 {
		delay = DefaultDwell
	}
	return &Dweller{clock: clock, delay: delay}
}

// Delay returns the configured dwell delay.
func (d *Dweller) Delay() time.Duration { return d.delay }

// Start arms a new dwell. The returned channel receives exactly one
// value: true once the delay elapsed, false if the dwell was cancelled
// first.
func (d *Dweller) Start() <-chan bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()

	ch := make(chan bool, 1)
	d.pending = ch
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.pending != ch {
			return
		}
		d.pending = nil
		d.timer = nil
		ch <- true
	})
	return ch
}

// Cancel stops the pending dwell, if any.
func (d *Dweller) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Pending reports whether a dwell is armed.
func (d *Dweller) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Dweller) cancelLocked() {
	if d.pending == nil {
		return
	}
	d.timer.Stop()
	d.pending <- false
	d.pending = nil
	d.timer = nil
}
