package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one signal on C, delivered
// once no trigger has arrived for the configured delay.
type Debouncer struct {
	delay time.Duration
	c     chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer returns a Debouncer firing after delay of quiet.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, c: make(chan struct{}, 1)}
}

// C delivers debounced signals. Pending signals never queue beyond one.
func (d *Debouncer) C() <-chan struct{} { return d.c }

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Stop cancels any pending signal; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) fire() {
	select {
	case d.c <- struct{}{}:
	default:
	}
}
