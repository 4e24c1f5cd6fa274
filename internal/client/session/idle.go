package session

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is the inactivity window after which the user is logged out.
const DefaultIdleTimeout = 10 * time.Minute

// IdleTimer calls onExpire once no Touch has happened for the configured
// window. Each Touch restarts the window.
type IdleTimer struct {
	d        time.Duration
	onExpire func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewIdleTimer starts a timer that fires onExpire after d without activity.
// A non-positive d uses DefaultIdleTimeout.
func NewIdleTimer(d time.Duration, onExpire func()) *IdleTimer {
	if d <= 0 {
		d = DefaultIdleTimeout
	}
	it := &IdleTimer{d: d, onExpire: onExpire}
	it.arm()
	return it
}

// arm starts a fresh timer for the next generation. Callers hold it.mu,
// except the constructor.
func (it *IdleTimer) arm() {
	it.gen++
	gen := it.gen
	it.timer = time.AfterFunc(it.d, func() { it.fire(gen) })
}

func (it *IdleTimer) fire(gen uint64) {
	it.mu.Lock()
	// a Touch that raced with this callback already armed a newer timer
	if it.stopped || gen != it.gen {
		it.mu.Unlock()
		return
	}
	it.stopped = true
	it.mu.Unlock()
	it.onExpire()
}

// Touch records activity. It is a no-op after expiry or Stop.
func (it *IdleTimer) Touch() {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.stopped {
		return
	}
	it.timer.Stop()
	it.arm()
}

// Expired reports whether the timer fired or was stopped.
func (it *IdleTimer) Expired() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.stopped
}

// Stop cancels the timer without calling onExpire.
func (it *IdleTimer) Stop() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.stopped = true
	it.timer.Stop()
}
