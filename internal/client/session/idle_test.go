package session

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIdleTimer_Expires(t *testing.T) {
	fired := make(chan struct{})
	it := NewIdleTimer(20*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	if !it.Expired() {
		t.Error("Expired() = false after firing")
	}
	it.Touch() // no-op after expiry
}

func TestIdleTimer_TouchPostpones(t *testing.T) {
	var fired atomic.Int32
	it := NewIdleTimer(80*time.Millisecond, func() { fired.Add(1) })
	defer it.Stop()

	for i := 0; i < 5; i++ {
		time.Sleep(30 * time.Millisecond)
		it.Touch()
	}
	if fired.Load() != 0 {
		t.Fatal("timer fired despite activity")
	}

	time.Sleep(200 * time.Millisecond)
	if fired.Load() != 1 {
		t.Errorf("fired %d times; want 1", fired.Load())
	}
}

func TestIdleTimer_Stop(t *testing.T) {
	var fired atomic.Int32
	it := NewIdleTimer(10*time.Millisecond, func() { fired.Add(1) })
	it.Stop()
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("stopped timer fired")
	}
	if !it.Expired() {
		t.Error("Expired() = false after Stop")
	}
}

func TestIdleTimer_DefaultDuration(t *testing.T) {
	it := NewIdleTimer(0, func() {})
	defer it.Stop()
	if it.d != DefaultIdleTimeout {
		t.Errorf("d = %v; want %v", it.d, DefaultIdleTimeout)
	}
}
