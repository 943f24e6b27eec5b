// Package testutil holds shared test helpers: fault-injecting writers,
// goroutine leak checks and deadlock timeouts.
package testutil

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// ErrFault is returned by the fault-injecting helpers.
var ErrFault = errors.New("injected fault")

// FailingWriter accepts Limit bytes and then fails every Write with
// ErrFault. The zero value fails immediately.
type FailingWriter struct {
	Limit   int
	written int
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	room := w.Limit - w.written
	if len(p) <= room {
		w.written += len(p)
		return len(p), nil
	}
	if room > 0 {
		w.written += room
		return room, ErrFault
	}
	return 0, ErrFault
}

// GoroutineTracker compares goroutine counts around a test.
type GoroutineTracker struct {
	before int
}

// TrackGoroutines snapshots the goroutine count. Call CheckLeaks after.
func TrackGoroutines() *GoroutineTracker {
	runtime.Gosched()
	return &GoroutineTracker{before: runtime.NumGoroutine()}
}

// CheckLeaks waits up to two seconds for the count to fall back to the
// snapshot plus tolerance.
func (g *GoroutineTracker) CheckLeaks(t *testing.T, tolerance int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		after := runtime.NumGoroutine()
		if after <= g.before+tolerance {
			return
		}
		if time.Now().After(deadline) {
			t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", g.before, after, tolerance)
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// AssertTimeout fails the test if fn does not return within d.
func AssertTimeout(t *testing.T, name string, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("%s: timed out after %v (possible deadlock)", name, d)
	}
}

// RunConcurrently starts count goroutines at once and waits for them.
func RunConcurrently(count int, fn func(i int)) {
	var wg sync.WaitGroup
	start := make(chan struct{})
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func(idx int) {
			defer wg.Done()
			<-start
			fn(idx)
		}(i)
	}
	close(start)
	wg.Wait()
}
