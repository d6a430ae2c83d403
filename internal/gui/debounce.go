package gui

import (
	"sync"
	"time"
)

// debouncer delays an action until its key has been quiet for delay. A newer
// trigger for the same key replaces the pending one.
type debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

// With no delay fn runs on the caller's goroutine.
func (d *debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	defer d.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// Stop drops every pending action.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
