// Package watch triggers schedule recomputation when the persisted plan
// snapshot changes on disk.
package watch

import (
	"sync"
	"time"
)

// PlanDebouncer coalesces rapid snapshot writes into one recompute per
// plan. Each plan gets its own window: a burst of autosaves for one plan
// collapses to a single fire without delaying or dropping another plan's.
type PlanDebouncer struct {
	window time.Duration
	fire   func(planID string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewPlanDebouncer creates a debouncer with the given window duration.
func NewPlanDebouncer(window time.Duration, fire func(planID string)) *PlanDebouncer {
	return &PlanDebouncer{
		window: window,
		fire:   fire,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger resets the plan's debounce timer. The callback fires with that
// plan ID after the window elapses with no further triggers for it.
func (d *PlanDebouncer) Trigger(planID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[planID]; ok {
		t.Stop()
	}
	d.timers[planID] = time.AfterFunc(d.window, func() {
		d.fire(planID)
	})
}

// Stop cancels every pending fire.
func (d *PlanDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range d.timers {
		t.Stop()
	}
	d.timers = make(map[string]*time.Timer)
}
