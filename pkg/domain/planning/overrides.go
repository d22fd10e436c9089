package planning

import "time"

// Override pins a task's start and end dates against recomputation.
type Override struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// OverrideSet records user-pinned dates per task for the active planning
// session. Pinned dates survive automatic recomputation until the user
// explicitly resyncs; the scheduler receives the set as an explicit
// parameter rather than an ambient skip-flag.
type OverrideSet map[string]Override

// NewOverrideSet returns an empty override set.
func NewOverrideSet() OverrideSet {
	return make(OverrideSet)
}

// Set pins dates for a task. An inverted range (end before start) is
// rejected and any previously pinned range is retained.
func (o OverrideSet) Set(taskID string, start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	o[taskID] = Override{Start: start, End: end}
	return nil
}

// Get returns the pinned dates for a task, if any.
func (o OverrideSet) Get(taskID string) (Override, bool) {
	ov, ok := o[taskID]
	return ov, ok
}

// Clear removes the pin for a single task.
func (o OverrideSet) Clear(taskID string) {
	delete(o, taskID)
}

// Reset drops all pins. This is the explicit resync against computed data.
func (o OverrideSet) Reset() {
	for id := range o {
		delete(o, id)
	}
}

// Snapshot returns an independent copy of the set.
func (o OverrideSet) Snapshot() OverrideSet {
	out := make(OverrideSet, len(o))
	for id, ov := range o {
		out[id] = ov
	}
	return out
}
