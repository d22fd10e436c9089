package scheduling

import "time"

// Span is a computed calendar slot for a task. Dates are day-granular;
// End is inclusive. A zero-duration task has Start == End.
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Result is the derived output of a schedule computation. It has no
// identity of its own: it is always recomputable from a task set, a
// project start date and the session overrides. The last good result per
// plan is kept so later invocations can present it without recomputing.
type Result struct {
	// Entries maps task IDs to their computed (or pinned) calendar slots.
	Entries map[string]Span `json:"entries"`
	// CriticalPath lists task IDs forming the longest zero-slack chain
	// from a root to a leaf, in execution order.
	CriticalPath []string `json:"critical_path"`
	// Warnings are data-quality signals, not errors.
	Warnings []string `json:"warnings"`
	// Suggestions are advisory strings produced outside the scheduler and
	// passed through untouched.
	Suggestions []string `json:"suggestions"`
	// DebugLogs traces the computation for diagnostics.
	DebugLogs []string `json:"debug_logs"`
	// ProjectFinish is the latest inclusive end date across all tasks.
	ProjectFinish time.Time `json:"project_finish"`
}

// Slot returns the computed span for a task.
func (r *Result) Slot(taskID string) (Span, bool) {
	s, ok := r.Entries[taskID]
	return s, ok
}

// Clone returns an independent copy of the result.
func (r *Result) Clone() *Result {
	c := &Result{
		Entries:       make(map[string]Span, len(r.Entries)),
		CriticalPath:  append([]string(nil), r.CriticalPath...),
		Warnings:      append([]string(nil), r.Warnings...),
		Suggestions:   append([]string(nil), r.Suggestions...),
		DebugLogs:     append([]string(nil), r.DebugLogs...),
		ProjectFinish: r.ProjectFinish,
	}
	for id, s := range r.Entries {
		c.Entries[id] = s
	}
	return c
}
