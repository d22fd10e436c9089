package scheduling

import (
	"errors"
	"fmt"
)

// Scheduling errors. A computation failure is fatal to that computation:
// no partial schedule is ever returned, and callers must keep presenting
// the previous good result (or an explicit error state) instead.
var (
	// ErrCyclicGraph indicates the task set contains a dependency cycle.
	// The edge gate should make this impossible, but the scheduler still
	// defends against corrupted input.
	ErrCyclicGraph = errors.New("task graph contains a cycle")
	// ErrUnknownDependency indicates a task references a dependency ID
	// absent from the task set.
	ErrUnknownDependency = errors.New("task references an unknown dependency")
)

// ComputationError carries the failing task context for a fatal scheduling
// failure.
type ComputationError struct {
	TaskID string
	Err    error
}

func (e *ComputationError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("schedule computation failed at task %s: %v", e.TaskID, e.Err)
	}
	return fmt.Sprintf("schedule computation failed: %v", e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// ErrResultNotFound indicates no computed schedule is stored for a plan.
var ErrResultNotFound = errors.New("no computed schedule for plan")
