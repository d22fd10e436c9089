package planning

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/dependency"
)

// Session is the immutable snapshot a planning session operates on: the
// plan, the manual overrides pinned during the session, and a generation
// counter. Commands never mutate a Session in place; Apply returns a new
// snapshot, which keeps the scheduler pure and testable in isolation from
// any UI state.
type Session struct {
	Plan      *Plan
	Overrides OverrideSet
	// Generation increments on every applied command. Schedule computations
	// are tagged with the generation they were started from so stale
	// results can be discarded (last-write-wins, never merged).
	Generation uint64
}

// NewSession starts a session over the given plan.
func NewSession(plan *Plan) Session {
	return Session{Plan: plan, Overrides: NewOverrideSet()}
}

// Command is a discrete mutation applied to a Session snapshot.
type Command interface {
	apply(s Session) (Session, error)
}

// Apply runs a command against the snapshot and returns the successor
// snapshot. On error the input snapshot remains valid and unchanged.
func Apply(s Session, cmd Command) (Session, error) {
	if s.Plan == nil {
		return s, ErrNoPlan
	}
	next, err := cmd.apply(s)
	if err != nil {
		return s, err
	}
	next.Generation = s.Generation + 1
	next.Plan.UpdatedAt = time.Now()
	return next, nil
}

// AddTask appends a new task to the plan.
type AddTask struct {
	Task Task
}

func (c AddTask) apply(s Session) (Session, error) {
	if c.Task.ID == "" || c.Task.Title == "" {
		return s, fmt.Errorf("task requires an id and a title")
	}
	if c.Task.EstimatedDuration < 0 {
		return s, ErrNegativeDuration
	}
	if _, ok := s.Plan.TaskByID(c.Task.ID); ok {
		return s, fmt.Errorf("%w: %s", ErrDuplicateTask, c.Task.ID)
	}
	next := s
	next.Plan = s.Plan.Clone()
	next.Plan.Tasks = append(next.Plan.Tasks, c.Task.Clone())
	return next, nil
}

// RemoveTask deletes a task and every edge that references it.
type RemoveTask struct {
	TaskID string
}

func (c RemoveTask) apply(s Session) (Session, error) {
	if _, ok := s.Plan.TaskByID(c.TaskID); !ok {
		return s, fmt.Errorf("%w: %s", ErrTaskNotFound, c.TaskID)
	}
	next := s
	next.Plan = s.Plan.Clone()
	tasks := next.Plan.Tasks[:0]
	for _, t := range next.Plan.Tasks {
		if t.ID == c.TaskID {
			continue
		}
		deps := t.DependsOn[:0]
		for _, d := range t.DependsOn {
			if d != c.TaskID {
				deps = append(deps, d)
			}
		}
		t.DependsOn = deps
		tasks = append(tasks, t)
	}
	next.Plan.Tasks = tasks
	next.Overrides = s.Overrides.Snapshot()
	next.Overrides.Clear(c.TaskID)
	return next, nil
}

// SetDuration updates a task's effort estimate in minutes.
type SetDuration struct {
	TaskID  string
	Minutes int
}

func (c SetDuration) apply(s Session) (Session, error) {
	if c.Minutes < 0 {
		return s, ErrNegativeDuration
	}
	next := s
	next.Plan = s.Plan.Clone()
	for i := range next.Plan.Tasks {
		if next.Plan.Tasks[i].ID == c.TaskID {
			next.Plan.Tasks[i].EstimatedDuration = c.Minutes
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: %s", ErrTaskNotFound, c.TaskID)
}

// AddDependency records that TaskID depends on DependsOn. The edge is
// simulated against the current graph first; an edge that would close a
// cycle is rejected and the graph stays unchanged.
type AddDependency struct {
	TaskID    string
	DependsOn string
}

func (c AddDependency) apply(s Session) (Session, error) {
	g := graphFromTasks(s.Plan.Tasks)
	if err := g.AddEdge(c.DependsOn, c.TaskID); err != nil {
		return s, err
	}
	next := s
	next.Plan = s.Plan.Clone()
	for i := range next.Plan.Tasks {
		if next.Plan.Tasks[i].ID == c.TaskID {
			next.Plan.Tasks[i].DependsOn = append(next.Plan.Tasks[i].DependsOn, c.DependsOn)
			break
		}
	}
	return next, nil
}

// RemoveDependency drops an edge. Removal is always permitted: it cannot
// introduce a cycle.
type RemoveDependency struct {
	TaskID    string
	DependsOn string
}

func (c RemoveDependency) apply(s Session) (Session, error) {
	t, ok := s.Plan.TaskByID(c.TaskID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrTaskNotFound, c.TaskID)
	}
	if !t.DependsOnTask(c.DependsOn) {
		return s, fmt.Errorf("%w: %s does not depend on %s", dependency.ErrEdgeNotFound, c.TaskID, c.DependsOn)
	}
	next := s
	next.Plan = s.Plan.Clone()
	for i := range next.Plan.Tasks {
		if next.Plan.Tasks[i].ID != c.TaskID {
			continue
		}
		deps := next.Plan.Tasks[i].DependsOn[:0]
		for _, d := range next.Plan.Tasks[i].DependsOn {
			if d != c.DependsOn {
				deps = append(deps, d)
			}
		}
		next.Plan.Tasks[i].DependsOn = deps
	}
	return next, nil
}

// SetOverride pins a task's dates for the rest of the session.
type SetOverride struct {
	TaskID string
	Start  time.Time
	End    time.Time
}

func (c SetOverride) apply(s Session) (Session, error) {
	if _, ok := s.Plan.TaskByID(c.TaskID); !ok {
		return s, fmt.Errorf("%w: %s", ErrTaskNotFound, c.TaskID)
	}
	next := s
	next.Plan = s.Plan.Clone()
	next.Overrides = s.Overrides.Snapshot()
	if err := next.Overrides.Set(c.TaskID, c.Start, c.End); err != nil {
		return s, err
	}
	return next, nil
}

// ClearOverride unpins a single task.
type ClearOverride struct {
	TaskID string
}

func (c ClearOverride) apply(s Session) (Session, error) {
	next := s
	next.Plan = s.Plan.Clone()
	next.Overrides = s.Overrides.Snapshot()
	next.Overrides.Clear(c.TaskID)
	return next, nil
}

// ResyncOverrides drops every pin, letting the next recompute own all dates.
type ResyncOverrides struct{}

func (c ResyncOverrides) apply(s Session) (Session, error) {
	next := s
	next.Plan = s.Plan.Clone()
	next.Overrides = NewOverrideSet()
	return next, nil
}

// SetPhase records a workflow phase change on the snapshot. Navigation
// rules are enforced by the PhaseMachine before this command is issued.
type SetPhase struct {
	Phase Phase
}

func (c SetPhase) apply(s Session) (Session, error) {
	if !c.Phase.IsValid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidPhase, c.Phase)
	}
	next := s
	next.Plan = s.Plan.Clone()
	next.Plan.CurrentPhase = c.Phase
	return next, nil
}

// SetComputedDates writes scheduler output back onto the plan snapshot.
type SetComputedDates struct {
	Dates map[string]Override
}

func (c SetComputedDates) apply(s Session) (Session, error) {
	next := s
	next.Plan = s.Plan.Clone()
	for i := range next.Plan.Tasks {
		if span, ok := c.Dates[next.Plan.Tasks[i].ID]; ok {
			start, end := span.Start, span.End
			next.Plan.Tasks[i].StartDate = &start
			next.Plan.Tasks[i].DueDate = &end
		}
	}
	return next, nil
}

// graphFromTasks builds the dependency graph for a task set. Edges already
// committed to the plan passed the cycle gate, so rebuild never fails.
func graphFromTasks(tasks []Task) *dependency.Graph {
	g := dependency.NewGraph()
	for _, t := range tasks {
		g.AddNode(t.ID)
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			_ = g.AddEdge(dep, t.ID)
		}
	}
	return g
}
