package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/dependency"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
)

// WorkdayMinutes is the estimate volume the planner schedules per calendar
// day. Every day is treated as workable; there is no calendar awareness.
const WorkdayMinutes = 60

// Schedule computes a forward/backward critical-path schedule for the task
// set. Overridden tasks keep their pinned dates verbatim, and those dates
// propagate to dependents exactly like computed ones.
//
// Fatal input errors (cycle, unknown dependency reference) return a nil
// result: a partial schedule is never produced. An empty task set is not an
// error; it yields an empty result.
func Schedule(tasks []planning.Task, projectStart time.Time, overrides planning.OverrideSet) (*Result, error) {
	start := dateOf(projectStart)

	res := &Result{
		Entries:       make(map[string]Span, len(tasks)),
		CriticalPath:  []string{},
		Warnings:      []string{},
		Suggestions:   []string{},
		DebugLogs:     []string{},
		ProjectFinish: start,
	}
	if len(tasks) == 0 {
		return res, nil
	}

	g := dependency.NewGraph()
	for _, t := range tasks {
		g.AddNode(t.ID)
	}
	byID := make(map[string]planning.Task, len(tasks))
	inputOrder := make(map[string]int, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = t
		inputOrder[t.ID] = i
	}
	edges := 0
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, &ComputationError{TaskID: t.ID, Err: fmt.Errorf("%w: %s", ErrUnknownDependency, dep)}
			}
			if err := g.AddEdge(dep, t.ID); err != nil {
				if errors.Is(err, dependency.ErrCyclicDependency) {
					return nil, &ComputationError{TaskID: t.ID, Err: ErrCyclicGraph}
				}
				return nil, &ComputationError{TaskID: t.ID, Err: err}
			}
			edges++
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, &ComputationError{Err: ErrCyclicGraph}
	}

	// Forward pass in day offsets from the project start. A dependent may
	// start on the day its dependency ends: slots chain by inclusive end
	// date, matching the override drag semantics of the planner UI.
	startOf := make(map[string]int, len(tasks))
	endOf := make(map[string]int, len(tasks))
	for _, id := range order {
		t := byID[id]
		if ov, ok := overrides.Get(id); ok {
			// Pinned verbatim; also the basis for dependents below.
			startOf[id] = daysBetween(start, dateOf(ov.Start))
			endOf[id] = daysBetween(start, dateOf(ov.End))
			continue
		}
		s := 0
		for _, dep := range t.DependsOn {
			if endOf[dep] > s {
				s = endOf[dep]
			}
		}
		startOf[id] = s
		endOf[id] = s + spanDays(t.EstimatedDuration)
	}

	finish := 0
	for _, id := range order {
		if endOf[id] > finish {
			finish = endOf[id]
		}
	}

	// Backward pass: a task's latest end is bounded by the latest start of
	// each dependent; slack is latest end minus earliest end.
	latestEnd := make(map[string]int, len(tasks))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		le := finish
		for _, dep := range g.Dependents(id) {
			ls := latestEnd[dep] - (endOf[dep] - startOf[dep])
			if ls < le {
				le = ls
			}
		}
		latestEnd[id] = le
	}
	slack := make(map[string]int, len(tasks))
	for _, id := range order {
		slack[id] = latestEnd[id] - endOf[id]
	}

	res.CriticalPath = criticalPath(g, order, inputOrder, startOf, endOf, slack, finish)
	res.ProjectFinish = start.AddDate(0, 0, finish)

	for _, id := range order {
		res.Entries[id] = Span{
			Start: start.AddDate(0, 0, startOf[id]),
			End:   start.AddDate(0, 0, endOf[id]),
		}
	}

	if edges == 0 && len(tasks) > 1 {
		res.Warnings = append(res.Warnings, "no dependencies defined: every task starts at project start")
	}

	res.DebugLogs = append(res.DebugLogs,
		fmt.Sprintf("scheduled %d tasks (%d edges) from %s", len(tasks), edges, start.Format("2006-01-02")),
		fmt.Sprintf("topological order: %s", strings.Join(order, " -> ")),
		fmt.Sprintf("project finish: %s", res.ProjectFinish.Format("2006-01-02")),
	)

	return res, nil
}

// spanDays converts an estimate in minutes to the number of extra calendar
// days a task occupies past its start day. Zero duration is a valid
// zero-length slot (start == end).
func spanDays(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	days := (minutes + WorkdayMinutes - 1) / WorkdayMinutes
	return days - 1
}

// criticalPath extracts the zero-slack chain ending at the project finish.
// Ties are broken by input order.
func criticalPath(g *dependency.Graph, order []string, inputOrder map[string]int, startOf, endOf, slack map[string]int, finish int) []string {
	// Leaf of the chain: the earliest-input zero-slack task that ends at
	// the project finish.
	leaf := ""
	for _, id := range order {
		if slack[id] != 0 || endOf[id] != finish {
			continue
		}
		if leaf == "" || inputOrder[id] < inputOrder[leaf] {
			leaf = id
		}
	}
	if leaf == "" {
		return []string{}
	}

	// Walk back through binding zero-slack dependencies: a dependency is
	// binding when its end date is what the task's start was computed from.
	path := []string{leaf}
	cur := leaf
	for {
		next := ""
		for _, dep := range g.DependenciesOf(cur) {
			if slack[dep] != 0 || endOf[dep] != startOf[cur] {
				continue
			}
			if next == "" || inputOrder[dep] < inputOrder[next] {
				next = dep
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		cur = next
	}

	// Reverse into execution order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// dateOf truncates a timestamp to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b, negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
