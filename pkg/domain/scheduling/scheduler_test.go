package scheduling

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"pgregory.net/rapid"
)

var projectStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return projectStart.AddDate(0, 0, offset)
}

func mustSchedule(t *testing.T, tasks []planning.Task, overrides planning.OverrideSet) *Result {
	t.Helper()
	res, err := Schedule(tasks, projectStart, overrides)
	if err != nil {
		t.Fatalf("Schedule() = %v", err)
	}
	return res
}

func TestSchedule_ForwardPass(t *testing.T) {
	tasks := []planning.Task{
		{ID: "a", Title: "Design", EstimatedDuration: 60},
		{ID: "b", Title: "Build", EstimatedDuration: 120, DependsOn: []string{"a"}},
		{ID: "c", Title: "Docs", EstimatedDuration: 30},
	}

	res := mustSchedule(t, tasks, planning.NewOverrideSet())

	want := map[string]Span{
		"a": {Start: day(0), End: day(0)},
		"b": {Start: day(0), End: day(1)},
		"c": {Start: day(0), End: day(0)},
	}
	for id, w := range want {
		got, ok := res.Slot(id)
		if !ok {
			t.Fatalf("no slot for %s", id)
		}
		if !got.Start.Equal(w.Start) || !got.End.Equal(w.End) {
			t.Errorf("slot %s = %s -> %s, want %s -> %s", id,
				got.Start.Format("2006-01-02"), got.End.Format("2006-01-02"),
				w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
		}
	}

	if !res.ProjectFinish.Equal(day(1)) {
		t.Errorf("ProjectFinish = %s, want %s", res.ProjectFinish.Format("2006-01-02"), day(1).Format("2006-01-02"))
	}

	wantPath := []string{"a", "b"}
	if len(res.CriticalPath) != len(wantPath) {
		t.Fatalf("CriticalPath = %v, want %v", res.CriticalPath, wantPath)
	}
	for i := range wantPath {
		if res.CriticalPath[i] != wantPath[i] {
			t.Fatalf("CriticalPath = %v, want %v", res.CriticalPath, wantPath)
		}
	}
}

func TestSchedule_EmptyTaskSet(t *testing.T) {
	res := mustSchedule(t, nil, planning.NewOverrideSet())
	if len(res.Entries) != 0 {
		t.Errorf("Entries = %v, want empty", res.Entries)
	}
	if len(res.CriticalPath) != 0 {
		t.Errorf("CriticalPath = %v, want empty", res.CriticalPath)
	}
}

func TestSchedule_ZeroDuration(t *testing.T) {
	tasks := []planning.Task{
		{ID: "a", Title: "Kickoff", EstimatedDuration: 0},
		{ID: "b", Title: "Build", EstimatedDuration: 60, DependsOn: []string{"a"}},
	}
	res := mustSchedule(t, tasks, planning.NewOverrideSet())

	slot, _ := res.Slot("a")
	if !slot.Start.Equal(slot.End) {
		t.Errorf("zero-duration slot = %s -> %s, want zero-length", slot.Start, slot.End)
	}
}

func TestSchedule_FatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []planning.Task
		wantErr error
	}{
		{
			"unknown dependency",
			[]planning.Task{{ID: "a", Title: "A", DependsOn: []string{"ghost"}}},
			ErrUnknownDependency,
		},
		{
			"cycle",
			[]planning.Task{
				{ID: "a", Title: "A", DependsOn: []string{"b"}},
				{ID: "b", Title: "B", DependsOn: []string{"a"}},
			},
			ErrCyclicGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Schedule(tt.tasks, projectStart, planning.NewOverrideSet())
			if res != nil {
				t.Error("fatal error produced a partial schedule")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Schedule() error = %v, want %v", err, tt.wantErr)
			}
			var compErr *ComputationError
			if !errors.As(err, &compErr) {
				t.Errorf("error %T does not unwrap to *ComputationError", err)
			}
		})
	}
}

func TestSchedule_NoDependencyWarning(t *testing.T) {
	tasks := []planning.Task{
		{ID: "a", Title: "A", EstimatedDuration: 60},
		{ID: "b", Title: "B", EstimatedDuration: 60},
	}
	res := mustSchedule(t, tasks, planning.NewOverrideSet())
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for a task set with no dependencies")
	}

	// A single task is not worth warning about.
	res = mustSchedule(t, tasks[:1], planning.NewOverrideSet())
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v for a single task, want none", res.Warnings)
	}
}

func TestSchedule_OverridePropagation(t *testing.T) {
	tasks := []planning.Task{
		{ID: "a", Title: "A", EstimatedDuration: 60},
		{ID: "b", Title: "B", EstimatedDuration: 60, DependsOn: []string{"a"}},
	}

	overrides := planning.NewOverrideSet()
	if err := overrides.Set("a", day(5), day(6)); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	res := mustSchedule(t, tasks, overrides)

	a, _ := res.Slot("a")
	if !a.Start.Equal(day(5)) || !a.End.Equal(day(6)) {
		t.Errorf("pinned slot = %s -> %s, want verbatim %s -> %s", a.Start, a.End, day(5), day(6))
	}
	// The dependent chains off the pinned end date exactly like a computed one.
	b, _ := res.Slot("b")
	if !b.Start.Equal(day(6)) {
		t.Errorf("dependent start = %s, want %s", b.Start.Format("2006-01-02"), day(6).Format("2006-01-02"))
	}
}

func TestSchedule_Idempotent(t *testing.T) {
	tasks := []planning.Task{
		{ID: "a", Title: "A", EstimatedDuration: 90},
		{ID: "b", Title: "B", EstimatedDuration: 30, DependsOn: []string{"a"}},
		{ID: "c", Title: "C", EstimatedDuration: 60, DependsOn: []string{"a"}},
	}

	first := mustSchedule(t, tasks, planning.NewOverrideSet())
	second := mustSchedule(t, tasks, planning.NewOverrideSet())

	for id, s1 := range first.Entries {
		s2 := second.Entries[id]
		if !s1.Start.Equal(s2.Start) || !s1.End.Equal(s2.End) {
			t.Errorf("slot %s differs between identical runs", id)
		}
	}
	if len(first.CriticalPath) != len(second.CriticalPath) {
		t.Fatalf("critical path differs: %v vs %v", first.CriticalPath, second.CriticalPath)
	}
	for i := range first.CriticalPath {
		if first.CriticalPath[i] != second.CriticalPath[i] {
			t.Fatalf("critical path differs: %v vs %v", first.CriticalPath, second.CriticalPath)
		}
	}
}

// TestSchedule_Invariants generates random DAG-shaped task sets and checks
// the structural invariants of every computed schedule: slots are
// well-formed, dependents never start before their dependencies end, the
// project finish is the latest end, and the critical path is a contiguous
// chain ending at the project finish.
func TestSchedule_Invariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "tasks")
		tasks := make([]planning.Task, n)
		for i := range tasks {
			tasks[i] = planning.Task{
				ID:                fmt.Sprintf("t%d", i),
				Title:             fmt.Sprintf("Task %d", i),
				EstimatedDuration: rapid.IntRange(0, 600).Draw(t, "duration"),
			}
			// Edges only point backward in input order, so the set is a DAG
			// by construction.
			for j := 0; j < i; j++ {
				if rapid.Bool().Draw(t, "edge") {
					tasks[i].DependsOn = append(tasks[i].DependsOn, fmt.Sprintf("t%d", j))
				}
			}
		}

		res, err := Schedule(tasks, projectStart, planning.NewOverrideSet())
		if err != nil {
			t.Fatalf("Schedule() = %v for a DAG input", err)
		}

		maxEnd := projectStart
		for _, task := range tasks {
			slot, ok := res.Slot(task.ID)
			if !ok {
				t.Fatalf("no slot for %s", task.ID)
			}
			if slot.End.Before(slot.Start) {
				t.Fatalf("slot %s ends before it starts", task.ID)
			}
			if slot.End.After(maxEnd) {
				maxEnd = slot.End
			}
			for _, dep := range task.DependsOn {
				depSlot, _ := res.Slot(dep)
				if slot.Start.Before(depSlot.End) {
					t.Fatalf("%s starts %s, before dependency %s ends %s",
						task.ID, slot.Start, dep, depSlot.End)
				}
			}
		}

		if !res.ProjectFinish.Equal(maxEnd) {
			t.Fatalf("ProjectFinish = %s, want latest end %s", res.ProjectFinish, maxEnd)
		}

		if len(res.CriticalPath) == 0 {
			t.Fatal("critical path is empty for a non-empty task set")
		}
		last, _ := res.Slot(res.CriticalPath[len(res.CriticalPath)-1])
		if !last.End.Equal(res.ProjectFinish) {
			t.Fatalf("critical path ends %s, project finishes %s", last.End, res.ProjectFinish)
		}
		for i := 0; i+1 < len(res.CriticalPath); i++ {
			cur, _ := res.Slot(res.CriticalPath[i])
			next, _ := res.Slot(res.CriticalPath[i+1])
			if !cur.End.Equal(next.Start) {
				t.Fatalf("critical path is not contiguous between %s and %s",
					res.CriticalPath[i], res.CriticalPath[i+1])
			}
		}
	})
}
