package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
)

func TestScheduleResult_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result := &scheduling.Result{
		Entries: map[string]scheduling.Span{
			"a": {Start: start, End: start},
			"b": {Start: start, End: start.AddDate(0, 0, 1)},
		},
		CriticalPath:  []string{"a", "b"},
		Warnings:      []string{"task c has no dependencies defined"},
		ProjectFinish: start.AddDate(0, 0, 1),
	}
	if err := repo.SaveScheduleResult("p1", result); err != nil {
		t.Fatalf("SaveScheduleResult() = %v", err)
	}

	loaded, err := repo.LoadScheduleResult("p1")
	if err != nil {
		t.Fatalf("LoadScheduleResult() = %v", err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(loaded.Entries))
	}
	b, ok := loaded.Slot("b")
	if !ok || !b.End.Equal(start.AddDate(0, 0, 1)) {
		t.Errorf("Slot(b) = %+v, %v", b, ok)
	}
	if len(loaded.CriticalPath) != 2 || loaded.CriticalPath[0] != "a" {
		t.Errorf("CriticalPath = %v", loaded.CriticalPath)
	}
	if !loaded.ProjectFinish.Equal(result.ProjectFinish) {
		t.Errorf("ProjectFinish = %s, want %s", loaded.ProjectFinish, result.ProjectFinish)
	}

	// Results are scoped per plan.
	if _, err := repo.LoadScheduleResult("p2"); !errors.Is(err, scheduling.ErrResultNotFound) {
		t.Errorf("LoadScheduleResult(p2) = %v, want ErrResultNotFound", err)
	}
}

func TestScheduleResult_Overwrite(t *testing.T) {
	repo := newTestRepo(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &scheduling.Result{
		Entries:       map[string]scheduling.Span{"a": {Start: start, End: start}},
		ProjectFinish: start,
	}
	if err := repo.SaveScheduleResult("p1", first); err != nil {
		t.Fatalf("SaveScheduleResult() = %v", err)
	}

	second := &scheduling.Result{
		Entries:       map[string]scheduling.Span{"a": {Start: start, End: start.AddDate(0, 0, 2)}},
		ProjectFinish: start.AddDate(0, 0, 2),
	}
	if err := repo.SaveScheduleResult("p1", second); err != nil {
		t.Fatalf("SaveScheduleResult() = %v", err)
	}

	loaded, err := repo.LoadScheduleResult("p1")
	if err != nil {
		t.Fatalf("LoadScheduleResult() = %v", err)
	}
	a, _ := loaded.Slot("a")
	if !a.End.Equal(start.AddDate(0, 0, 2)) {
		t.Errorf("Slot(a).End = %s, want the newer computation", a.End)
	}
}

func TestScheduleResult_NoFile(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.LoadScheduleResult("p1"); !errors.Is(err, scheduling.ErrResultNotFound) {
		t.Errorf("LoadScheduleResult() = %v, want ErrResultNotFound", err)
	}
}
