package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
)

func newTestRepo(t *testing.T) *FilesystemRepository {
	t.Helper()
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	return repo
}

func samplePlan(id, projectID string) *planning.Plan {
	now := time.Now()
	return &planning.Plan{
		ID:        id,
		ProjectID: projectID,
		Name:      "Plan " + id,
		Tasks: []planning.Task{
			{ID: "a", Title: "Design", EstimatedDuration: 60},
			{ID: "b", Title: "Build", EstimatedDuration: 120, DependsOn: []string{"a"}},
		},
		CurrentPhase: planning.PhaseIngestion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestFilesystemRepository_Initialize(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if repo.IsInitialized() {
		t.Error("IsInitialized() = true before Initialize")
	}
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	if !repo.IsInitialized() {
		t.Error("IsInitialized() = false after Initialize")
	}
}

func TestFilesystemRepository_PlanRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	plan := samplePlan("p1", "proj-1")

	if err := repo.SavePlan(plan); err != nil {
		t.Fatalf("SavePlan() = %v", err)
	}

	loaded, err := repo.LoadPlan("p1")
	if err != nil {
		t.Fatalf("LoadPlan() = %v", err)
	}
	if loaded.ID != plan.ID || loaded.Name != plan.Name || loaded.CurrentPhase != plan.CurrentPhase {
		t.Errorf("loaded plan = %+v", loaded)
	}
	if len(loaded.Tasks) != 2 {
		t.Fatalf("Tasks = %d, want 2", len(loaded.Tasks))
	}
	if !loaded.Tasks[1].DependsOnTask("a") {
		t.Error("dependency edge lost in round trip")
	}
}

func TestFilesystemRepository_LoadPlanNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.LoadPlan("ghost"); !errors.Is(err, planning.ErrPlanNotFound) {
		t.Errorf("LoadPlan(ghost) = %v, want ErrPlanNotFound", err)
	}
}

func TestFilesystemRepository_SavePlanRequiresID(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.SavePlan(&planning.Plan{}); !errors.Is(err, planning.ErrNoPlan) {
		t.Errorf("SavePlan(empty) = %v, want ErrNoPlan", err)
	}
	if err := repo.SavePlan(nil); !errors.Is(err, planning.ErrNoPlan) {
		t.Errorf("SavePlan(nil) = %v, want ErrNoPlan", err)
	}
}

func TestFilesystemRepository_ListPlans(t *testing.T) {
	repo := newTestRepo(t)

	older := samplePlan("p1", "proj-1")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := samplePlan("p2", "proj-1")
	other := samplePlan("p3", "proj-2")

	for _, p := range []*planning.Plan{older, newer, other} {
		if err := repo.SavePlan(p); err != nil {
			t.Fatalf("SavePlan(%s) = %v", p.ID, err)
		}
	}

	plans, err := repo.ListPlans("proj-1")
	if err != nil {
		t.Fatalf("ListPlans() = %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("ListPlans(proj-1) = %d plans, want 2", len(plans))
	}
	if plans[0].ID != "p2" {
		t.Errorf("plans not newest first: %s before %s", plans[0].ID, plans[1].ID)
	}

	all, err := repo.ListPlans("")
	if err != nil {
		t.Fatalf("ListPlans(all) = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListPlans(all) = %d plans, want 3", len(all))
	}
}

func TestFilesystemRepository_DeletePlan(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.SavePlan(samplePlan("p1", "proj-1")); err != nil {
		t.Fatalf("SavePlan() = %v", err)
	}

	if err := repo.DeletePlan("p1"); err != nil {
		t.Fatalf("DeletePlan() = %v", err)
	}
	if _, err := repo.LoadPlan("p1"); !errors.Is(err, planning.ErrPlanNotFound) {
		t.Error("plan still loadable after delete")
	}
	if err := repo.DeletePlan("p1"); !errors.Is(err, planning.ErrPlanNotFound) {
		t.Errorf("DeletePlan() twice = %v, want ErrPlanNotFound", err)
	}
}

func TestFilesystemRepository_ResolvePathRejectsTraversal(t *testing.T) {
	repo := newTestRepo(t)

	tests := []string{
		"../escape.json",
		"../../etc/passwd",
		"sub/dir.json",
		"",
	}
	for _, name := range tests {
		if _, err := repo.ResolvePath(name); err == nil {
			t.Errorf("ResolvePath(%q) accepted an invalid path", name)
		}
	}
}

func TestFilesystemRepository_ConfigRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	// Absent config is not an error; the caller decides how to proceed.
	cfg, err := repo.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg != nil {
		t.Errorf("LoadConfig() = %+v before save, want nil", cfg)
	}

	want := &domain.WorkspaceConfig{
		ProjectID:    "proj-1",
		ProjectStart: "2026-01-01",
		RecordDB:     "/tmp/record.db",
	}
	if err := repo.SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig() = %v", err)
	}

	cfg, err = repo.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.ProjectID != want.ProjectID || cfg.ProjectStart != want.ProjectStart || cfg.RecordDB != want.RecordDB {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}

	start, err := cfg.StartDate()
	if err != nil {
		t.Fatalf("StartDate() = %v", err)
	}
	if !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate() = %s", start)
	}
}
