package application

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/flowplan/pkg/storage"
)

func newWorkspace(t *testing.T) *storage.FilesystemRepository {
	t.Helper()
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	if err := repo.SaveConfig(&domain.WorkspaceConfig{
		ProjectID:    "proj-1",
		ProjectStart: "2026-01-01",
	}); err != nil {
		t.Fatalf("SaveConfig() = %v", err)
	}
	return repo
}

func newPlanService(t *testing.T) (*PlanService, *storage.FilesystemRepository) {
	t.Helper()
	repo := newWorkspace(t)
	return NewPlanService(repo, storage.NewJournalWriter(repo)), repo
}

func TestPlanService_CreatePlan(t *testing.T) {
	svc, repo := newPlanService(t)

	plan, err := svc.CreatePlan("proj-1", "Q1 Delivery", "first quarter")
	if err != nil {
		t.Fatalf("CreatePlan() = %v", err)
	}
	if plan.ID == "" {
		t.Error("plan has no generated ID")
	}
	if plan.CurrentPhase != planning.PhaseIngestion {
		t.Errorf("CurrentPhase = %s, want ingestion", plan.CurrentPhase)
	}

	loaded, err := repo.LoadPlan(plan.ID)
	if err != nil {
		t.Fatalf("LoadPlan() = %v", err)
	}
	if loaded.Name != "Q1 Delivery" {
		t.Errorf("persisted name = %s", loaded.Name)
	}

	events, err := repo.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents() = %v", err)
	}
	if len(events) != 1 || events[0].Action != "plan.create" {
		t.Errorf("journal = %+v, want one plan.create event", events)
	}
}

func TestPlanService_CreatePlanValidation(t *testing.T) {
	svc, _ := newPlanService(t)

	if _, err := svc.CreatePlan("", "name", ""); err == nil {
		t.Error("CreatePlan() without project succeeded")
	}
	if _, err := svc.CreatePlan("proj-1", "", ""); err == nil {
		t.Error("CreatePlan() without name succeeded")
	}
}

func TestPlanService_AdvancePhase(t *testing.T) {
	svc, repo := newPlanService(t)
	plan, err := svc.CreatePlan("proj-1", "Q1", "")
	if err != nil {
		t.Fatalf("CreatePlan() = %v", err)
	}

	transition, err := svc.AdvancePhase(plan.ID)
	if err != nil {
		t.Fatalf("AdvancePhase() = %v", err)
	}
	if !transition.Moved {
		t.Fatal("AdvancePhase() did not move")
	}
	if transition.Plan.CurrentPhase != planning.PhasePrioritization {
		t.Errorf("phase = %s, want prioritization", transition.Plan.CurrentPhase)
	}

	// The autosave checkpoint completes off the transition path.
	if warn := <-transition.Saved; warn != "" {
		t.Errorf("autosave warning = %q", warn)
	}
	loaded, err := repo.LoadPlan(plan.ID)
	if err != nil {
		t.Fatalf("LoadPlan() = %v", err)
	}
	if loaded.CurrentPhase != planning.PhasePrioritization {
		t.Errorf("persisted phase = %s, want prioritization", loaded.CurrentPhase)
	}
}

func TestPlanService_AdvancePhaseTerminal(t *testing.T) {
	svc, repo := newPlanService(t)
	plan, _ := svc.CreatePlan("proj-1", "Q1", "")

	stored, _ := repo.LoadPlan(plan.ID)
	stored.CurrentPhase = planning.PhaseAnalysis
	if err := repo.SavePlan(stored); err != nil {
		t.Fatalf("SavePlan() = %v", err)
	}

	transition, err := svc.AdvancePhase(plan.ID)
	if err != nil {
		t.Fatalf("AdvancePhase() = %v", err)
	}
	if transition.Moved {
		t.Error("AdvancePhase() moved past the terminal phase")
	}
	if warn := <-transition.Saved; warn != "" {
		t.Errorf("no-op transition produced warning %q", warn)
	}
}

func TestPlanService_RetreatPhase(t *testing.T) {
	svc, repo := newPlanService(t)
	plan, _ := svc.CreatePlan("proj-1", "Q1", "")

	stored, _ := repo.LoadPlan(plan.ID)
	stored.CurrentPhase = planning.PhasePreview
	if err := repo.SavePlan(stored); err != nil {
		t.Fatalf("SavePlan() = %v", err)
	}

	transition, err := svc.RetreatPhase(plan.ID)
	if err != nil {
		t.Fatalf("RetreatPhase() = %v", err)
	}
	if !transition.Moved || transition.Plan.CurrentPhase != planning.PhaseEstimation {
		t.Errorf("retreat = %v to %s, want estimation", transition.Moved, transition.Plan.CurrentPhase)
	}
}

func TestPlanService_JumpPhase(t *testing.T) {
	svc, repo := newPlanService(t)
	plan, _ := svc.CreatePlan("proj-1", "Q1", "")

	updated, err := svc.JumpPhase(plan.ID, planning.PhasePreview)
	if err != nil {
		t.Fatalf("JumpPhase() = %v", err)
	}
	if updated.CurrentPhase != planning.PhasePreview {
		t.Errorf("phase = %s, want preview", updated.CurrentPhase)
	}

	loaded, _ := repo.LoadPlan(plan.ID)
	if loaded.CurrentPhase != planning.PhasePreview {
		t.Errorf("persisted phase = %s, want preview", loaded.CurrentPhase)
	}

	if _, err := svc.JumpPhase("missing", planning.PhasePreview); !errors.Is(err, planning.ErrPlanNotFound) {
		t.Errorf("JumpPhase(missing) = %v, want ErrPlanNotFound", err)
	}
}

func TestPlanService_ImportTasks(t *testing.T) {
	svc, _ := newPlanService(t)
	plan, _ := svc.CreatePlan("proj-1", "Q1", "")

	// The dependent appears before its dependency; import is not sensitive
	// to document order.
	doc := []byte(`[
		{"id": "b", "title": "Build", "estimated_duration": 120, "depends_on": ["a"]},
		{"id": "a", "title": "Design", "estimated_duration": 60}
	]`)

	updated, err := svc.ImportTasks(plan.ID, doc)
	if err != nil {
		t.Fatalf("ImportTasks() = %v", err)
	}
	if len(updated.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(updated.Tasks))
	}
	b, _ := updated.TaskByID("b")
	if !b.DependsOnTask("a") {
		t.Error("dependency edge lost during import")
	}
}

func TestPlanService_ImportTasksRejected(t *testing.T) {
	svc, repo := newPlanService(t)
	plan, _ := svc.CreatePlan("proj-1", "Q1", "")

	tests := []struct {
		name string
		doc  string
	}{
		{"missing title", `[{"id": "a"}]`},
		{"negative duration", `[{"id": "a", "title": "A", "estimated_duration": -5}]`},
		{"not an array", `{"id": "a", "title": "A"}`},
		{"malformed json", `[{"id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ImportTasks(plan.ID, []byte(tt.doc))
			if !errors.Is(err, ErrImportRejected) {
				t.Fatalf("ImportTasks() = %v, want ErrImportRejected", err)
			}
		})
	}

	// A rejected import leaves the plan untouched.
	loaded, _ := repo.LoadPlan(plan.ID)
	if len(loaded.Tasks) != 0 {
		t.Errorf("rejected import mutated the plan: %d tasks", len(loaded.Tasks))
	}
}
