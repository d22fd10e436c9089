package application

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
)

// RecordSource reads live task data from the system of record.
type RecordSource interface {
	TasksForProject(projectID string) ([]planning.Task, error)
}

// Deltas is the divergence between a plan snapshot and the system of
// record, offered to the user as a sync/merge action.
type Deltas struct {
	// NewTasks exist in the system of record but not in the plan.
	NewTasks []planning.Task `json:"newTasks"`
	// ExistingTaskUpdates diverged from the plan's copy.
	ExistingTaskUpdates []planning.Task `json:"existingTasksUpdates"`
}

// IsEmpty reports whether the plan is already in sync.
func (d *Deltas) IsEmpty() bool {
	return len(d.NewTasks) == 0 && len(d.ExistingTaskUpdates) == 0
}

// SyncService detects and applies divergence between plan snapshots and
// the system of record.
type SyncService struct {
	repo    domain.WorkspaceRepository
	source  RecordSource
	journal domain.Journal
}

func NewSyncService(repo domain.WorkspaceRepository, source RecordSource, journal domain.Journal) *SyncService {
	return &SyncService{repo: repo, source: source, journal: journal}
}

// Deltas computes the divergence for a plan. A plan belonging to a project
// other than the active workspace project is refused outright.
func (s *SyncService) Deltas(planID string) (*Deltas, error) {
	if s.source == nil {
		return nil, ErrNoRecordSource
	}
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg != nil && cfg.ProjectID != "" && cfg.ProjectID != plan.ProjectID {
		return nil, fmt.Errorf("%w: plan belongs to project %s, workspace is %s",
			ErrSyncConflict, plan.ProjectID, cfg.ProjectID)
	}

	live, err := s.source.TasksForProject(plan.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("read system of record: %w", err)
	}

	deltas := &Deltas{}
	for _, lt := range live {
		snap, ok := plan.TaskByID(lt.ID)
		if !ok {
			deltas.NewTasks = append(deltas.NewTasks, lt)
			continue
		}
		if taskDiverged(snap, lt) {
			deltas.ExistingTaskUpdates = append(deltas.ExistingTaskUpdates, lt)
		}
	}
	return deltas, nil
}

// Merge applies the detected deltas as a full snapshot update.
func (s *SyncService) Merge(planID string) (*planning.Plan, error) {
	deltas, err := s.Deltas(planID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}
	if deltas.IsEmpty() {
		return plan, nil
	}

	next := plan.Clone()
	for _, upd := range deltas.ExistingTaskUpdates {
		for i := range next.Tasks {
			if next.Tasks[i].ID == upd.ID {
				next.Tasks[i] = upd.Clone()
			}
		}
	}
	for _, nt := range deltas.NewTasks {
		next.Tasks = append(next.Tasks, nt.Clone())
	}
	next.UpdatedAt = time.Now()

	if err := s.repo.SavePlan(next); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	if err := s.journal.Record("plan.sync", planID, map[string]interface{}{
		"new":     len(deltas.NewTasks),
		"updated": len(deltas.ExistingTaskUpdates),
	}); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	return next, nil
}

// taskDiverged compares the scheduling-relevant fields of two task copies.
func taskDiverged(a, b planning.Task) bool {
	if a.Title != b.Title || a.EstimatedDuration != b.EstimatedDuration || a.GoalID != b.GoalID {
		return true
	}
	if len(a.DependsOn) != len(b.DependsOn) {
		return true
	}
	for i := range a.DependsOn {
		if a.DependsOn[i] != b.DependsOn[i] {
			return true
		}
	}
	return false
}
