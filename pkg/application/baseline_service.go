package application

import (
	"fmt"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/baseline"
)

// BaselineService freezes plan snapshots and compares live plans against
// them.
type BaselineService struct {
	repo     domain.WorkspaceRepository
	analyzer *baseline.Analyzer
	journal  domain.Journal
}

func NewBaselineService(repo domain.WorkspaceRepository, journal domain.Journal) *BaselineService {
	return &BaselineService{
		repo:     repo,
		analyzer: baseline.NewAnalyzer(),
		journal:  journal,
	}
}

// Freeze captures the plan's current dates as an immutable baseline.
func (s *BaselineService) Freeze(planID, name string) (*baseline.Baseline, error) {
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}

	b := baseline.Freeze(plan, name)
	if err := s.repo.SaveBaseline(b); err != nil {
		return nil, fmt.Errorf("failed to save baseline: %w", err)
	}
	if err := s.journal.Record("baseline.freeze", planID, map[string]interface{}{
		"baseline_id": b.ID,
		"name":        name,
		"entry_count": len(b.Entries),
	}); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	return b, nil
}

// List returns the frozen baselines for a plan, newest first.
func (s *BaselineService) List(planID string) ([]*baseline.Baseline, error) {
	return s.repo.ListBaselines(planID)
}

// Compare diffs the live plan against a frozen baseline. A baseline taken
// for a different project is refused rather than merged.
func (s *BaselineService) Compare(baselineID, planID string) (*baseline.Report, error) {
	b, err := s.repo.LoadBaseline(baselineID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}
	if b.ProjectID != plan.ProjectID {
		return nil, fmt.Errorf("%w: baseline project %s, plan project %s",
			baseline.ErrPlanMismatch, b.ProjectID, plan.ProjectID)
	}

	report := s.analyzer.Compare(plan.Tasks, b)
	return &report, nil
}
