package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/advisory"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
)

// ScheduleService computes schedules for plan snapshots and retains the
// last good result per plan. Computation failures and stale results never
// evict a previously presented schedule (optimistic retention).
type ScheduleService struct {
	repo    domain.WorkspaceRepository
	advisor advisory.Provider
	journal domain.Journal

	mu   sync.Mutex
	last map[string]*scheduling.Result
}

func NewScheduleService(repo domain.WorkspaceRepository, advisor advisory.Provider, journal domain.Journal) *ScheduleService {
	return &ScheduleService{
		repo:    repo,
		advisor: advisor,
		journal: journal,
		last:    make(map[string]*scheduling.Result),
	}
}

// GenerateSchedule recomputes the plan's schedule with the session's
// pinned overrides re-injected, so a dragged bar never snaps back. The
// computed dates are written back onto the plan snapshot and persisted.
//
// If the plan snapshot changes while the computation (including the
// advisory round-trip) is in flight, the stale result is discarded and
// ErrStaleComputation returned: last write wins, results are never merged.
func (s *ScheduleService) GenerateSchedule(ctx context.Context, planID string, overrides planning.OverrideSet) (*scheduling.Result, error) {
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}
	startedFrom := plan.Hash()

	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return nil, err
	}
	projectStart, err := cfg.StartDate()
	if err != nil {
		return nil, fmt.Errorf("invalid project start date: %w", err)
	}

	result, err := scheduling.Schedule(plan.Tasks, projectStart, overrides)
	if err != nil {
		// Fatal to this computation; the previous result stays visible.
		return nil, err
	}

	// Advisory suggestions ride along untouched. A failing advisor leaves
	// the previous suggestions intact rather than blanking them.
	if s.advisor != nil {
		resp, aerr := s.advisor.Suggest(ctx, advisory.Request{Tasks: plan.Tasks, Result: result})
		if aerr == nil && resp != nil {
			result.Suggestions = append(result.Suggestions, resp.Suggestions...)
		} else {
			if prev, ok := s.LastResult(planID); ok {
				result.Suggestions = append(result.Suggestions, prev.Suggestions...)
			}
			result.DebugLogs = append(result.DebugLogs, fmt.Sprintf("advisory provider unavailable: %v", aerr))
		}
	}

	// Discard if the snapshot moved underneath the computation.
	current, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}
	if current.Hash() != startedFrom {
		return nil, ErrStaleComputation
	}

	// Write computed dates back as a full snapshot update.
	dates := make(map[string]planning.Override, len(result.Entries))
	for id, span := range result.Entries {
		dates[id] = planning.Override{Start: span.Start, End: span.End}
	}
	session, err := planning.Apply(planning.NewSession(current), planning.SetComputedDates{Dates: dates})
	if err != nil {
		return nil, err
	}
	if err := s.repo.SavePlan(session.Plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	if err := s.repo.SaveScheduleResult(planID, result); err != nil {
		return nil, fmt.Errorf("failed to save schedule result: %w", err)
	}
	if err := s.journal.Record("schedule.generate", planID, map[string]interface{}{
		"task_count":    len(plan.Tasks),
		"critical_path": result.CriticalPath,
	}); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}

	s.mu.Lock()
	s.last[planID] = result.Clone()
	s.mu.Unlock()

	return result, nil
}

// LastResult returns the most recent good schedule for a plan. Callers use
// it to keep presenting data when a recompute fails.
func (s *ScheduleService) LastResult(planID string) (*scheduling.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.last[planID]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// StoredResult returns the schedule to present for a plan: the in-process
// result when one exists, otherwise the last persisted computation. It
// returns scheduling.ErrResultNotFound when no schedule has ever been
// generated for the plan.
func (s *ScheduleService) StoredResult(planID string) (*scheduling.Result, error) {
	if r, ok := s.LastResult(planID); ok {
		return r, nil
	}
	return s.repo.LoadScheduleResult(planID)
}
