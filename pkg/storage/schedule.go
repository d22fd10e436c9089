package storage

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
	json "github.com/goccy/go-json"
)

// SchedulesFile holds the last computed schedule per plan. The computed
// dates already live on the plan snapshot; this file carries the derived
// parts (critical path, warnings, debug trace) so a later process can
// present the full result without recomputing.
const SchedulesFile = "schedules.json"

// SaveScheduleResult persists the last computed schedule for a plan.
func (r *FilesystemRepository) SaveScheduleResult(planID string, result *scheduling.Result) error {
	all, err := r.loadAllResults()
	if err != nil {
		return err
	}
	all[planID] = result.Clone()

	path, err := r.ResolvePath(SchedulesFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schedules: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadScheduleResult returns the last computed schedule for a plan, or
// scheduling.ErrResultNotFound when none has been generated yet.
func (r *FilesystemRepository) LoadScheduleResult(planID string) (*scheduling.Result, error) {
	all, err := r.loadAllResults()
	if err != nil {
		return nil, err
	}
	result, ok := all[planID]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", planID, scheduling.ErrResultNotFound)
	}
	return result.Clone(), nil
}

func (r *FilesystemRepository) loadAllResults() (map[string]*scheduling.Result, error) {
	path, err := r.ResolvePath(SchedulesFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*scheduling.Result), nil
		}
		return nil, fmt.Errorf("failed to read schedules file: %w", err)
	}

	var all map[string]*scheduling.Result
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedules: %w", err)
	}
	if all == nil {
		all = make(map[string]*scheduling.Result)
	}
	return all, nil
}
