package storage

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	json "github.com/goccy/go-json"
)

// OverridesFile holds the manual overrides of the active planning session,
// keyed by plan ID. This is session state, not a plan artifact: an
// explicit resync clears it and recomputation owns the dates again.
const OverridesFile = "overrides.json"

// SaveSessionOverrides persists the pinned dates for a plan's session.
func (r *FilesystemRepository) SaveSessionOverrides(planID string, overrides planning.OverrideSet) error {
	all, err := r.loadAllOverrides()
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		delete(all, planID)
	} else {
		all[planID] = overrides.Snapshot()
	}

	path, err := r.ResolvePath(OverridesFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal overrides: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadSessionOverrides returns the pinned dates for a plan's session,
// empty when none are pinned.
func (r *FilesystemRepository) LoadSessionOverrides(planID string) (planning.OverrideSet, error) {
	all, err := r.loadAllOverrides()
	if err != nil {
		return nil, err
	}
	if ov, ok := all[planID]; ok {
		return ov.Snapshot(), nil
	}
	return planning.NewOverrideSet(), nil
}

// ClearSessionOverrides drops every pin for a plan. This is the explicit
// resync against computed data.
func (r *FilesystemRepository) ClearSessionOverrides(planID string) error {
	return r.SaveSessionOverrides(planID, planning.NewOverrideSet())
}

func (r *FilesystemRepository) loadAllOverrides() (map[string]planning.OverrideSet, error) {
	path, err := r.ResolvePath(OverridesFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]planning.OverrideSet), nil
		}
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var all map[string]planning.OverrideSet
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overrides: %w", err)
	}
	if all == nil {
		all = make(map[string]planning.OverrideSet)
	}
	return all, nil
}
