package storage

import (
	"fmt"
	"os"
	"sort"

	"github.com/felixgeelhaar/flowplan/pkg/domain/baseline"
	json "github.com/goccy/go-json"
)

// BaselinesFile is the filename for storing frozen baselines.
const BaselinesFile = "baselines.json"

// SaveBaseline appends a frozen baseline. Baselines are immutable: saving
// an ID that already exists is rejected.
func (r *FilesystemRepository) SaveBaseline(b *baseline.Baseline) error {
	if b == nil || b.ID == "" {
		return fmt.Errorf("baseline requires an id")
	}

	existing, err := r.loadBaselines()
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID == b.ID {
			return fmt.Errorf("baseline %s already exists and is immutable", b.ID)
		}
	}
	existing = append(existing, b)

	path, err := r.ResolvePath(BaselinesFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baselines: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// LoadBaseline retrieves a single baseline by ID.
func (r *FilesystemRepository) LoadBaseline(baselineID string) (*baseline.Baseline, error) {
	all, err := r.loadBaselines()
	if err != nil {
		return nil, err
	}
	for _, b := range all {
		if b.ID == baselineID {
			return b, nil
		}
	}
	return nil, baseline.ErrBaselineNotFound
}

// ListBaselines returns baselines for a plan, newest first. An empty
// planID lists them all.
func (r *FilesystemRepository) ListBaselines(planID string) ([]*baseline.Baseline, error) {
	all, err := r.loadBaselines()
	if err != nil {
		return nil, err
	}
	out := make([]*baseline.Baseline, 0, len(all))
	for _, b := range all {
		if planID == "" || b.PlanID == planID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.After(out[j].TakenAt)
	})
	return out, nil
}

func (r *FilesystemRepository) loadBaselines() ([]*baseline.Baseline, error) {
	path, err := r.ResolvePath(BaselinesFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read baselines file: %w", err)
	}

	var all []*baseline.Baseline
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baselines: %w", err)
	}
	return all, nil
}
