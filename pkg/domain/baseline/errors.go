package baseline

import "errors"

// Baseline errors.
var (
	// ErrBaselineNotFound indicates the referenced baseline does not exist.
	ErrBaselineNotFound = errors.New("baseline not found")
	// ErrPlanMismatch indicates the baseline belongs to a different
	// project than the plan under comparison. Loading is refused rather
	// than silently merging mismatched data.
	ErrPlanMismatch = errors.New("baseline belongs to a different project")
)
